package analyzer

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/skillforge-go/internal/config"
	"github.com/quantmind-br/skillforge-go/internal/domain"
	"github.com/quantmind-br/skillforge-go/internal/utils"
)

// Read and retention ceilings for text excerpts. Reads are capped before
// truncation so a pathological file never lands in memory whole.
const (
	readmeReadChars  = 5000
	readmeStoreChars = 2000
	sampleReadChars  = 5000
	sampleStoreChars = 2000
)

// ignoreDirs are directory names never descended into. They carry
// generated or vendored content that says nothing about the project.
var ignoreDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
	"dist":         true,
	"build":        true,
	"target":       true,
	".next":        true,
	".nuxt":        true,
	"coverage":     true,
}

// Analyzer produces a bounded structured summary of a cloned working
// tree. It only reads; running it twice over the same tree yields
// identical results. It implements domain.Analyzer.
type Analyzer struct {
	cfg    config.AnalyzeConfig
	logger *utils.Logger
}

func New(cfg config.AnalyzeConfig, logger *utils.Logger) *Analyzer {
	return &Analyzer{
		cfg:    cfg,
		logger: logger.WithComponent("analyzer"),
	}
}

// Analyze walks clone.Path once, in lexicographic order, and assembles
// the analysis. Individual unreadable files are skipped; only an
// unreadable root fails the whole analysis.
func (a *Analyzer) Analyze(clone *domain.CloneResult) (*domain.Analysis, error) {
	root := clone.Path

	rootEntries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrAnalysisFailed, root, err)
	}

	readme := a.findReadme(root, rootEntries)

	var (
		tree       []domain.FileEntry
		samples    []domain.CodeSample
		langFiles  = map[string]int{}
		totalFiles int
		walked     int
	)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			a.logger.Debug().Str("path", path).Err(err).Msg("skipping unreadable entry")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}

		name := d.Name()
		if strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() && ignoreDirs[name] {
			return fs.SkipDir
		}

		walked++
		if walked > a.cfg.MaxWalkEntries {
			return fs.SkipAll
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		depth := strings.Count(rel, "/") + 1

		if d.IsDir() {
			if depth <= a.cfg.MaxTreeDepth && len(tree) < a.cfg.MaxTreeEntries {
				tree = append(tree, domain.FileEntry{Path: rel + "/", Kind: "dir"})
			}
			return nil
		}

		totalFiles++

		ext := strings.ToLower(filepath.Ext(name))
		if lang, ok := languageByExt[ext]; ok {
			langFiles[lang]++
		}

		if depth <= a.cfg.MaxTreeDepth && len(tree) < a.cfg.MaxTreeEntries {
			kind := ext
			if kind == "" {
				kind = "file"
			}
			tree = append(tree, domain.FileEntry{Path: rel, Kind: kind})
		}

		if len(samples) < a.cfg.MaxSamples && sampleExts[ext] {
			if sample, ok := a.readSample(path, rel, ext); ok {
				samples = append(samples, sample)
			}
		}

		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("%w: walking %s: %v", domain.ErrAnalysisFailed, root, walkErr)
	}

	analysis := &domain.Analysis{
		Ref:         clone.Ref,
		Metadata:    clone.Metadata,
		Readme:      readme,
		FileTree:    tree,
		Languages:   languageHistogram(langFiles),
		CodeSamples: samples,
		RepoType:    classifyRepoType(rootEntries, clone.Ref.Name),
		HasDocs:     hasDocumentation(readme, rootEntries),
		TotalFiles:  totalFiles,
	}

	a.logger.Debug().
		Str("repo", clone.Ref.FullName).
		Int("total_files", totalFiles).
		Int("samples", len(samples)).
		Str("repo_type", string(analysis.RepoType)).
		Msg("analysis complete")

	return analysis, nil
}

// hasDocumentation reports whether the tree carries documentation beyond
// bare code: a readme, a docs directory, or conventional doc files at
// the root.
func hasDocumentation(readme string, rootEntries []os.DirEntry) bool {
	if readme != "" {
		return true
	}
	for _, e := range rootEntries {
		name := strings.ToLower(e.Name())
		if e.IsDir() && (name == "docs" || name == "documentation" || name == "doc") {
			return true
		}
		if !e.IsDir() && (name == "api.md" || name == "usage.md") {
			return true
		}
	}
	return false
}

// readLimited reads at most limit runes from path.
func readLimited(path string, limit int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	// 4 bytes per rune worst case.
	buf, err := io.ReadAll(io.LimitReader(f, int64(limit)*4))
	if err != nil {
		return "", err
	}
	return truncateRunes(string(buf), limit), nil
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
