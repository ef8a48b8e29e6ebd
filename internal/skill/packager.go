package skill

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"

	"github.com/quantmind-br/skillforge-go/internal/utils"
)

// Packager turns built skill folders into zip archives and manages
// installation into the Claude skills directory.
type Packager struct {
	outputDir  string
	installDir string
}

func NewPackager(outputDir, installDir string) *Packager {
	return &Packager{
		outputDir:  utils.ExpandPath(outputDir),
		installDir: utils.ExpandPath(installDir),
	}
}

// Package writes <output>/<name>.zip for skillDir, replacing any
// previous archive. Entries are stored under the skill folder name so
// the archive unpacks to a self-contained directory.
func (p *Packager) Package(skillDir string) (string, error) {
	name := filepath.Base(skillDir)
	zipPath := filepath.Join(p.outputDir, name+".zip")

	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.Remove(zipPath); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("removing stale archive: %w", err)
	}

	f, err := os.Create(zipPath)
	if err != nil {
		return "", fmt.Errorf("creating archive: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	err = filepath.WalkDir(skillDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(skillDir, path)
		if err != nil {
			return err
		}
		arcname := filepath.ToSlash(filepath.Join(name, rel))

		w, err := zw.Create(arcname)
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(w, src)
		return err
	})
	if err != nil {
		zw.Close()
		os.Remove(zipPath)
		return "", fmt.Errorf("packaging skill: %w", err)
	}
	if err := zw.Close(); err != nil {
		os.Remove(zipPath)
		return "", fmt.Errorf("finalizing archive: %w", err)
	}
	return zipPath, nil
}

// Install copies skillDir into the skills directory, replacing any
// existing installation of the same skill.
func (p *Packager) Install(skillDir string) (string, error) {
	name := filepath.Base(skillDir)
	installPath := filepath.Join(p.installDir, name)

	if err := os.MkdirAll(p.installDir, 0o755); err != nil {
		return "", fmt.Errorf("creating skills directory: %w", err)
	}
	if err := os.RemoveAll(installPath); err != nil {
		return "", fmt.Errorf("removing existing installation: %w", err)
	}
	if err := utils.CopyDir(skillDir, installPath); err != nil {
		return "", fmt.Errorf("installing skill: %w", err)
	}
	return installPath, nil
}

// Uninstall removes a named skill from the skills directory.
func (p *Packager) Uninstall(name string) error {
	installPath := filepath.Join(p.installDir, utils.SanitizeFilename(name))
	if _, err := os.Stat(installPath); err != nil {
		return fmt.Errorf("skill %s is not installed", name)
	}
	return os.RemoveAll(installPath)
}

// IsInstalled reports whether a named skill exists in the skills
// directory.
func (p *Packager) IsInstalled(name string) bool {
	info, err := os.Stat(filepath.Join(p.installDir, utils.SanitizeFilename(name)))
	return err == nil && info.IsDir()
}

// InstallDir exposes the resolved skills directory.
func (p *Packager) InstallDir() string {
	return p.installDir
}
