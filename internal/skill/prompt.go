package skill

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/quantmind-br/skillforge-go/internal/domain"
)

//go:embed templates/skill_prompt.tmpl
var defaultPromptTemplate string

// Prompt assembly limits. The analysis is already bounded; these trim it
// further so the prompt stays well under provider context windows.
const (
	promptReadmeChars = 8000
	promptTreeEntries = 20
	promptSamples     = 3
)

type promptData struct {
	RepoName      string
	RepoURL       string
	RepoType      string
	Languages     string
	Description   string
	Readme        string
	FileStructure string
	CodeSamples   string
}

// PromptBuilder renders the generation prompt from an analysis.
type PromptBuilder struct {
	tmpl *template.Template
}

// NewPromptBuilder loads the prompt template from templatePath, falling
// back to the built-in template when templatePath is empty.
func NewPromptBuilder(templatePath string) (*PromptBuilder, error) {
	text := defaultPromptTemplate
	if templatePath != "" {
		raw, err := os.ReadFile(templatePath)
		if err != nil {
			return nil, fmt.Errorf("reading prompt template: %w", err)
		}
		text = string(raw)
	}

	tmpl, err := template.New("skill_prompt").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing prompt template: %w", err)
	}
	return &PromptBuilder{tmpl: tmpl}, nil
}

// Build renders the user prompt for analysis.
func (b *PromptBuilder) Build(analysis *domain.Analysis) (string, error) {
	data := promptData{
		RepoName:      analysis.Ref.FullName,
		RepoURL:       analysis.Ref.URL,
		RepoType:      string(analysis.RepoType),
		Languages:     formatLanguages(analysis.Languages),
		Description:   analysis.Metadata.Description,
		Readme:        analysis.Readme,
		FileStructure: formatTree(analysis.FileTree),
		CodeSamples:   formatSamples(analysis.CodeSamples),
	}
	if data.Description == "" {
		data.Description = "No description available"
	}
	if data.Readme == "" {
		data.Readme = "README not found"
	} else if len([]rune(data.Readme)) > promptReadmeChars {
		data.Readme = string([]rune(data.Readme)[:promptReadmeChars])
	}

	var sb strings.Builder
	if err := b.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return sb.String(), nil
}

func formatLanguages(langs []domain.LanguageCount) string {
	if len(langs) == 0 {
		return "Unknown"
	}
	names := make([]string, len(langs))
	for i, l := range langs {
		names[i] = l.Language
	}
	return strings.Join(names, ", ")
}

func formatTree(tree []domain.FileEntry) string {
	if len(tree) == 0 {
		return "File structure not available"
	}
	if len(tree) > promptTreeEntries {
		tree = tree[:promptTreeEntries]
	}
	var sb strings.Builder
	for _, e := range tree {
		fmt.Fprintf(&sb, "- %s (%s)\n", e.Path, e.Kind)
	}
	return sb.String()
}

func formatSamples(samples []domain.CodeSample) string {
	if len(samples) == 0 {
		return "No code samples available"
	}
	if len(samples) > promptSamples {
		samples = samples[:promptSamples]
	}
	var sb strings.Builder
	for i, s := range samples {
		fmt.Fprintf(&sb, "\n## Sample %d: %s\n\n", i+1, s.File)
		fmt.Fprintf(&sb, "```%s\n%s\n```\n", strings.ToLower(s.Language), s.Content)
	}
	return sb.String()
}
