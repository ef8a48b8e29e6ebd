package skill

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/quantmind-br/skillforge-go/internal/domain"
	"github.com/quantmind-br/skillforge-go/internal/utils"
)

// Builder writes a parsed bundle to disk as a skill folder:
//
//	<output>/<name>/SKILL.md
//	<output>/<name>/references/*.md
//	<output>/<name>/assets/templates/*
type Builder struct {
	outputDir string
}

func NewBuilder(outputDir string) *Builder {
	return &Builder{outputDir: outputDir}
}

// Build materializes bundle under the output directory and returns the
// skill directory. An existing folder for the same skill is replaced.
func (b *Builder) Build(bundle *domain.SkillBundle) (string, error) {
	name := utils.SanitizeFilename(bundle.Name())
	if name == "" {
		return "", fmt.Errorf("%w: unusable skill name", domain.ErrInvalidSkillPayload)
	}

	skillDir := filepath.Join(b.outputDir, name)
	if err := os.RemoveAll(skillDir); err != nil {
		return "", fmt.Errorf("clearing skill directory: %w", err)
	}
	if err := os.MkdirAll(skillDir, 0o755); err != nil {
		return "", fmt.Errorf("creating skill directory: %w", err)
	}

	if err := b.writeSkillMD(skillDir, bundle.SkillMD); err != nil {
		return "", err
	}
	if err := writeFiles(filepath.Join(skillDir, "references"), bundle.References); err != nil {
		return "", err
	}
	if err := writeFiles(filepath.Join(skillDir, "assets", "templates"), bundle.Templates); err != nil {
		return "", err
	}
	return skillDir, nil
}

func (b *Builder) writeSkillMD(skillDir string, md domain.SkillMD) error {
	frontmatter, err := yaml.Marshal(md.Frontmatter)
	if err != nil {
		return fmt.Errorf("marshaling frontmatter: %w", err)
	}
	full := fmt.Sprintf("---\n%s---\n\n%s", frontmatter, md.Content)
	if err := os.WriteFile(filepath.Join(skillDir, "SKILL.md"), []byte(full), 0o644); err != nil {
		return fmt.Errorf("writing SKILL.md: %w", err)
	}
	return nil
}

func writeFiles(dir string, files []domain.SkillFile) error {
	if len(files) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	for _, f := range files {
		name := utils.SanitizeFilename(f.Filename)
		if err := os.WriteFile(filepath.Join(dir, name), []byte(f.Content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return nil
}
