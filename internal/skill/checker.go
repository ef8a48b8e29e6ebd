package skill

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/quantmind-br/skillforge-go/internal/domain"
)

// Check validates that skillDir is a structurally sound skill folder:
// a SKILL.md with parseable frontmatter carrying a name and description,
// and only expected entries alongside it.
func Check(skillDir string) error {
	info, err := os.Stat(skillDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidSkillPayload, skillDir)
	}

	frontmatter, err := ReadFrontmatter(skillDir)
	if err != nil {
		return err
	}
	if name, _ := frontmatter["name"].(string); strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: SKILL.md frontmatter has no name", domain.ErrInvalidSkillPayload)
	}
	if desc, _ := frontmatter["description"].(string); strings.TrimSpace(desc) == "" {
		return fmt.Errorf("%w: SKILL.md frontmatter has no description", domain.ErrInvalidSkillPayload)
	}

	entries, err := os.ReadDir(skillDir)
	if err != nil {
		return fmt.Errorf("reading skill directory: %w", err)
	}
	for _, e := range entries {
		switch e.Name() {
		case "SKILL.md":
		case "references", "assets":
			if !e.IsDir() {
				return fmt.Errorf("%w: %s must be a directory", domain.ErrInvalidSkillPayload, e.Name())
			}
		default:
			return fmt.Errorf("%w: unexpected entry %s", domain.ErrInvalidSkillPayload, e.Name())
		}
	}
	return nil
}

// ReadFrontmatter parses the YAML frontmatter of skillDir's SKILL.md.
func ReadFrontmatter(skillDir string) (map[string]any, error) {
	raw, err := os.ReadFile(filepath.Join(skillDir, "SKILL.md"))
	if err != nil {
		return nil, fmt.Errorf("%w: missing SKILL.md: %v", domain.ErrInvalidSkillPayload, err)
	}

	content := string(raw)
	if !strings.HasPrefix(content, "---\n") {
		return nil, fmt.Errorf("%w: SKILL.md has no frontmatter", domain.ErrInvalidSkillPayload)
	}
	rest := content[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return nil, fmt.Errorf("%w: SKILL.md frontmatter is unterminated", domain.ErrInvalidSkillPayload)
	}

	var frontmatter map[string]any
	if err := yaml.Unmarshal([]byte(rest[:end]), &frontmatter); err != nil {
		return nil, fmt.Errorf("%w: invalid frontmatter: %v", domain.ErrInvalidSkillPayload, err)
	}
	return frontmatter, nil
}
