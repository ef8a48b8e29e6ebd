package skill

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quantmind-br/skillforge-go/internal/domain"
)

// ParseBundle extracts and validates the skill bundle from a model
// reply. The reply may wrap the JSON in a ```json fence, a generic
// fence, or carry bare JSON.
func ParseBundle(text string) (*domain.SkillBundle, error) {
	jsonText, err := extractJSON(text)
	if err != nil {
		return nil, err
	}

	var bundle domain.SkillBundle
	if err := json.Unmarshal([]byte(jsonText), &bundle); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSkillPayload, err)
	}
	if err := validateBundle(&bundle); err != nil {
		return nil, err
	}
	return &bundle, nil
}

func extractJSON(text string) (string, error) {
	if start := strings.Index(text, "```json"); start >= 0 {
		body := text[start+len("```json"):]
		if end := strings.LastIndex(body, "```"); end >= 0 {
			return strings.TrimSpace(body[:end]), nil
		}
		return "", fmt.Errorf("%w: unterminated json code block", domain.ErrInvalidSkillPayload)
	}
	if start := strings.Index(text, "```"); start >= 0 {
		body := text[start+len("```"):]
		if end := strings.LastIndex(body, "```"); end >= 0 {
			return strings.TrimSpace(body[:end]), nil
		}
		return "", fmt.Errorf("%w: unterminated code block", domain.ErrInvalidSkillPayload)
	}
	return strings.TrimSpace(text), nil
}

func validateBundle(b *domain.SkillBundle) error {
	name := b.Name()
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: frontmatter name is missing", domain.ErrInvalidSkillPayload)
	}
	if strings.TrimSpace(b.Description()) == "" {
		return fmt.Errorf("%w: frontmatter description is missing", domain.ErrInvalidSkillPayload)
	}
	if strings.TrimSpace(b.SkillMD.Content) == "" {
		return fmt.Errorf("%w: skill content is empty", domain.ErrInvalidSkillPayload)
	}

	for _, ref := range b.References {
		if err := checkFilename(ref.Filename); err != nil {
			return err
		}
	}
	for _, tpl := range b.Templates {
		if err := checkFilename(tpl.Filename); err != nil {
			return err
		}
	}
	return nil
}

// checkFilename rejects names that could land outside the skill folder.
func checkFilename(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty filename", domain.ErrInvalidSkillPayload)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: filename %q contains a path separator", domain.ErrInvalidSkillPayload, name)
	case name == "." || name == ".." || strings.HasPrefix(name, ".."):
		return fmt.Errorf("%w: filename %q is a traversal", domain.ErrInvalidSkillPayload, name)
	}
	return nil
}
