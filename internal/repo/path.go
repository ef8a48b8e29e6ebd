package repo

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/skillforge-go/internal/domain"
)

// SafeDirName derives the clone directory name for an owner/name pair.
// Every rune outside [A-Za-z0-9_-] (including the joining slash) becomes
// an underscore, so "octocat/Hello-World" maps to "octocat_Hello-World".
func SafeDirName(owner, name string) string {
	token := owner + "/" + name
	var b strings.Builder
	b.Grow(len(token))
	for _, r := range token {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// ContainedPath joins the sanitized directory name for owner/name to
// baseDir and proves, by canonicalization and prefix comparison, that the
// result stays inside baseDir. The character substitution above is defense
// in depth; this check is the authoritative control. baseDir must exist.
//
// On violation it returns domain.ErrPathEscape and performs no filesystem
// operation beyond resolving baseDir.
func ContainedPath(baseDir, owner, name string) (string, error) {
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("resolving base directory: %w", err)
	}
	canonBase, err := filepath.EvalSymlinks(absBase)
	if err != nil {
		return "", fmt.Errorf("resolving base directory: %w", err)
	}

	candidate := filepath.Clean(filepath.Join(canonBase, SafeDirName(owner, name)))

	rel, err := filepath.Rel(canonBase, candidate)
	if err != nil {
		return "", domain.ErrPathEscape
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", domain.ErrPathEscape
	}
	// The sanitized name has no separators, so the candidate must sit
	// directly under the base.
	if strings.ContainsRune(rel, filepath.Separator) {
		return "", domain.ErrPathEscape
	}

	return candidate, nil
}
