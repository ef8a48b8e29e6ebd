package analyzer

import (
	"os"
	"path/filepath"
	"strings"
)

// readmeVariants in priority order. Matching is case-insensitive and
// root-only; a README buried in a subdirectory does not count.
var readmeVariants = []string{"README.md", "README.rst", "README.txt", "README"}

// findReadme returns the truncated readme content, or "" when no usable
// variant exists. An oversized variant is skipped entirely rather than
// partially read, and the search moves on to the next variant.
func (a *Analyzer) findReadme(root string, rootEntries []os.DirEntry) string {
	for _, variant := range readmeVariants {
		for _, e := range rootEntries {
			if e.IsDir() || !strings.EqualFold(e.Name(), variant) {
				continue
			}

			info, err := e.Info()
			if err != nil {
				continue
			}
			if info.Size() > a.cfg.MaxReadmeSize {
				a.logger.Warn().
					Str("file", e.Name()).
					Int64("size_bytes", info.Size()).
					Msg("readme exceeds size limit, skipping")
				continue
			}

			content, err := readLimited(filepath.Join(root, e.Name()), readmeReadChars)
			if err != nil {
				a.logger.Debug().Str("file", e.Name()).Err(err).Msg("readme unreadable, skipping")
				continue
			}
			return truncateRunes(content, readmeStoreChars)
		}
	}
	return ""
}
