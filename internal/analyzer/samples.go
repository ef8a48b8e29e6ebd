package analyzer

import (
	"os"

	"github.com/quantmind-br/skillforge-go/internal/domain"
)

// sampleExts are the source extensions eligible as code samples.
var sampleExts = map[string]bool{
	".py":   true,
	".js":   true,
	".java": true,
	".go":   true,
	".rs":   true,
	".ts":   true,
	".tsx":  true,
}

// readSample loads one candidate sample. Empty files, files over the
// sample size ceiling, and unreadable files are rejected; the walk moves
// on to the next candidate.
func (a *Analyzer) readSample(path, rel, ext string) (domain.CodeSample, bool) {
	info, err := os.Stat(path)
	if err != nil {
		a.logger.Debug().Str("file", rel).Err(err).Msg("sample unreadable, skipping")
		return domain.CodeSample{}, false
	}
	if info.Size() == 0 || info.Size() > a.cfg.MaxSampleSize {
		return domain.CodeSample{}, false
	}

	content, err := readLimited(path, sampleReadChars)
	if err != nil {
		a.logger.Debug().Str("file", rel).Err(err).Msg("sample unreadable, skipping")
		return domain.CodeSample{}, false
	}

	return domain.CodeSample{
		File:     rel,
		Language: languageByExt[ext],
		Content:  truncateRunes(content, sampleStoreChars),
	}, true
}
