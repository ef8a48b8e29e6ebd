package analyzer

import (
	"sort"

	"github.com/quantmind-br/skillforge-go/internal/domain"
)

// languageByExt maps file extensions to language names for the
// histogram. Extensions outside this map are counted toward the file
// total but not attributed to a language.
var languageByExt = map[string]string{
	".py":    "Python",
	".js":    "JavaScript",
	".jsx":   "JavaScript",
	".ts":    "TypeScript",
	".tsx":   "TypeScript",
	".go":    "Go",
	".rs":    "Rust",
	".java":  "Java",
	".kt":    "Kotlin",
	".rb":    "Ruby",
	".php":   "PHP",
	".c":     "C",
	".h":     "C",
	".cpp":   "C++",
	".cc":    "C++",
	".hpp":   "C++",
	".cs":    "C#",
	".swift": "Swift",
	".scala": "Scala",
	".sh":    "Shell",
}

// languageHistogram orders the counts by file count descending, then by
// language name, so equal-count buckets come out in a stable order.
func languageHistogram(counts map[string]int) []domain.LanguageCount {
	out := make([]domain.LanguageCount, 0, len(counts))
	for lang, n := range counts {
		out = append(out, domain.LanguageCount{Language: lang, Files: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Files != out[j].Files {
			return out[i].Files > out[j].Files
		}
		return out[i].Language < out[j].Language
	})
	return out
}
