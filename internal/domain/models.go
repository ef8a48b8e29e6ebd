package domain

import "time"

// RepoRef identifies a validated repository. A RepoRef only exists for
// locators that passed the admission gate; it is never partially populated.
type RepoRef struct {
	Owner    string
	Name     string
	FullName string // owner/name
	URL      string // normalized https clone URL
}

// RepoMetadata is best-effort decoration fetched from the hosting API.
// All fields may be zero when the lookup fails.
type RepoMetadata struct {
	FullName      string `json:"full_name,omitempty"`
	Description   string `json:"description,omitempty"`
	Stars         int    `json:"stars,omitempty"`
	Language      string `json:"language,omitempty"`
	DefaultBranch string `json:"default_branch,omitempty"`
}

// CloneResult owns a cloned working tree on disk. The path is removed by the
// cloner on any failure; on success the pipeline owns removal after the
// analysis has been consumed.
type CloneResult struct {
	Ref       RepoRef
	Path      string
	SizeBytes int64
	Metadata  RepoMetadata
}

// RepoType is a coarse classification of a repository.
type RepoType string

const (
	TypeLibrary     RepoType = "library"
	TypeFramework   RepoType = "framework"
	TypeSDK         RepoType = "sdk"
	TypeCLITool     RepoType = "cli-tool"
	TypeApplication RepoType = "application"
	TypeUnknown     RepoType = "unknown"
)

// FileEntry is one entry of the bounded file tree.
type FileEntry struct {
	Path string `json:"path"`
	Kind string `json:"kind"` // "dir" or the file extension ("file" when none)
}

// LanguageCount is one bucket of the language histogram.
type LanguageCount struct {
	Language string `json:"language"`
	Files    int    `json:"files"`
}

// CodeSample is a truncated excerpt of one source file.
type CodeSample struct {
	File     string `json:"file"`
	Language string `json:"language"`
	Content  string `json:"content"`
}

// Analysis is the bounded structured summary of a cloned repository.
// It is a value object: built once by the analyzer, never mutated after.
type Analysis struct {
	Ref         RepoRef
	Metadata    RepoMetadata
	Readme      string
	FileTree    []FileEntry
	Languages   []LanguageCount
	CodeSamples []CodeSample
	RepoType    RepoType
	HasDocs     bool
	TotalFiles  int
}

// SkillMD is the main document of a generated skill bundle.
type SkillMD struct {
	Frontmatter map[string]any `json:"frontmatter"`
	Content     string         `json:"content"`
}

// SkillFile is one auxiliary file of a skill bundle.
type SkillFile struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// SkillBundle is the parsed output of the generation step.
type SkillBundle struct {
	SkillMD    SkillMD     `json:"skill_md"`
	References []SkillFile `json:"references"`
	Templates  []SkillFile `json:"templates"`
}

// Name returns the skill name from the frontmatter, or "" when absent.
func (b *SkillBundle) Name() string {
	if v, ok := b.SkillMD.Frontmatter["name"].(string); ok {
		return v
	}
	return ""
}

// Description returns the skill description from the frontmatter.
func (b *SkillBundle) Description() string {
	if v, ok := b.SkillMD.Frontmatter["description"].(string); ok {
		return v
	}
	return ""
}

// SkillRecord is one row of the generation history.
type SkillRecord struct {
	ID           int64
	SkillName    string
	RepoURL      string
	RepoName     string
	Description  string
	CreatedAt    time.Time
	Status       string // pending, success, failed
	ErrorMessage string
	ZipPath      string
	Installed    bool
	Metadata     map[string]any
}

// History statuses.
const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// HistoryStats aggregates the history table.
type HistoryStats struct {
	Total     int
	Succeeded int
	Failed    int
	Installed int
}

// =============================================================================
// LLM Types
// =============================================================================

// MessageRole represents the role in a conversation
type MessageRole string

const (
	// RoleSystem represents a system message
	RoleSystem MessageRole = "system"
	// RoleUser represents a user message
	RoleUser MessageRole = "user"
	// RoleAssistant represents an assistant message
	RoleAssistant MessageRole = "assistant"
)

// LLMMessage represents a message in the conversation
type LLMMessage struct {
	Role    MessageRole
	Content string
}

// LLMRequest represents a completion request
type LLMRequest struct {
	Messages    []LLMMessage
	MaxTokens   int      // 0 = use provider default
	Temperature *float64 // nil = use provider default
}

// LLMResponse represents the LLM response
type LLMResponse struct {
	Content      string
	Model        string
	FinishReason string
	Usage        LLMUsage
}

// LLMUsage contains token usage statistics
type LLMUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
