package domain

import "context"

// Cloner performs a bounded shallow retrieval of a repository into a
// contained local path.
type Cloner interface {
	// Clone retrieves the repository into dest. On any error dest is
	// removed before Clone returns.
	Clone(ctx context.Context, ref RepoRef, dest string) (*CloneResult, error)
}

// MetadataLookup fetches best-effort repository metadata from the hosting
// API. Failures are non-fatal to the pipeline.
type MetadataLookup interface {
	Get(ctx context.Context, ref RepoRef) (RepoMetadata, error)
}

// Analyzer builds a bounded structured summary from a cloned tree.
type Analyzer interface {
	Analyze(result *CloneResult) (*Analysis, error)
}

// LLMProvider defines the interface for LLM interactions
type LLMProvider interface {
	// Name returns the provider name (openai, anthropic, google, ollama)
	Name() string
	// Complete sends a request and returns the response
	Complete(ctx context.Context, req *LLMRequest) (*LLMResponse, error)
	// Close releases resources
	Close() error
}

// HistoryStore persists skill generation history.
type HistoryStore interface {
	Add(ctx context.Context, rec *SkillRecord) (int64, error)
	Update(ctx context.Context, id int64, upd SkillUpdate) error
	List(ctx context.Context, limit int) ([]SkillRecord, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (HistoryStats, error)
	Close() error
}

// SkillUpdate carries partial updates for a history record. Nil fields are
// left untouched.
type SkillUpdate struct {
	SkillName    *string
	Status       *string
	ErrorMessage *string
	ZipPath      *string
	Installed    *bool
	Description  *string
}

// ProgressFunc receives human-readable pipeline progress. Implementations
// must be cheap; it is called from the pipeline goroutine.
type ProgressFunc func(stage, message string)
