package domain

import (
	"errors"
	"fmt"
)

// Validation sentinel errors. These fire before any I/O and are safe to show
// to the caller verbatim.
var (
	// ErrURLTooLong indicates the locator exceeds the length ceiling
	ErrURLTooLong = errors.New("repository URL is too long")

	// ErrSchemeRejected indicates a non-HTTPS locator
	ErrSchemeRejected = errors.New("repository URL must use HTTPS")

	// ErrHostRejected indicates a host outside the allow-list
	ErrHostRejected = errors.New("repository host is not supported")

	// ErrInvalidIdentifier indicates a malformed owner/name pair
	ErrInvalidIdentifier = errors.New("invalid repository identifier")

	// ErrPathEscape indicates the derived clone path escaped the base
	// directory. Unreachable given a correct validator; logged as a
	// security event and shown to users as ErrInvalidIdentifier.
	ErrPathEscape = errors.New("clone path escapes base directory")
)

// Fetch sentinel errors, wrapped by FetchError.
var (
	// ErrRepoNotFound indicates the remote repository does not exist
	ErrRepoNotFound = errors.New("repository not found")

	// ErrAuthRequired indicates the remote requires credentials
	ErrAuthRequired = errors.New("repository requires authentication")

	// ErrNetworkFailure indicates a transport-level clone failure
	ErrNetworkFailure = errors.New("network failure")

	// ErrCloneTimeout indicates the clone exceeded its wall-clock budget
	ErrCloneTimeout = errors.New("clone timed out")

	// ErrRepoTooLarge indicates the cloned tree exceeded the size ceiling
	ErrRepoTooLarge = errors.New("repository too large")
)

// ErrAnalysisFailed indicates the cloned root could not be read at all.
// Individual damaged files never produce it; extraction degrades instead.
var ErrAnalysisFailed = errors.New("analysis failed")

// ErrInvalidSkillPayload indicates the model reply could not be parsed
// into a structurally valid skill bundle.
var ErrInvalidSkillPayload = errors.New("invalid skill payload")

// FetchError represents a terminal clone failure. The contained path is
// always removed before a FetchError is returned.
type FetchError struct {
	RepoURL string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch error for %s: %v", e.RepoURL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError
func NewFetchError(repoURL string, err error) *FetchError {
	return &FetchError{RepoURL: repoURL, Err: err}
}

// UserMessage returns a short, user-safe description of err. Path-escape
// failures are deliberately reported as a generic identifier problem so the
// local directory layout never leaks.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrURLTooLong):
		return "repository URL is too long"
	case errors.Is(err, ErrSchemeRejected):
		return "repository URL must use https://"
	case errors.Is(err, ErrHostRejected):
		return "only github.com repositories are supported"
	case errors.Is(err, ErrInvalidIdentifier), errors.Is(err, ErrPathEscape):
		return "invalid repository identifier"
	case errors.Is(err, ErrRepoNotFound):
		return "repository not found"
	case errors.Is(err, ErrAuthRequired):
		return "repository requires authentication"
	case errors.Is(err, ErrCloneTimeout):
		return "cloning the repository timed out"
	case errors.Is(err, ErrRepoTooLarge):
		return "repository exceeds the size limit"
	case errors.Is(err, ErrNetworkFailure):
		return "network error while cloning the repository"
	case err != nil:
		return err.Error()
	default:
		return ""
	}
}

// =============================================================================
// LLM Errors
// =============================================================================

// LLM sentinel errors
var (
	// ErrLLMNotConfigured indicates LLM provider is not configured
	ErrLLMNotConfigured = errors.New("LLM provider not configured")

	// ErrLLMMissingAPIKey indicates API key is required but not provided
	ErrLLMMissingAPIKey = errors.New("LLM API key is required")

	// ErrLLMMissingModel indicates model is required but not provided
	ErrLLMMissingModel = errors.New("LLM model is required")

	// ErrLLMInvalidProvider indicates an invalid provider type
	ErrLLMInvalidProvider = errors.New("invalid LLM provider")

	// ErrLLMRateLimited indicates rate limit was exceeded
	ErrLLMRateLimited = errors.New("LLM rate limit exceeded")

	// ErrLLMAuthFailed indicates authentication failed
	ErrLLMAuthFailed = errors.New("LLM authentication failed")

	// ErrLLMRequestFailed indicates the provider rejected the request
	ErrLLMRequestFailed = errors.New("LLM request failed")

	// ErrLLMMaxRetriesExceeded indicates all retry attempts were exhausted
	ErrLLMMaxRetriesExceeded = errors.New("LLM max retries exceeded")
)

// LLMError represents an LLM-specific error
type LLMError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *LLMError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (HTTP %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Provider, e.Message)
}

func (e *LLMError) Unwrap() error {
	return e.Err
}

// NewLLMError creates a new LLMError
func NewLLMError(provider string, statusCode int, message string, err error) *LLMError {
	return &LLMError{
		Provider:   provider,
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}
