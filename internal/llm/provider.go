package llm

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/quantmind-br/skillforge-go/internal/config"
	"github.com/quantmind-br/skillforge-go/internal/domain"
	"github.com/quantmind-br/skillforge-go/internal/utils"
)

// Settings is the resolved per-provider configuration.
type Settings struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

var defaultBaseURLs = map[string]string{
	"openai":    "https://api.openai.com/v1",
	"anthropic": "https://api.anthropic.com",
	"google":    "https://generativelanguage.googleapis.com",
	"ollama":    "http://localhost:11434",
}

// NewProvider builds the configured provider, wrapped with retries when
// cfg.MaxRetries is positive. Ollama is the only provider usable
// without an API key.
func NewProvider(cfg config.LLMConfig, logger *utils.Logger) (domain.LLMProvider, error) {
	if cfg.Provider == "" {
		return nil, domain.ErrLLMNotConfigured
	}
	if cfg.Model == "" {
		return nil, domain.ErrLLMMissingModel
	}
	if cfg.APIKey == "" && cfg.Provider != "ollama" {
		return nil, domain.ErrLLMMissingAPIKey
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURLs[cfg.Provider]
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultLLMTimeout
	}
	httpClient := &http.Client{Timeout: timeout}

	settings := Settings{
		APIKey:      cfg.APIKey,
		BaseURL:     strings.TrimSuffix(baseURL, "/"),
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}

	var provider domain.LLMProvider
	switch cfg.Provider {
	case "openai":
		provider = NewOpenAIProvider(settings, httpClient)
	case "anthropic":
		provider = NewAnthropicProvider(settings, httpClient)
	case "google":
		provider = NewGoogleProvider(settings, httpClient)
	case "ollama":
		provider = NewOllamaProvider(settings, httpClient)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrLLMInvalidProvider, cfg.Provider)
	}

	if cfg.MaxRetries > 0 {
		provider = WithRetry(provider, RetryConfig{MaxRetries: cfg.MaxRetries}, logger)
	}
	return provider, nil
}
