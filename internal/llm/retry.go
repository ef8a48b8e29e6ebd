package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/quantmind-br/skillforge-go/internal/domain"
	"github.com/quantmind-br/skillforge-go/internal/utils"
)

// RetryConfig holds retry configuration.
type RetryConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.InitialInterval <= 0 {
		c.InitialInterval = time.Second
	}
	if c.MaxInterval <= 0 {
		c.MaxInterval = 60 * time.Second
	}
	return c
}

// RetryingProvider wraps a provider with exponential-backoff retries on
// transient failures. Non-retryable errors pass through on the first
// attempt.
type RetryingProvider struct {
	inner  domain.LLMProvider
	cfg    RetryConfig
	logger *utils.Logger
}

// WithRetry wraps provider. The returned provider still satisfies
// domain.LLMProvider.
func WithRetry(provider domain.LLMProvider, cfg RetryConfig, logger *utils.Logger) *RetryingProvider {
	return &RetryingProvider{
		inner:  provider,
		cfg:    cfg.withDefaults(),
		logger: logger.WithComponent("llm-retry"),
	}
}

func (p *RetryingProvider) Name() string {
	return p.inner.Name()
}

func (p *RetryingProvider) Complete(ctx context.Context, req *domain.LLMRequest) (*domain.LLMResponse, error) {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.cfg.InitialInterval
	exp.MaxInterval = p.cfg.MaxInterval

	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(p.cfg.MaxRetries)), ctx)

	var resp *domain.LLMResponse
	err := backoff.RetryNotify(func() error {
		var opErr error
		resp, opErr = p.inner.Complete(ctx, req)
		if opErr == nil {
			return nil
		}
		if !isRetryable(opErr) {
			return backoff.Permanent(opErr)
		}
		return opErr
	}, policy, func(err error, wait time.Duration) {
		p.logger.Warn().
			Str("provider", p.inner.Name()).
			Dur("backoff", wait).
			Err(err).
			Msg("retrying LLM request")
	})
	if err != nil {
		if isRetryable(err) {
			return nil, fmt.Errorf("%w: %v", domain.ErrLLMMaxRetriesExceeded, err)
		}
		return nil, err
	}
	return resp, nil
}

func (p *RetryingProvider) Close() error {
	return p.inner.Close()
}

// isRetryable reports whether a completion error is worth another
// attempt. Client timeouts are checked before context errors because a
// *url.Error wraps context.DeadlineExceeded.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, domain.ErrLLMRateLimited) {
		return true
	}

	var llmErr *domain.LLMError
	if errors.As(err, &llmErr) {
		switch llmErr.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}
	return false
}
