package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/skillforge-go/internal/domain"
)

func TestOpenAIProvider_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openAIRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "chatcmpl-1",
			"model": "gpt-4o",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "hello"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 2, "total_tokens": 12}
		}`)
	}))
	defer srv.Close()

	p := NewOpenAIProvider(Settings{APIKey: "test-key", BaseURL: srv.URL, Model: "gpt-4o"}, srv.Client())

	resp, err := p.Complete(context.Background(), &domain.LLMRequest{
		Messages: []domain.LLMMessage{
			{Role: domain.RoleSystem, Content: "be terse"},
			{Role: domain.RoleUser, Content: "hi"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "hello", resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Equal(t, 12, resp.Usage.TotalTokens)
}

func TestOpenAIProvider_Complete_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"unauthorized", http.StatusUnauthorized, `{}`, domain.ErrLLMAuthFailed},
		{"rate limited", http.StatusTooManyRequests, `{}`, domain.ErrLLMRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			p := NewOpenAIProvider(Settings{APIKey: "k", BaseURL: srv.URL, Model: "gpt-4o"}, srv.Client())
			_, err := p.Complete(context.Background(), &domain.LLMRequest{
				Messages: []domain.LLMMessage{{Role: domain.RoleUser, Content: "hi"}},
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var llmErr *domain.LLMError
			require.ErrorAs(t, err, &llmErr)
			assert.Equal(t, tt.status, llmErr.StatusCode)
		})
	}
}

func TestOpenAIProvider_Complete_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": "chatcmpl-1", "model": "gpt-4o", "choices": []}`)
	}))
	defer srv.Close()

	p := NewOpenAIProvider(Settings{APIKey: "k", BaseURL: srv.URL, Model: "gpt-4o"}, srv.Client())
	_, err := p.Complete(context.Background(), &domain.LLMRequest{
		Messages: []domain.LLMMessage{{Role: domain.RoleUser, Content: "hi"}},
	})
	assert.Error(t, err)
}
