package repo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"

	"github.com/quantmind-br/skillforge-go/internal/domain"
	"github.com/quantmind-br/skillforge-go/internal/utils"
)

// MetadataClient looks up repository metadata through the GitHub REST
// API. Lookups are best effort; the pipeline proceeds without metadata
// when the API is unreachable.
type MetadataClient struct {
	client *github.Client
	logger *utils.Logger
}

// MetadataOption configures a MetadataClient.
type MetadataOption func(*MetadataClient)

// WithAPIBaseURL points the client at an alternative API endpoint, for
// GitHub Enterprise installs and for tests.
func WithAPIBaseURL(rawURL string) MetadataOption {
	return func(m *MetadataClient) {
		if rawURL == "" {
			return
		}
		if !strings.HasSuffix(rawURL, "/") {
			rawURL += "/"
		}
		if u, err := url.Parse(rawURL); err == nil {
			m.client.BaseURL = u
		}
	}
}

// NewMetadataClient creates a metadata client. token is optional; when
// set, requests are authenticated, which raises rate limits and lets
// private repositories resolve.
func NewMetadataClient(token string, logger *utils.Logger, opts ...MetadataOption) *MetadataClient {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	client := github.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	m := &MetadataClient{
		client: client,
		logger: logger.WithComponent("metadata"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get fetches metadata for ref.
func (m *MetadataClient) Get(ctx context.Context, ref domain.RepoRef) (domain.RepoMetadata, error) {
	repo, _, err := m.client.Repositories.Get(ctx, ref.Owner, ref.Name)
	if err != nil {
		return domain.RepoMetadata{}, fmt.Errorf("fetching metadata for %s: %w", ref.FullName, err)
	}
	return domain.RepoMetadata{
		FullName:      repo.GetFullName(),
		Description:   repo.GetDescription(),
		Stars:         repo.GetStargazersCount(),
		Language:      repo.GetLanguage(),
		DefaultBranch: repo.GetDefaultBranch(),
	}, nil
}

var _ domain.MetadataLookup = (*MetadataClient)(nil)
