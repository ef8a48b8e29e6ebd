package repo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/quantmind-br/skillforge-go/internal/config"
	"github.com/quantmind-br/skillforge-go/internal/domain"
	"github.com/quantmind-br/skillforge-go/internal/utils"
)

// GitCloner fetches repositories with shallow clones and enforces the
// configured wall-clock timeout and size ceiling. It implements
// domain.Cloner.
type GitCloner struct {
	cfg    config.CloneConfig
	token  string
	logger *utils.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewGitCloner creates a cloner. token is optional; when set it is sent
// as HTTPS basic auth so private repositories resolve instead of
// appearing missing.
func NewGitCloner(cfg config.CloneConfig, token string, logger *utils.Logger) *GitCloner {
	return &GitCloner{
		cfg:    cfg,
		token:  token,
		logger: logger.WithComponent("cloner"),
		locks:  map[string]*sync.Mutex{},
	}
}

// pathLock returns the mutex guarding dest, creating it on first use.
// Serializing per destination keeps concurrent requests for the same
// repository from interleaving remove/clone on one directory.
func (c *GitCloner) pathLock(dest string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[dest]
	if !ok {
		l = &sync.Mutex{}
		c.locks[dest] = l
	}
	return l
}

// Clone performs a depth-1 clone of ref into dest. Any pre-existing
// directory at dest is replaced. On every failure path the destination
// is removed before returning, so callers never see a partial clone.
func (c *GitCloner) Clone(ctx context.Context, ref domain.RepoRef, dest string) (*domain.CloneResult, error) {
	lock := c.pathLock(dest)
	lock.Lock()
	defer lock.Unlock()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, fmt.Errorf("preparing clone directory: %w", err)
	}
	if err := os.RemoveAll(dest); err != nil {
		return nil, fmt.Errorf("clearing clone directory: %w", err)
	}

	timeout := c.cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultCloneTimeout
	}
	cloneCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := &git.CloneOptions{
		URL:               ref.URL,
		Depth:             1,
		SingleBranch:      true,
		Tags:              git.NoTags,
		RecurseSubmodules: git.NoRecurseSubmodules,
	}
	if c.token != "" {
		opts.Auth = &githttp.BasicAuth{
			Username: "token",
			Password: c.token,
		}
	}

	c.logger.Debug().Str("repo", ref.FullName).Str("dest", dest).Msg("starting shallow clone")
	start := time.Now()

	if _, err := git.PlainCloneContext(cloneCtx, dest, false, opts); err != nil {
		os.RemoveAll(dest)
		return nil, domain.NewFetchError(ref.URL, classifyCloneError(cloneCtx, err))
	}

	size, err := utils.DirSize(dest)
	if err != nil {
		os.RemoveAll(dest)
		return nil, domain.NewFetchError(ref.URL, fmt.Errorf("measuring clone: %w", err))
	}

	maxSize := c.cfg.MaxRepoSizeBytes()
	if size > maxSize {
		os.RemoveAll(dest)
		c.logger.Warn().
			Str("repo", ref.FullName).
			Int64("size_bytes", size).
			Int64("limit_bytes", maxSize).
			Msg("repository exceeds size limit")
		return nil, domain.NewFetchError(ref.URL, fmt.Errorf("%w: %d bytes (limit %d)", domain.ErrRepoTooLarge, size, maxSize))
	}

	c.logger.Info().
		Str("repo", ref.FullName).
		Int64("size_bytes", size).
		Dur("elapsed", time.Since(start)).
		Msg("clone complete")

	return &domain.CloneResult{
		Ref:       ref,
		Path:      dest,
		SizeBytes: size,
	}, nil
}

// classifyCloneError maps go-git transport failures onto the fetch error
// taxonomy. Timeout wins over whatever partial transport error the
// cancellation surfaced as.
func classifyCloneError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrCloneTimeout, err)
	}
	switch {
	case errors.Is(err, transport.ErrRepositoryNotFound):
		return fmt.Errorf("%w: %v", domain.ErrRepoNotFound, err)
	case errors.Is(err, transport.ErrAuthenticationRequired),
		errors.Is(err, transport.ErrAuthorizationFailed):
		return fmt.Errorf("%w: %v", domain.ErrAuthRequired, err)
	default:
		return fmt.Errorf("%w: %v", domain.ErrNetworkFailure, err)
	}
}
