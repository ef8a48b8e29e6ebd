package repo

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/skillforge-go/internal/config"
	"github.com/quantmind-br/skillforge-go/internal/domain"
	"github.com/quantmind-br/skillforge-go/internal/utils"
)

// newFixtureRepo creates a local git repository with the given files and
// returns its path, usable as a clone URL.
func newFixtureRepo(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	r, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	wt, err := r.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(".")
	require.NoError(t, err)
	_, err = wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "fixture",
			Email: "fixture@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)

	return dir
}

func testCloner(t *testing.T, cfg config.CloneConfig) *GitCloner {
	t.Helper()
	return NewGitCloner(cfg, "", utils.NewDefaultLogger())
}

func TestGitCloner_Clone(t *testing.T) {
	src := newFixtureRepo(t, map[string]string{
		"README.md":   "# fixture\n",
		"main.go":     "package main\n",
		"lib/util.go": "package lib\n",
	})

	cloner := testCloner(t, config.CloneConfig{Timeout: time.Minute, MaxRepoSize: "500MB"})
	dest := filepath.Join(t.TempDir(), "octocat_fixture")

	ref := domain.RepoRef{Owner: "octocat", Name: "fixture", FullName: "octocat/fixture", URL: src}
	result, err := cloner.Clone(context.Background(), ref, dest)
	require.NoError(t, err)

	assert.Equal(t, dest, result.Path)
	assert.Positive(t, result.SizeBytes)
	assert.FileExists(t, filepath.Join(dest, "README.md"))
	assert.FileExists(t, filepath.Join(dest, "lib", "util.go"))
}

func TestGitCloner_Clone_ReplacesExistingDir(t *testing.T) {
	src := newFixtureRepo(t, map[string]string{"README.md": "# fixture\n"})

	cloner := testCloner(t, config.CloneConfig{Timeout: time.Minute, MaxRepoSize: "500MB"})
	dest := filepath.Join(t.TempDir(), "octocat_fixture")
	require.NoError(t, os.MkdirAll(dest, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "stale.txt"), []byte("old"), 0o644))

	ref := domain.RepoRef{Owner: "octocat", Name: "fixture", FullName: "octocat/fixture", URL: src}
	_, err := cloner.Clone(context.Background(), ref, dest)
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(dest, "stale.txt"))
	assert.FileExists(t, filepath.Join(dest, "README.md"))
}

func TestGitCloner_Clone_TooLarge(t *testing.T) {
	big := make([]byte, 64*1024)
	src := newFixtureRepo(t, map[string]string{"blob.bin": string(big)})

	cloner := testCloner(t, config.CloneConfig{Timeout: time.Minute, MaxRepoSize: "1KB"})
	dest := filepath.Join(t.TempDir(), "octocat_big")

	ref := domain.RepoRef{Owner: "octocat", Name: "big", FullName: "octocat/big", URL: src}
	_, err := cloner.Clone(context.Background(), ref, dest)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRepoTooLarge)

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, src, fetchErr.RepoURL)

	// The oversized clone must not be left behind.
	assert.NoDirExists(t, dest)
}

func TestGitCloner_Clone_NotFound(t *testing.T) {
	cloner := testCloner(t, config.CloneConfig{Timeout: time.Minute, MaxRepoSize: "500MB"})
	dest := filepath.Join(t.TempDir(), "octocat_missing")

	missing := filepath.Join(t.TempDir(), "no-such-repo")
	ref := domain.RepoRef{Owner: "octocat", Name: "missing", FullName: "octocat/missing", URL: missing}
	_, err := cloner.Clone(context.Background(), ref, dest)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRepoNotFound)
	assert.NoDirExists(t, dest)
}

func TestGitCloner_Clone_Timeout(t *testing.T) {
	cloner := testCloner(t, config.CloneConfig{Timeout: time.Minute, MaxRepoSize: "500MB"})
	dest := filepath.Join(t.TempDir(), "octocat_slow")

	// An already-expired deadline classifies any transport failure as a
	// timeout, regardless of the underlying error.
	ctx, cancel := context.WithTimeout(context.Background(), -time.Second)
	defer cancel()

	missing := filepath.Join(t.TempDir(), "no-such-repo")
	ref := domain.RepoRef{Owner: "octocat", Name: "slow", FullName: "octocat/slow", URL: missing}
	_, err := cloner.Clone(ctx, ref, dest)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCloneTimeout)
	assert.NoDirExists(t, dest)
}
