package repo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/skillforge-go/internal/domain"
)

func TestValidate_Accepts(t *testing.T) {
	tests := []struct {
		name      string
		locator   string
		wantOwner string
		wantName  string
	}{
		{"plain", "https://github.com/octocat/Hello-World", "octocat", "Hello-World"},
		{"trailing slash", "https://github.com/octocat/Hello-World/", "octocat", "Hello-World"},
		{"git suffix", "https://github.com/octocat/Hello-World.git", "octocat", "Hello-World"},
		{"git suffix and slash", "https://github.com/octocat/Hello-World.git/", "octocat", "Hello-World"},
		{"www host", "https://www.github.com/octocat/Hello-World", "octocat", "Hello-World"},
		{"uppercase host", "https://GitHub.com/octocat/Hello-World", "octocat", "Hello-World"},
		{"dotted name", "https://github.com/golang/go.tools", "golang", "go.tools"},
		{"underscore owner", "https://github.com/some_org/repo-1", "some_org", "repo-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := Validate(tt.locator)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, ref.Owner)
			assert.Equal(t, tt.wantName, ref.Name)
			assert.Equal(t, tt.wantOwner+"/"+tt.wantName, ref.FullName)
			assert.Equal(t, "https://github.com/"+tt.wantOwner+"/"+tt.wantName, ref.URL)
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		locator string
		wantErr error
	}{
		{"http scheme", "http://github.com/octocat/Hello-World", domain.ErrSchemeRejected},
		{"git scheme", "git://github.com/octocat/Hello-World", domain.ErrSchemeRejected},
		{"ssh style", "git@github.com:octocat/Hello-World.git", domain.ErrSchemeRejected},
		{"no scheme", "github.com/octocat/Hello-World", domain.ErrSchemeRejected},
		{"foreign host", "https://gitlab.com/octocat/Hello-World", domain.ErrHostRejected},
		{"subdomain host", "https://gist.github.com/octocat/abc123", domain.ErrHostRejected},
		{"host with port", "https://github.com:8443/octocat/Hello-World", domain.ErrHostRejected},
		{"one segment", "https://github.com/octocat", domain.ErrInvalidIdentifier},
		{"three segments", "https://github.com/octocat/Hello-World/tree", domain.ErrInvalidIdentifier},
		{"empty segment", "https://github.com/octocat//Hello-World", domain.ErrInvalidIdentifier},
		{"root path", "https://github.com/", domain.ErrInvalidIdentifier},
		{"dotted owner", "https://github.com/bad.owner/repo", domain.ErrInvalidIdentifier},
		{"space in name", "https://github.com/octocat/bad repo", domain.ErrInvalidIdentifier},
		{"name only dot git", "https://github.com/octocat/.git", domain.ErrInvalidIdentifier},
		{"traversal owner", "https://github.com/%2e%2e/repo", domain.ErrInvalidIdentifier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.locator)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_LengthBoundary(t *testing.T) {
	// Pad the name with trailing dashes up to the ceiling.
	base := "https://github.com/octocat/"
	atLimit := base + strings.Repeat("a", MaxLocatorLength-len(base))
	require.Len(t, atLimit, MaxLocatorLength)

	_, err := Validate(atLimit)
	assert.NoError(t, err)

	_, err = Validate(atLimit + "a")
	assert.ErrorIs(t, err, domain.ErrURLTooLong)
}

func TestValidate_LengthCheckedFirst(t *testing.T) {
	// An over-long locator is rejected for length even when it would
	// also fail every other rule.
	locator := "ftp://nowhere.example/" + strings.Repeat("x", MaxLocatorLength)
	_, err := Validate(locator)
	assert.ErrorIs(t, err, domain.ErrURLTooLong)
}
