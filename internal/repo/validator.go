package repo

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/quantmind-br/skillforge-go/internal/domain"
)

// MaxLocatorLength is the admission ceiling for a raw locator string.
const MaxLocatorLength = 500

var (
	ownerPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	namePattern  = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
)

var allowedHosts = map[string]bool{
	"github.com":     true,
	"www.github.com": true,
}

// Validate is the admission gate for repository locators. It is a pure
// string/structure check; no network access occurs. Rules are applied in
// order and the first violation wins.
func Validate(locator string) (domain.RepoRef, error) {
	if len(locator) > MaxLocatorLength {
		return domain.RepoRef{}, domain.ErrURLTooLong
	}

	u, err := url.Parse(locator)
	if err != nil || u.Scheme != "https" {
		return domain.RepoRef{}, domain.ErrSchemeRejected
	}

	if !allowedHosts[strings.ToLower(u.Host)] {
		return domain.RepoRef{}, domain.ErrHostRejected
	}

	// Path must be exactly owner/name; a trailing slash is tolerated.
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) != 2 || segments[0] == "" || segments[1] == "" {
		return domain.RepoRef{}, domain.ErrInvalidIdentifier
	}

	owner := segments[0]
	name := strings.TrimSuffix(segments[1], ".git")

	if !ownerPattern.MatchString(owner) || !namePattern.MatchString(name) {
		return domain.RepoRef{}, domain.ErrInvalidIdentifier
	}

	return domain.RepoRef{
		Owner:    owner,
		Name:     name,
		FullName: owner + "/" + name,
		URL:      fmt.Sprintf("https://github.com/%s/%s", owner, name),
	}, nil
}
