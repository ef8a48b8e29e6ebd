package analyzer

import (
	"os"
	"strings"

	"github.com/quantmind-br/skillforge-go/internal/domain"
)

// manifestFiles are root-level package manifests that mark a publishable
// library.
var manifestFiles = map[string]bool{
	"package.json":   true,
	"setup.py":       true,
	"pyproject.toml": true,
	"go.mod":         true,
	"cargo.toml":     true,
	"pom.xml":        true,
	"build.gradle":   true,
	"composer.json":  true,
	"gemfile":        true,
}

// classifyRepoType buckets the repository into a closed label set from
// root-level layout signals and the repository name. Rules are checked
// in a fixed priority order; the first match wins, and repositories
// matching nothing are labeled unknown.
func classifyRepoType(rootEntries []os.DirEntry, repoName string) domain.RepoType {
	dirs := map[string]bool{}
	files := map[string]bool{}
	for _, e := range rootEntries {
		name := strings.ToLower(e.Name())
		if e.IsDir() {
			dirs[name] = true
		} else {
			files[name] = true
		}
	}
	lowerName := strings.ToLower(repoName)

	hasManifest := false
	for f := range files {
		if manifestFiles[f] {
			hasManifest = true
			break
		}
	}

	switch {
	case dirs["cmd"] || dirs["bin"] || files["main.go"] || files["main.py"] || files["index.js"]:
		return domain.TypeCLITool
	case dirs["templates"] || dirs["scaffolding"] || strings.Contains(lowerName, "framework"):
		return domain.TypeFramework
	case dirs["sdk"] || strings.Contains(lowerName, "sdk"):
		return domain.TypeSDK
	case hasManifest:
		return domain.TypeLibrary
	case files["dockerfile"] || files["docker-compose.yml"] || files["docker-compose.yaml"] || dirs["src"]:
		return domain.TypeApplication
	default:
		return domain.TypeUnknown
	}
}
