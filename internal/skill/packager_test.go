package skill

import (
	"io"
	"path/filepath"
	"sort"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackager_Package(t *testing.T) {
	out := t.TempDir()
	skillDir, err := NewBuilder(out).Build(sampleBundle())
	require.NoError(t, err)

	p := NewPackager(out, t.TempDir())
	zipPath, err := p.Package(skillDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "fastapi-skill.zip"), zipPath)

	r, err := zip.OpenReader(zipPath)
	require.NoError(t, err)
	defer r.Close()

	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{
		"fastapi-skill/SKILL.md",
		"fastapi-skill/assets/templates/app.py",
		"fastapi-skill/references/api.md",
	}, names)

	// Content round-trips.
	for _, f := range r.File {
		if f.Name != "fastapi-skill/references/api.md" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		assert.Equal(t, "API reference", string(data))
	}
}

func TestPackager_Package_ReplacesExistingArchive(t *testing.T) {
	out := t.TempDir()
	skillDir, err := NewBuilder(out).Build(sampleBundle())
	require.NoError(t, err)

	p := NewPackager(out, t.TempDir())
	first, err := p.Package(skillDir)
	require.NoError(t, err)
	second, err := p.Package(skillDir)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPackager_InstallUninstall(t *testing.T) {
	out := t.TempDir()
	installRoot := t.TempDir()
	skillDir, err := NewBuilder(out).Build(sampleBundle())
	require.NoError(t, err)

	p := NewPackager(out, installRoot)

	installPath, err := p.Install(skillDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(installRoot, "fastapi-skill"), installPath)
	assert.FileExists(t, filepath.Join(installPath, "SKILL.md"))
	assert.FileExists(t, filepath.Join(installPath, "references", "api.md"))
	assert.True(t, p.IsInstalled("fastapi-skill"))

	// Reinstall replaces.
	_, err = p.Install(skillDir)
	require.NoError(t, err)

	require.NoError(t, p.Uninstall("fastapi-skill"))
	assert.False(t, p.IsInstalled("fastapi-skill"))
	assert.NoDirExists(t, installPath)
}

func TestPackager_Uninstall_NotInstalled(t *testing.T) {
	p := NewPackager(t.TempDir(), t.TempDir())
	assert.Error(t, p.Uninstall("ghost"))
}
