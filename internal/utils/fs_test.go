package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "clean name", input: "fastapi-skill", expected: "fastapi-skill"},
		{name: "invalid characters", input: `api<guide>:v1`, expected: "api-guide-v1"},
		{name: "path separators", input: "docs/guide.md", expected: "docs-guide.md"},
		{name: "collapses runs", input: "my   cool -- skill", expected: "my-cool-skill"},
		{name: "trims dashes and dots", input: "- skill -", expected: "skill"},
		{name: "keeps extension", input: "read me.md", expected: "read-me.md"},
		{name: "empty becomes untitled", input: "", expected: "untitled"},
		{name: "dot becomes untitled", input: ".", expected: "untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}

	t.Run("long names are truncated", func(t *testing.T) {
		long := strings.Repeat("a", 300) + ".md"
		got := SanitizeFilename(long)
		assert.LessOrEqual(t, len(got), MaxFilenameLength)
		assert.True(t, strings.HasSuffix(got, ".md"))
	})
}

func TestDirSize(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), make([]byte, 100), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.txt"), make([]byte, 50), 0o644))

	size, err := DirSize(dir)
	require.NoError(t, err)
	assert.Equal(t, int64(150), size)
}

func TestDirSize_MissingRoot(t *testing.T) {
	_, err := DirSize(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestEnsureDir(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "deep", "nested", "file.db")

	require.NoError(t, EnsureDir(target))

	// The parent exists, the file itself is not created.
	assert.DirExists(t, filepath.Join(base, "deep", "nested"))
	assert.NoFileExists(t, target)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "tilde prefix", input: "~/skills", expected: filepath.Join(home, "skills")},
		{name: "bare tilde", input: "~", expected: home},
		{name: "absolute path untouched", input: "/tmp/skills", expected: "/tmp/skills"},
		{name: "relative path untouched", input: "skills", expected: "skills"},
		{name: "tilde mid-path untouched", input: "/tmp/~x", expected: "/tmp/~x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandPath(tt.input))
		})
	}
}

func TestCopyDir(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "SKILL.md"), []byte("hello"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(src, "references"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "references", "api.md"), []byte("api"), 0o644))

	dst := filepath.Join(t.TempDir(), "copy")
	require.NoError(t, CopyDir(src, dst))

	data, err := os.ReadFile(filepath.Join(dst, "SKILL.md"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	data, err = os.ReadFile(filepath.Join(dst, "references", "api.md"))
	require.NoError(t, err)
	assert.Equal(t, "api", string(data))
}

func TestCopyDir_SourceIsFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	err := CopyDir(src, filepath.Join(t.TempDir(), "dst"))
	assert.ErrorContains(t, err, "not a directory")
}
