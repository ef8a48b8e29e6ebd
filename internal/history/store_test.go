package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/skillforge-go/internal/domain"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestStore_AddAndList(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	id, err := s.Add(ctx, &domain.SkillRecord{
		SkillName: "fastapi-skill",
		RepoURL:   "https://github.com/tiangolo/fastapi",
		RepoName:  "tiangolo/fastapi",
		Status:    domain.StatusPending,
		Metadata:  map[string]any{"stars": float64(70000)},
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	records, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, "fastapi-skill", rec.SkillName)
	assert.Equal(t, "tiangolo/fastapi", rec.RepoName)
	assert.Equal(t, domain.StatusPending, rec.Status)
	assert.False(t, rec.Installed)
	assert.Equal(t, map[string]any{"stars": float64(70000)}, rec.Metadata)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestStore_Add_DefaultsToPending(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, &domain.SkillRecord{SkillName: "x", RepoURL: "u", RepoName: "n"})
	require.NoError(t, err)

	records, err := s.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, records[0].Status)
}

func TestStore_Update(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	id, err := s.Add(ctx, &domain.SkillRecord{SkillName: "x", RepoURL: "u", RepoName: "n"})
	require.NoError(t, err)

	err = s.Update(ctx, id, domain.SkillUpdate{
		SkillName: strPtr("renamed-skill"),
		Status:    strPtr(domain.StatusSuccess),
		ZipPath:   strPtr("/tmp/x.zip"),
		Installed: boolPtr(true),
	})
	require.NoError(t, err)

	records, err := s.List(ctx, 1)
	require.NoError(t, err)
	rec := records[0]
	assert.Equal(t, "renamed-skill", rec.SkillName)
	assert.Equal(t, domain.StatusSuccess, rec.Status)
	assert.Equal(t, "/tmp/x.zip", rec.ZipPath)
	assert.True(t, rec.Installed)
	// Untouched fields keep their values.
	assert.Equal(t, "n", rec.RepoName)
	assert.Empty(t, rec.ErrorMessage)
}

func TestStore_Update_NoFields(t *testing.T) {
	s := openStore(t)
	id, err := s.Add(context.Background(), &domain.SkillRecord{SkillName: "x", RepoURL: "u", RepoName: "n"})
	require.NoError(t, err)
	assert.NoError(t, s.Update(context.Background(), id, domain.SkillUpdate{}))
}

func TestStore_Delete(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	id, err := s.Add(ctx, &domain.SkillRecord{SkillName: "x", RepoURL: "u", RepoName: "n"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, id))

	records, err := s.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, records)

	assert.Error(t, s.Delete(ctx, id))
}

func TestStore_Stats(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	add := func(status string, installed bool) {
		t.Helper()
		_, err := s.Add(ctx, &domain.SkillRecord{
			SkillName: "x", RepoURL: "u", RepoName: "n",
			Status: status, Installed: installed,
		})
		require.NoError(t, err)
	}

	add(domain.StatusSuccess, true)
	add(domain.StatusSuccess, false)
	add(domain.StatusFailed, false)
	add(domain.StatusPending, false)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.HistoryStats{Total: 4, Succeeded: 2, Failed: 1, Installed: 1}, stats)
}

func TestStore_List_NewestFirst(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		_, err := s.Add(ctx, &domain.SkillRecord{SkillName: name, RepoURL: "u", RepoName: "n"})
		require.NoError(t, err)
	}

	records, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	// Same-second inserts fall back to id ordering.
	assert.Equal(t, "third", records[0].SkillName)
	assert.Equal(t, "second", records[1].SkillName)
}
