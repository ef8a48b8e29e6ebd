package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/quantmind-br/skillforge-go/internal/domain"
	"github.com/quantmind-br/skillforge-go/internal/utils"
)

const schema = `
CREATE TABLE IF NOT EXISTS skills (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	skill_name TEXT NOT NULL,
	repo_url TEXT NOT NULL,
	repo_name TEXT NOT NULL,
	description TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	status TEXT NOT NULL,
	error_message TEXT,
	zip_path TEXT,
	installed BOOLEAN DEFAULT 0,
	metadata TEXT
);
CREATE INDEX IF NOT EXISTS idx_repo_url ON skills(repo_url);
CREATE INDEX IF NOT EXISTS idx_created_at ON skills(created_at DESC);
`

// Store persists generation history in a SQLite database. It implements
// domain.HistoryStore.
type Store struct {
	db *sql.DB
}

// Open creates or opens the history database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if err := utils.EnsureDir(path); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	// Pragmas in the DSN apply to every pooled connection.
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Add inserts a record and returns its id.
func (s *Store) Add(ctx context.Context, rec *domain.SkillRecord) (int64, error) {
	var metadata any
	if len(rec.Metadata) > 0 {
		raw, err := json.Marshal(rec.Metadata)
		if err != nil {
			return 0, fmt.Errorf("encoding metadata: %w", err)
		}
		metadata = string(raw)
	}

	status := rec.Status
	if status == "" {
		status = domain.StatusPending
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO skills (skill_name, repo_url, repo_name, description, status, error_message, zip_path, installed, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SkillName, rec.RepoURL, rec.RepoName, rec.Description,
		status, rec.ErrorMessage, rec.ZipPath, rec.Installed, metadata,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting history record: %w", err)
	}
	return res.LastInsertId()
}

// Update applies the non-nil fields of upd to the record with the given
// id.
func (s *Store) Update(ctx context.Context, id int64, upd domain.SkillUpdate) error {
	var (
		sets []string
		args []any
	)
	if upd.SkillName != nil {
		sets = append(sets, "skill_name = ?")
		args = append(args, *upd.SkillName)
	}
	if upd.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *upd.Status)
	}
	if upd.ErrorMessage != nil {
		sets = append(sets, "error_message = ?")
		args = append(args, *upd.ErrorMessage)
	}
	if upd.ZipPath != nil {
		sets = append(sets, "zip_path = ?")
		args = append(args, *upd.ZipPath)
	}
	if upd.Installed != nil {
		sets = append(sets, "installed = ?")
		args = append(args, *upd.Installed)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE skills SET %s WHERE id = ?", strings.Join(sets, ", "))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("updating history record %d: %w", id, err)
	}
	return nil
}

// List returns up to limit records, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]domain.SkillRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, skill_name, repo_url, repo_name, COALESCE(description, ''),
		       created_at, status, COALESCE(error_message, ''), COALESCE(zip_path, ''),
		       installed, metadata
		FROM skills ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	var records []domain.SkillRecord
	for rows.Next() {
		var (
			rec       domain.SkillRecord
			createdAt string
			metadata  sql.NullString
		)
		if err := rows.Scan(
			&rec.ID, &rec.SkillName, &rec.RepoURL, &rec.RepoName, &rec.Description,
			&createdAt, &rec.Status, &rec.ErrorMessage, &rec.ZipPath,
			&rec.Installed, &metadata,
		); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		rec.CreatedAt = parseTimestamp(createdAt)
		if metadata.Valid && metadata.String != "" {
			_ = json.Unmarshal([]byte(metadata.String), &rec.Metadata)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Delete removes a record by id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM skills WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting history record %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("history record %d not found", id)
	}
	return nil
}

// Stats aggregates the history table.
func (s *Store) Stats(ctx context.Context) (domain.HistoryStats, error) {
	var stats domain.HistoryStats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(CASE WHEN status = ? THEN 1 END),
		       COUNT(CASE WHEN status = ? THEN 1 END),
		       COUNT(CASE WHEN installed = 1 THEN 1 END)
		FROM skills`, domain.StatusSuccess, domain.StatusFailed,
	).Scan(&stats.Total, &stats.Succeeded, &stats.Failed, &stats.Installed)
	if err != nil {
		return domain.HistoryStats{}, fmt.Errorf("reading history stats: %w", err)
	}
	return stats, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// parseTimestamp handles the formats SQLite hands back for
// CURRENT_TIMESTAMP defaults.
func parseTimestamp(raw string) time.Time {
	for _, layout := range []string{
		"2006-01-02 15:04:05",
		time.RFC3339,
		time.RFC3339Nano,
	} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	return time.Time{}
}

var _ domain.HistoryStore = (*Store)(nil)
