package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/apiprobe/apiprobe/packages/descriptor"
	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS history (
	rowid       INTEGER PRIMARY KEY AUTOINCREMENT,
	repo_key    TEXT NOT NULL,
	id          TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL,
	api_kind    TEXT NOT NULL,
	method      TEXT NOT NULL,
	url         TEXT NOT NULL,
	status_code INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	body        TEXT,
	error       TEXT
);
CREATE INDEX IF NOT EXISTS idx_history_repo ON history (repo_key, rowid);
`

// SQLiteStore persists history across sessions, keyed per repository.
type SQLiteStore struct {
	db      *sql.DB
	timeout time.Duration
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &SQLiteStore{
		db:      db,
		timeout: 30 * time.Second,
	}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) Append(repoKey string, entry Entry) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO history (repo_key, id, created_at, api_kind, method, url, status_code, duration_ms, body, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		repoKey, entry.ID, entry.Timestamp, string(entry.APIKind),
		entry.Method, entry.URL, entry.StatusCode, entry.DurationMs,
		entry.Body, entry.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}

	// FIFO eviction past the per-repo bound.
	_, err = tx.ExecContext(ctx, `
		DELETE FROM history
		WHERE repo_key = ? AND rowid NOT IN (
			SELECT rowid FROM history WHERE repo_key = ?
			ORDER BY rowid DESC LIMIT ?
		)`,
		repoKey, repoKey, Capacity,
	)
	if err != nil {
		return fmt.Errorf("failed to evict history entries: %w", err)
	}

	return tx.Commit()
}

func (s *SQLiteStore) List(repoKey string) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, api_kind, method, url, status_code, duration_ms, body, error
		FROM history WHERE repo_key = ?
		ORDER BY rowid DESC`,
		repoKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var kind string
		var body, errMsg sql.NullString
		if err := rows.Scan(&e.ID, &e.Timestamp, &kind, &e.Method, &e.URL,
			&e.StatusCode, &e.DurationMs, &body, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.APIKind = descriptor.Kind(kind)
		e.Body = body.String
		e.Error = errMsg.String
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history row iteration: %w", err)
	}
	return entries, nil
}

func (s *SQLiteStore) Clear(repoKey string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM history WHERE repo_key = ?`, repoKey); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
