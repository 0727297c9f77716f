// Package cache keeps a local copy of fetched research history so past
// conversations stay available when the backend is unreachable. Rows are
// only ever inserted or replaced, never edited or deleted; the backend
// remains the source of truth.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmorales/scout/api"
	_ "modernc.org/sqlite"
)

// Cache is a sqlite-backed mirror of research history records
type Cache struct {
	db *sql.DB
}

// Open opens (creating if needed) the cache under ~/.scout
func Open() (*Cache, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	dir := filepath.Join(homeDir, ".scout")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return OpenAt(filepath.Join(dir, "scout.db"))
}

// OpenAt opens a cache at an explicit path
func OpenAt(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping cache: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS research_history (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL DEFAULT '',
			query TEXT NOT NULL,
			response TEXT NOT NULL,
			sources TEXT NOT NULL DEFAULT '[]',
			created_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_history_created_at ON research_history(created_at DESC);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return &Cache{db: db}, nil
}

// Put inserts or replaces one history record
func (c *Cache) Put(rec api.HistoryRecord) error {
	sources, err := json.Marshal(rec.Sources)
	if err != nil {
		return fmt.Errorf("failed to encode sources: %w", err)
	}

	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO research_history(id, session_id, query, response, sources, created_at)
		 VALUES(?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.SessionID,
		rec.Query,
		rec.Response,
		string(sources),
		rec.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to store record: %w", err)
	}
	return nil
}

// PutAll mirrors a batch of records, typically a fresh history fetch
func (c *Cache) PutAll(recs []api.HistoryRecord) error {
	for _, rec := range recs {
		if err := c.Put(rec); err != nil {
			return err
		}
	}
	return nil
}

// Recent returns up to limit of the newest records, oldest first so they
// load in chronological order
func (c *Cache) Recent(limit int) ([]api.HistoryRecord, error) {
	rows, err := c.db.Query(
		`SELECT id, session_id, query, response, sources, created_at FROM (
			SELECT id, session_id, query, response, sources, created_at
			FROM research_history ORDER BY created_at DESC LIMIT ?
		 ) ORDER BY created_at ASC`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}
	defer rows.Close()

	var recs []api.HistoryRecord
	for rows.Next() {
		var rec api.HistoryRecord
		var sources string
		var createdAt int64
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Query, &rec.Response, &sources, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		if err := json.Unmarshal([]byte(sources), &rec.Sources); err != nil {
			rec.Sources = nil
		}
		rec.CreatedAt = time.Unix(createdAt, 0)
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cache rows: %w", err)
	}
	return recs, nil
}

// Close closes the underlying database
func (c *Cache) Close() error {
	return c.db.Close()
}
