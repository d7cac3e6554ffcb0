// Package storage persists semi-structured promotion/retailer documents in
// sqlite. Documents are opaque JSON blobs keyed by (collection, id); writes
// use merge semantics so repeated cleaning runs never clobber fields they
// did not touch.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a document id does not exist in a collection.
var ErrNotFound = errors.New("document not found")

type DB struct {
	sql *sql.DB
}

// Document is one stored record: an opaque id plus its raw JSON payload.
type Document struct {
	ID   string
	Data []byte
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS documents (
  collection  TEXT NOT NULL,
  id          TEXT NOT NULL,
  data        TEXT NOT NULL,
  updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (collection, id)
);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// GetDocument fetches a single document by exact id.
func (d *DB) GetDocument(ctx context.Context, collection, id string) (Document, error) {
	var data string
	err := d.sql.QueryRowContext(ctx,
		"SELECT data FROM documents WHERE collection = ? AND id = ?",
		collection, id).Scan(&data)
	if err == sql.ErrNoRows {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, err
	}
	return Document{ID: id, Data: []byte(data)}, nil
}

// PutDocument writes a document verbatim, replacing any existing payload.
func (d *DB) PutDocument(ctx context.Context, collection, id string, data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("document %s/%s: payload is not valid JSON", collection, id)
	}
	_, err := d.sql.ExecContext(ctx, `
INSERT INTO documents(collection, id, data, updated_at) VALUES(?,?,?,CURRENT_TIMESTAMP)
ON CONFLICT(collection, id) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		collection, id, string(data))
	return err
}

// MergeUpsert overlays the given fields onto the existing document, creating
// it when absent. Fields not present in the overlay are preserved, which is
// what makes overlapping cleaning runs safe: the computation is
// deterministic, so last-write-wins on the touched fields loses nothing.
func (d *DB) MergeUpsert(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	merged := make(map[string]interface{})

	existing, err := d.GetDocument(ctx, collection, id)
	if err != nil && err != ErrNotFound {
		return err
	}
	if err == nil {
		if uerr := json.Unmarshal(existing.Data, &merged); uerr != nil {
			return fmt.Errorf("document %s/%s: %w", collection, id, uerr)
		}
	}

	for k, v := range fields {
		merged[k] = v
	}

	data, err := json.Marshal(merged)
	if err != nil {
		return err
	}
	return d.PutDocument(ctx, collection, id, data)
}

// CollectionStats summarizes one collection for `geoclean db stats`.
type CollectionStats struct {
	Collection    string
	DocumentCount int
}

func (d *DB) GetStats(ctx context.Context) ([]CollectionStats, error) {
	rows, err := d.sql.QueryContext(ctx, `
		SELECT collection, COUNT(*) FROM documents GROUP BY collection ORDER BY collection`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []CollectionStats
	for rows.Next() {
		var s CollectionStats
		if err := rows.Scan(&s.Collection, &s.DocumentCount); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
