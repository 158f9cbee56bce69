package tags

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/uber/bpx/src/bpx/internal/errors"
	"github.com/uber/bpx/src/bpx/internal/fs"
	"github.com/uber/bpx/src/bpx/model"
	_ "modernc.org/sqlite"
)

type sqlitePersister struct {
	database *sql.DB
	dbPath   string
}

// NewSQLitePersister opens, and migrates if needed, a sqlite database holding tag metadata.
func NewSQLitePersister(ctx context.Context, bpxFS fs.BpxFS, dbPath string) (Persister, error) {
	if err := bpxFS.MkdirAll(filepath.Dir(dbPath)); err != nil {
		return nil, &errors.IOError{Op: "mkdir", Path: filepath.Dir(dbPath), Err: err}
	}

	database, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	database.SetMaxOpenConns(1)

	s := &sqlitePersister{
		database: database,
		dbPath:   dbPath,
	}
	if err := s.migrate(ctx); err != nil {
		_ = database.Close()
		return nil, err
	}
	return s, nil
}

func (s *sqlitePersister) migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS tag_metadata (
			url TEXT NOT NULL,
			line INTEGER NOT NULL,
			relative_url TEXT NOT NULL DEFAULT '',
			tags_json TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (url, line)
		);`,
	}
	for _, statement := range statements {
		if _, err := s.database.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", s.dbPath, err)
		}
	}
	return nil
}

func (s *sqlitePersister) Load(ctx context.Context) ([]model.TagMetadataRow, error) {
	rows, err := s.database.QueryContext(ctx, `SELECT url, line, relative_url, tags_json FROM tag_metadata ORDER BY url, line`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tag metadata: %w", err)
	}
	defer rows.Close()

	var result []model.TagMetadataRow
	for rows.Next() {
		var (
			row      model.TagMetadataRow
			tagsJSON string
		)
		if err := rows.Scan(&row.URL, &row.Line, &row.RelativeURL, &tagsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan tag metadata: %w", err)
		}
		if err := json.Unmarshal([]byte(tagsJSON), &row.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags of %s:%d: %w", row.URL, row.Line, err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (s *sqlitePersister) Upsert(ctx context.Context, row model.TagMetadataRow) error {
	tags := row.Tags
	if tags == nil {
		tags = []model.TagRow{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	_, err = s.database.ExecContext(ctx, `
		INSERT INTO tag_metadata (url, line, relative_url, tags_json, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(url, line) DO UPDATE SET
			relative_url = excluded.relative_url,
			tags_json = excluded.tags_json,
			updated_at = excluded.updated_at`,
		row.URL, row.Line, row.RelativeURL, string(tagsJSON), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to upsert tag metadata %s:%d: %w", row.URL, row.Line, err)
	}
	return nil
}

func (s *sqlitePersister) Delete(ctx context.Context, url string, line int) error {
	if _, err := s.database.ExecContext(ctx, `DELETE FROM tag_metadata WHERE url = ? AND line = ?`, url, line); err != nil {
		return fmt.Errorf("failed to delete tag metadata %s:%d: %w", url, line, err)
	}
	return nil
}

func (s *sqlitePersister) Close() error {
	return s.database.Close()
}
