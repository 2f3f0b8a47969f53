package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const createDocumentTable = `
CREATE TABLE IF NOT EXISTS portal_document (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    body TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);
`

// SQLiteStore keeps the document as a single JSON row. Update runs in an
// immediate transaction, so writers in other processes are serialised too.
type SQLiteStore struct {
	sqlDB *sql.DB
}

// OpenSQLite opens (or creates) the database at path and seeds an empty document.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_txlock=immediate"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	s := &SQLiteStore{sqlDB: sqlDB}
	if err := s.init(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *SQLiteStore) init(ctx context.Context) error {
	if _, err := s.sqlDB.ExecContext(ctx, createDocumentTable); err != nil {
		return fmt.Errorf("create document table: %w", err)
	}
	body, err := encodeDocument(NewDocument())
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT OR IGNORE INTO portal_document (id, body, updated_at) VALUES (1, ?, ?)`,
		string(body), time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("seed document: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (Document, error) {
	return loadRow(ctx, s.sqlDB)
}

func (s *SQLiteStore) Save(ctx context.Context, doc Document) error {
	return saveRow(ctx, s.sqlDB, doc)
}

func (s *SQLiteStore) Update(ctx context.Context, fn func(*Document) error) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	doc, err := loadRow(ctx, tx)
	if err != nil {
		return err
	}
	if err := fn(&doc); err != nil {
		return err
	}
	if err := saveRow(ctx, tx, doc); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func loadRow(ctx context.Context, q execQuerier) (Document, error) {
	var body string
	err := q.QueryRowContext(ctx, `SELECT body FROM portal_document WHERE id = 1`).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewDocument(), nil
		}
		return Document{}, fmt.Errorf("load document: %w", err)
	}
	return decodeDocument([]byte(body))
}

func saveRow(ctx context.Context, q execQuerier, doc Document) error {
	body, err := encodeDocument(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	_, err = q.ExecContext(ctx, `
INSERT INTO portal_document (id, body, updated_at) VALUES (1, ?, ?)
ON CONFLICT(id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		string(body), time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}
