// Package sqlite provides a SQLite-backed simplicial complex store.
//
// A database holds any number of complexes. Each complex has a UUID and a
// list of simplices; each simplex row stores its dimension, its position in
// the per-dimension enumeration and its vertex tokens as a JSON array.
//
//	store, _ := sqlite.Open("complexes.db")
//	id, _ := store.Import(ctx, "torus", complex.Fan(6))
//	reader := store.Complex(id)
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/matzehuels/simplexsight/pkg/complex"
	"github.com/matzehuels/simplexsight/pkg/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS complexes (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS simplices (
	complex_id TEXT    NOT NULL REFERENCES complexes(id) ON DELETE CASCADE,
	dim        INTEGER NOT NULL,
	seq        INTEGER NOT NULL,
	vertices   TEXT    NOT NULL,
	PRIMARY KEY (complex_id, dim, seq)
);
`

// Store persists complexes in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Info describes a stored complex.
type Info struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Open opens (or creates) a SQLite store at path and ensures the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New(errors.ErrCodeInvalidPath, "storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Import copies every simplex of src into a new complex and returns its id.
func (s *Store) Import(ctx context.Context, name string, src complex.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s == nil || s.sqlDB == nil {
		return "", fmt.Errorf("storage is not configured")
	}

	top, err := src.Dimension(ctx)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeSource, err, "read source dimension")
	}

	id := uuid.NewString()
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO complexes (id, name, created_at) VALUES (?, ?, ?)`,
		id, strings.TrimSpace(name), time.Now().UTC().UnixMilli(),
	); err != nil {
		return "", fmt.Errorf("insert complex: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO simplices (complex_id, dim, seq, vertices) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for d := 0; d <= top; d++ {
		simplices, err := src.Simplices(ctx, d)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeSource, err, "read simplices of dimension %d", d)
		}
		for seq, simplex := range simplices {
			data, err := json.Marshal([]complex.Vertex(simplex))
			if err != nil {
				return "", fmt.Errorf("encode simplex %s: %w", simplex, err)
			}
			if _, err := stmt.ExecContext(ctx, id, d, seq, string(data)); err != nil {
				return "", fmt.Errorf("insert simplex %s: %w", simplex, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit import: %w", err)
	}
	return id, nil
}

// List returns all stored complexes, newest first.
func (s *Store) List(ctx context.Context) ([]Info, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, created_at FROM complexes ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list complexes: %w", err)
	}
	defer rows.Close()

	var out []Info
	for rows.Next() {
		var info Info
		var created int64
		if err := rows.Scan(&info.ID, &info.Name, &created); err != nil {
			return nil, fmt.Errorf("scan complex: %w", err)
		}
		info.CreatedAt = time.UnixMilli(created).UTC()
		out = append(out, info)
	}
	return out, rows.Err()
}

// Delete removes a complex and its simplices.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM complexes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete complex: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.ErrCodeNotFound, "complex %s not found", id)
	}
	return nil
}

// Complex returns a reader over the stored complex with the given id.
// The id is not checked until the first read.
func (s *Store) Complex(id string) *Reader {
	return &Reader{db: s.sqlDB, id: id}
}

// Reader reads one stored complex. It implements complex.Reader.
type Reader struct {
	db *sql.DB
	id string
}

// Simplices implements complex.Reader.
func (r *Reader) Simplices(ctx context.Context, dim int) ([]complex.Simplex, error) {
	if err := r.exists(ctx); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT vertices FROM simplices WHERE complex_id = ? AND dim = ? ORDER BY seq`, r.id, dim)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "query simplices of dimension %d", dim)
	}
	defer rows.Close()

	var out []complex.Simplex
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeSource, err, "scan simplex")
		}
		var s []complex.Vertex
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeSource, err, "decode simplex %q", raw)
		}
		out = append(out, complex.Simplex(s))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "iterate simplices")
	}
	return out, nil
}

// Dimension implements complex.Reader.
func (r *Reader) Dimension(ctx context.Context) (int, error) {
	if err := r.exists(ctx); err != nil {
		return 0, err
	}
	var top sql.NullInt64
	if err := r.db.QueryRowContext(ctx,
		`SELECT MAX(dim) FROM simplices WHERE complex_id = ?`, r.id).Scan(&top); err != nil {
		return 0, errors.Wrap(errors.ErrCodeSource, err, "query dimension")
	}
	if !top.Valid {
		return -1, nil
	}
	return int(top.Int64), nil
}

func (r *Reader) exists(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM complexes WHERE id = ?`, r.id).Scan(&one)
	if err == sql.ErrNoRows {
		return errors.New(errors.ErrCodeNotFound, "complex %s not found", r.id)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeSource, err, "look up complex %s", r.id)
	}
	return nil
}

var _ complex.Reader = (*Reader)(nil)
