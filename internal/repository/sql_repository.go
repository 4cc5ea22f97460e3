package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const schema = `
	CREATE TABLE IF NOT EXISTS user_progress (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)
`

type sqlStore struct {
	db *sql.DB
}

// Open connects to driver ("sqlite3" or "postgres") and creates the
// progress table when missing.
func Open(ctx context.Context, driver, dsn string) (ProgressStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == "sqlite3" {
		// each sqlite connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}
	store, err := NewSQLStore(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewSQLStore wraps an open database and ensures the schema exists.
func NewSQLStore(ctx context.Context, db *sql.DB) (ProgressStore, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &sqlStore{db: db}, nil
}

func (s *sqlStore) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM user_progress WHERE key = $1`

	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (s *sqlStore) Set(ctx context.Context, key, value string) error {
	// both sqlite and postgres accept ON CONFLICT ... DO UPDATE
	query := `
		INSERT INTO user_progress (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`
	_, err := s.db.ExecContext(ctx, query, key, value)
	return err
}

func (s *sqlStore) List(ctx context.Context, prefix string) (map[string]string, error) {
	query := `SELECT key, value FROM user_progress WHERE key LIKE $1 ESCAPE '\'`

	rows, err := s.db.QueryContext(ctx, query, escapeLike(prefix)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
