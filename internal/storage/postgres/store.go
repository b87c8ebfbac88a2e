// Package postgres implements storage.Store on a single PostgreSQL table.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/shortlink/internal/storage"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{
		db: db,
	}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	const op = "storage.postgres.Store.Get"

	var value string
	query := `SELECT value FROM kv_entries WHERE key = $1`

	err := s.db.GetContext(ctx, &value, query, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", op, storage.ErrKeyNotFound)
		}

		return "", fmt.Errorf("%s: failed to get entry: %w", op, err)
	}

	return value, nil
}

func (s *Store) Put(ctx context.Context, key, value string) error {
	const op = "storage.postgres.Store.Put"

	query := `INSERT INTO kv_entries(key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`

	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("%s: failed to put entry: %w", op, err)
	}

	return nil
}

func (s *Store) Create(ctx context.Context, key, value string) error {
	const op = "storage.postgres.Store.Create"

	query := `INSERT INTO kv_entries(key, value) VALUES ($1, $2)`

	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		if isUniqueViolationError(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrKeyExists)
		}

		return fmt.Errorf("%s: failed to create entry: %w", op, err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	const op = "storage.postgres.Store.Delete"

	query := `DELETE FROM kv_entries WHERE key = $1`

	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("%s: failed to delete entry: %w", op, err)
	}

	return nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	const op = "storage.postgres.Store.List"

	keys := make([]string, 0)
	query := `SELECT key FROM kv_entries
		WHERE key LIKE $1 ESCAPE '\'
		ORDER BY key`

	if err := s.db.SelectContext(ctx, &keys, query, likeEscaper.Replace(prefix)+"%"); err != nil {
		return nil, fmt.Errorf("%s: failed to list entries: %w", op, err)
	}

	return keys, nil
}
