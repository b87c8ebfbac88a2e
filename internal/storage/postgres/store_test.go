package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/vadimbarashkov/shortlink/internal/storage"
)

var errUnknown = errors.New("unknown error")

func setupStore(t testing.TB) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}

	db := sqlx.NewDb(mockDB, "sqlmock")
	s := NewStore(db)

	t.Cleanup(func() {
		db.Close()
	})

	return s, mock
}

func TestStore_Get(t *testing.T) {
	t.Run("key not found", func(t *testing.T) {
		s, mock := setupStore(t)

		mock.ExpectQuery(`SELECT value FROM kv_entries`).
			WithArgs("abc123").
			WillReturnError(sql.ErrNoRows)

		value, err := s.Get(context.TODO(), "abc123")

		assert.Error(t, err)
		assert.ErrorIs(t, err, storage.ErrKeyNotFound)
		assert.Empty(t, value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown error", func(t *testing.T) {
		s, mock := setupStore(t)

		mock.ExpectQuery(`SELECT value FROM kv_entries`).
			WithArgs("abc123").
			WillReturnError(errUnknown)

		value, err := s.Get(context.TODO(), "abc123")

		assert.Error(t, err)
		assert.ErrorIs(t, err, errUnknown)
		assert.NotErrorIs(t, err, storage.ErrKeyNotFound)
		assert.Empty(t, value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success", func(t *testing.T) {
		s, mock := setupStore(t)

		rows := sqlmock.NewRows([]string{"value"}).
			AddRow("https://example.com")

		mock.ExpectQuery(`SELECT value FROM kv_entries`).
			WithArgs("abc123").
			WillReturnRows(rows)

		value, err := s.Get(context.TODO(), "abc123")

		assert.NoError(t, err)
		assert.Equal(t, "https://example.com", value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStore_Put(t *testing.T) {
	t.Run("unknown error", func(t *testing.T) {
		s, mock := setupStore(t)

		mock.ExpectExec(`INSERT INTO kv_entries`).
			WithArgs("abc123", "https://example.com").
			WillReturnError(errUnknown)

		err := s.Put(context.TODO(), "abc123", "https://example.com")

		assert.Error(t, err)
		assert.ErrorIs(t, err, errUnknown)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success", func(t *testing.T) {
		s, mock := setupStore(t)

		mock.ExpectExec(`INSERT INTO kv_entries`).
			WithArgs("abc123", "https://example.com").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := s.Put(context.TODO(), "abc123", "https://example.com")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStore_Create(t *testing.T) {
	t.Run("key exists", func(t *testing.T) {
		s, mock := setupStore(t)

		mock.ExpectExec(`INSERT INTO kv_entries`).
			WithArgs("abc123", "https://example.com").
			WillReturnError(&pgconn.PgError{Code: uniqueViolationErrCode})

		err := s.Create(context.TODO(), "abc123", "https://example.com")

		assert.Error(t, err)
		assert.ErrorIs(t, err, storage.ErrKeyExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown error", func(t *testing.T) {
		s, mock := setupStore(t)

		mock.ExpectExec(`INSERT INTO kv_entries`).
			WithArgs("abc123", "https://example.com").
			WillReturnError(errUnknown)

		err := s.Create(context.TODO(), "abc123", "https://example.com")

		assert.Error(t, err)
		assert.ErrorIs(t, err, errUnknown)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success", func(t *testing.T) {
		s, mock := setupStore(t)

		mock.ExpectExec(`INSERT INTO kv_entries`).
			WithArgs("abc123", "https://example.com").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := s.Create(context.TODO(), "abc123", "https://example.com")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStore_Delete(t *testing.T) {
	t.Run("unknown error", func(t *testing.T) {
		s, mock := setupStore(t)

		mock.ExpectExec(`DELETE FROM kv_entries`).
			WithArgs("abc123").
			WillReturnError(errUnknown)

		err := s.Delete(context.TODO(), "abc123")

		assert.Error(t, err)
		assert.ErrorIs(t, err, errUnknown)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent key", func(t *testing.T) {
		s, mock := setupStore(t)

		mock.ExpectExec(`DELETE FROM kv_entries`).
			WithArgs("abc123").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.Delete(context.TODO(), "abc123")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStore_List(t *testing.T) {
	t.Run("unknown error", func(t *testing.T) {
		s, mock := setupStore(t)

		mock.ExpectQuery(`SELECT key FROM kv_entries`).
			WithArgs("meta:%").
			WillReturnError(errUnknown)

		keys, err := s.List(context.TODO(), "meta:")

		assert.Error(t, err)
		assert.ErrorIs(t, err, errUnknown)
		assert.Nil(t, keys)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no entries", func(t *testing.T) {
		s, mock := setupStore(t)

		mock.ExpectQuery(`SELECT key FROM kv_entries`).
			WithArgs("meta:%").
			WillReturnRows(sqlmock.NewRows([]string{"key"}))

		keys, err := s.List(context.TODO(), "meta:")

		assert.NoError(t, err)
		assert.NotNil(t, keys)
		assert.Empty(t, keys)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("escapes like metacharacters", func(t *testing.T) {
		s, mock := setupStore(t)

		mock.ExpectQuery(`SELECT key FROM kv_entries`).
			WithArgs(`a\_b\%%`).
			WillReturnRows(sqlmock.NewRows([]string{"key"}).AddRow("a_b%c"))

		keys, err := s.List(context.TODO(), "a_b%")

		assert.NoError(t, err)
		assert.Equal(t, []string{"a_b%c"}, keys)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success", func(t *testing.T) {
		s, mock := setupStore(t)

		rows := sqlmock.NewRows([]string{"key"}).
			AddRow("meta:abc123").
			AddRow("meta:def456")

		mock.ExpectQuery(`SELECT key FROM kv_entries`).
			WithArgs("meta:%").
			WillReturnRows(rows)

		keys, err := s.List(context.TODO(), "meta:")

		assert.NoError(t, err)
		assert.Equal(t, []string{"meta:abc123", "meta:def456"}, keys)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
