package app

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadimbarashkov/shortlink/internal/config"
	"github.com/vadimbarashkov/shortlink/internal/storage/memory"
)

func TestNewStore(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("memory", func(t *testing.T) {
		cfg := &config.Config{Storage: config.Storage{Driver: config.StorageMemory}}

		store, closeStore, err := newStore(context.Background(), cfg, logger)
		require.NoError(t, err)
		defer closeStore()

		assert.IsType(t, &memory.Store{}, store)
	})

	t.Run("postgres unreachable", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		cfg := &config.Config{
			Storage: config.Storage{Driver: config.StoragePostgres},
			Postgres: config.Postgres{
				Host:    "127.0.0.1",
				Port:    1,
				SSLMode: "disable",
			},
		}

		_, _, err := newStore(ctx, cfg, logger)

		assert.Error(t, err)
	})
}
