// Package app wires the configured store, the link registry and the HTTP
// server together and runs them until the context is cancelled.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/httplog/v2"
	"github.com/vadimbarashkov/shortlink/internal/config"
	"github.com/vadimbarashkov/shortlink/internal/service"
	"github.com/vadimbarashkov/shortlink/internal/storage"
	"github.com/vadimbarashkov/shortlink/internal/storage/dynamo"
	"github.com/vadimbarashkov/shortlink/internal/storage/memory"
	"github.com/vadimbarashkov/shortlink/internal/storage/postgres"
	"golang.org/x/sync/errgroup"

	myhttp "github.com/vadimbarashkov/shortlink/internal/api/http"
)

const shutdownTimeout = 10 * time.Second

func Run(ctx context.Context, cfg *config.Config, logger *httplog.Logger) error {
	const op = "app.Run"

	store, closeStore, err := newStore(ctx, cfg, logger.Logger)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer closeStore()

	linkSvc := service.NewLinkService(store, cfg.ShortPathLength)
	r := myhttp.NewRouter(logger, linkSvc, cfg.BaseURL)

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        r,
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server",
			slog.String("addr", server.Addr),
			slog.String("env", cfg.Env),
			slog.String("storage", cfg.Storage.Driver),
		)

		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}

// newStore opens the backend selected by cfg.Storage.Driver. The returned
// func releases its resources.
func newStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Store, func(), error) {
	const op = "app.newStore"

	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err := postgres.Connect(
			ctx,
			cfg.Postgres.DSN(),
			postgres.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
			postgres.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
			postgres.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
			postgres.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: failed to connect to database: %w", op, err)
		}

		if err := postgres.RunMigrations(cfg.Postgres.MigrationsPath, cfg.Postgres.DSN()); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("%s: failed to run migrations: %w", op, err)
		}

		logger.Info("using postgres storage", slog.String("host", cfg.Postgres.Host), slog.String("db", cfg.Postgres.DB))

		return postgres.NewStore(db), func() {
			if err := db.Close(); err != nil {
				logger.Error("failed to close database", slog.String("op", op), slog.Any("err", err))
			}
		}, nil

	case config.StorageDynamoDB:
		client, err := dynamo.NewClient(ctx, cfg.DynamoDB.Region, cfg.DynamoDB.Endpoint)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: failed to create dynamodb client: %w", op, err)
		}

		store := dynamo.NewStore(client, cfg.DynamoDB.Table)

		if cfg.DynamoDB.CreateTable {
			if err := store.EnsureTable(ctx); err != nil {
				return nil, nil, fmt.Errorf("%s: %w", op, err)
			}
		}

		logger.Info("using dynamodb storage", slog.String("table", cfg.DynamoDB.Table), slog.String("region", cfg.DynamoDB.Region))

		return store, func() {}, nil

	default:
		logger.Warn("using in-memory storage, links are lost on restart")

		return memory.New(), func() {}, nil
	}
}
