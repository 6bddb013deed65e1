package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"rollcall/internal/identity/index"
	identitymetrics "rollcall/internal/identity/metrics"
	"rollcall/internal/ledger/store"
	"rollcall/internal/platform/config"
	"rollcall/internal/platform/database"
	"rollcall/internal/platform/logger"
	"rollcall/internal/platform/metrics"
	"rollcall/internal/platform/redis"
	registration "rollcall/internal/registration/service"
	"rollcall/pkg/platform/sentinel"
)

// app holds the process-wide dependencies shared by every command.
type app struct {
	cfg             *config.Config
	logger          *slog.Logger
	db              *sql.DB
	ledger          *store.Store
	index           *index.Index
	metrics         *metrics.Registry
	identityMetrics *identitymetrics.Metrics
	registration    *registration.Service
	redis           *redis.Client

	// rebuildIndex is set when the index must be reconciled before serving.
	rebuildIndex bool
}

// newApp opens the ledger, migrates it and loads the embedding index. Redis
// is connected only for serve.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("resolve timezone: %w", err)
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	dialect, err := store.DialectFor(cfg.Database.Driver)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	ledger := store.New(db, dialect, store.WithLocation(loc))
	if err := ledger.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	rebuild := cfg.ReconcileOnStart
	ix := index.New(cfg.Index.Dir, log)
	if err := ix.Load(); err != nil {
		// A corrupt snapshot is recoverable: the ledger holds every vector.
		if !errors.Is(err, sentinel.ErrCorrupt) {
			_ = db.Close()
			return nil, fmt.Errorf("load embedding index: %w", err)
		}
		log.ErrorContext(ctx, "embedding index snapshot unreadable, rebuilding from ledger", "error", err)
		rebuild = true
	}

	reg := metrics.New()
	identityMetrics := identitymetrics.New(reg)
	identityMetrics.SetIndexEntries(ix.Len())

	return &app{
		cfg:             cfg,
		logger:          log,
		db:              db,
		ledger:          ledger,
		index:           ix,
		metrics:         reg,
		identityMetrics: identityMetrics,
		registration: registration.New(ledger, ix,
			registration.WithMetrics(identityMetrics),
			registration.WithLogger(log),
		),
		rebuildIndex: rebuild,
	}, nil
}

func (a *app) connectRedis(ctx context.Context) error {
	client, err := redis.New(ctx, a.cfg.Redis)
	if err != nil {
		return err
	}
	a.redis = client
	return nil
}

// close persists the index and releases connections. A stale index is not
// written, so an unreadable snapshot survives until a reconcile replaces it.
func (a *app) close() {
	switch err := a.index.Persist(); {
	case errors.Is(err, index.ErrStale):
		a.logger.Error("embedding index not reconciled, keeping previous snapshot on disk; run reconcile",
			"dir", a.cfg.Index.Dir)
	case err != nil:
		a.logger.Error("failed to persist embedding index on shutdown", "error", err)
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close ledger", "error", err)
	}
}
