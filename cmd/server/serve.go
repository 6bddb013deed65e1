package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"rollcall/internal/platform/httpserver"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.connectRedis(ctx); err != nil {
		return err
	}
	if a.rebuildIndex {
		report, err := a.registration.Reconcile(ctx)
		if err != nil {
			return fmt.Errorf("startup reconcile: %w", err)
		}
		a.logger.InfoContext(ctx, "startup reconcile complete",
			"ledger_identities", report.LedgerIdentities,
			"index_after", report.IndexAfter,
			"missing_added", report.MissingAdded,
			"orphans_removed", report.OrphansRemoved,
		)
	}

	srv := httpserver.New(cfg.Addr, newRouter(a))

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting rollcall", "addr", cfg.Addr, "driver", cfg.Database.Driver, "index_entries", a.index.Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
