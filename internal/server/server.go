// Package server runs the HTTP API, the gRPC health service, the queue
// workers and the scheduler until the context is cancelled.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sudeviagro/backoffice/config"
	"github.com/sudeviagro/backoffice/internal/kernel"
	"github.com/sudeviagro/backoffice/pkg/database"
	"github.com/sudeviagro/backoffice/pkg/grpc"
	"github.com/sudeviagro/backoffice/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// Start blocks until ctx is done or the HTTP listener fails, then drains
// in-flight requests and background work.
func Start(ctx context.Context, app *kernel.App) error {
	handler, err := kernel.Handler(app.Deps)
	if err != nil {
		return fmt.Errorf("server: build routes: %w", err)
	}

	health := grpc.New(database.Ping, config.GetDuration("HEALTH_INTERVAL", 10*time.Second))
	if err := health.Start(config.GRPCPort()); err != nil {
		return err
	}
	defer health.Stop()

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	workers := app.Queue.Start(workerCtx, config.QueueWorkers())

	if err := app.Deps.Merchant.Reschedule(ctx); err != nil {
		logger.Warn("merchant auto-sync not scheduled", "error", err)
	}
	app.Scheduler.Start()

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http: listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	logger.Info("http: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http: shutdown", "error", err)
	}
	stopWorkers()
	workers.Wait()

	if err := app.Close(shutdownCtx); err != nil {
		logger.Error("server: close", "error", err)
	}
	return serveErr
}
