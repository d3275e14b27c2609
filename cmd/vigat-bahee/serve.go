package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vigat-bahee/internal/app"
	"vigat-bahee/internal/config"
	"vigat-bahee/pkg/logger"

	"github.com/spf13/cobra"
)

func newServeCmd(log logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), log)
		},
	}
}

func runServe(parent context.Context, log logger.Logger) error {
	if parent == nil {
		parent = context.Background()
	}
	log.Info("app: starting")

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(log)
	if err != nil {
		log.Critical("app: config failed", "err", err)
		return err
	}

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Critical("app: init failed", "err", err)
		return err
	}

	srv := application.HTTPServer()
	log.Info("http: listening", "addr", srv.Addr)

	serverErrCh := make(chan error, 1)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	var failed error
	select {
	case <-ctx.Done():
		log.Info("app: shutdown signal received")
	case err := <-serverErrCh:
		if err != nil {
			log.Critical("http: server failed", "addr", srv.Addr, "err", err)
			failed = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("http: graceful shutdown failed", "err", err)
		failed = errors.Join(failed, fmt.Errorf("shutdown: %w", err))
	}

	if err := application.Close(); err != nil {
		log.Error("app: close failed", "err", err)
		failed = errors.Join(failed, fmt.Errorf("close: %w", err))
	}

	if failed == nil {
		log.Info("app: stopped")
	}
	return failed
}
