package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"apod/server/internal/handler"
	transport "apod/server/internal/http"
	"apod/server/internal/logger"
	"apod/server/internal/scheduler"
)

const (
	shutdownTimeout = 10 * time.Second
	janitorInterval = time.Minute
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the daily refresh poller",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a.cache.StartJanitor(ctx, janitorInterval)

		// Unreachable provider is not fatal: stored entries are still served.
		if err := a.probeProvider(ctx); err != nil {
			logger.Warn("provider unreachable at startup", "module", "nasa", "action", "probe", "resource", "apod", "result", "failed", "error", err)
		} else {
			logger.Info("provider reachable", "module", "nasa", "action", "probe", "resource", "apod", "result", "ok")
		}

		router := transport.NewRouter(transport.RouterOptions{
			APOD:         handler.NewAPODHandler(a.cached, a.apod),
			Health:       handler.NewHealthHandler(a.repo),
			Metrics:      a.metrics,
			WallpaperDir: cfg.WallpaperDir,
		})

		poller := scheduler.New(a.apod, cfg.PollInterval, a.metrics)
		poller.Start()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server listening", "module", "http", "action", "start", "resource", "http", "result", "ok", "addr", cfg.Addr)
			if err := router.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		var serveErr error
		select {
		case <-ctx.Done():
			logger.Info("shutting down", "module", "http", "action", "stop", "resource", "http", "result", "ok")
		case serveErr = <-errCh:
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := router.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown incomplete", "module", "http", "action", "stop", "resource", "http", "result", "failed", "error", err)
		}
		poller.Stop()

		return serveErr
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "HTTP listen address")
	serveCmd.Flags().Duration("poll-interval", 24*time.Hour, "how often to check for a new picture")
	serveCmd.Flags().Bool("paint", false, "paint downloaded images as the desktop wallpaper")

	_ = v.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))
	_ = v.BindPFlag("poll_interval", serveCmd.Flags().Lookup("poll-interval"))
	_ = v.BindPFlag("paint_wallpaper", serveCmd.Flags().Lookup("paint"))

	rootCmd.AddCommand(serveCmd)
}
