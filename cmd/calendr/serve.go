package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"calendr/internal/capture"
	"calendr/internal/config"
	"calendr/internal/data"
	appLog "calendr/internal/log"
	"calendr/internal/web"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and calendar page",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Listen = listen
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "HTTP listen address (overrides config if set)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	loc := cfg.Location()
	store := buildStore(cfg, loc)
	srv := web.NewServer(cfg, store)

	appLog.Info("effective config",
		"listen", cfg.Listen,
		"timezone", loc.String(),
		"data_dir", cfg.DataDir,
		"default_region", cfg.DefaultRegion,
		"refresh", cfg.RefreshCron,
		"ics_count", len(cfg.ICS),
		"snapshot", cfg.Snapshot.Enabled,
	)

	httpSrv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	scheduler := cron.New(cron.WithLocation(loc))
	if _, err := scheduler.AddFunc(cfg.RefreshCron, func() { refresh(ctx, cfg, store, srv) }); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", cfg.RefreshCron, err)
	}
	scheduler.Start()
	defer func() {
		<-scheduler.Stop().Done()
	}()

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+cfg.Listen)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// The first snapshot needs the server to be accepting connections.
	if cfg.Snapshot.Enabled {
		go func() {
			time.Sleep(time.Second)
			takeSnapshot(ctx, cfg)
		}()
	}

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		appLog.Info("signal received, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	appLog.Info("calendr exiting")
	return nil
}

// refresh reloads every cached selection, drops rendered responses and,
// when enabled, re-captures the snapshot.
func refresh(ctx context.Context, cfg *config.Config, store *data.Store, srv *web.Server) {
	start := time.Now()
	n := store.Refresh(ctx)
	srv.InvalidateCache()
	appLog.Info("scheduled refresh done", "reloaded", n, "took", time.Since(start).String())

	if cfg.Snapshot.Enabled {
		takeSnapshot(ctx, cfg)
	}
}

func takeSnapshot(ctx context.Context, cfg *config.Config) {
	if err := capture.CaptureCalendarPNG(ctx, capture.OptionsFromConfig(cfg)); err != nil {
		appLog.Error("snapshot failed", err, "output", cfg.Snapshot.Output)
	}
}
