package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	adapthttp "moodtrack/internal/adapter/http"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the device service with the HTTP API",
	Long: `Run the device service: re-arm stored reminders and the ingest job, deliver
alarms, and serve the settings and activity API.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runDevice(cmd.Context(), true)
	},
}

// runDevice re-arms from stored preferences and runs until interrupted.
// Without HTTP it is the headless daemon the login hook starts.
func runDevice(parent context.Context, withHTTP bool) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	d, err := newDevice(cfg, log)
	if err != nil {
		return err
	}
	defer d.Close()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := d.settings.Rearm(ctx); err != nil {
		// Partial re-arm still leaves the rest scheduled.
		log.Error("re-arm incomplete", zap.Error(err))
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return d.alarms.Run(ctx) })

	if withHTTP {
		srv := &http.Server{
			Addr: cfg.HTTP.Addr,
			Handler: adapthttp.New(adapthttp.Deps{
				Settings:      d.settings,
				Activities:    d.activities,
				Insights:      d.insights,
				Ingest:        d.store,
				Alarms:        d.alarms,
				Notifications: d.tray,
				Gate:          d.gate,
				Conditions:    d.conditions,
				WebDir:        cfg.HTTP.WebDir,
				DeepLinkRoute: cfg.HTTP.DeepLinkRoute,
				Log:           log.Named("http"),
			}).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			log.Info("listening", zap.String("addr", cfg.HTTP.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(sctx)
		})
	}

	err = g.Wait()
	log.Info("shut down")
	return err
}
