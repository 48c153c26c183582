package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdugdh24/devmatch-backend/internal/infrastructure/container"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the match API and rerun the batch on an interval",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Duration("interval", time.Hour, "batch interval, 0 disables scheduled runs")
	serveCmd.Flags().Int("port", 8080, "HTTP port")

	if err := viper.BindPFlag("MATCHER_BATCH_INTERVAL", serveCmd.Flags().Lookup("interval")); err != nil {
		log.Fatalf("binding --interval flag: %v", err)
	}
	if err := viper.BindPFlag("SERVER_PORT", serveCmd.Flags().Lookup("port")); err != nil {
		log.Fatalf("binding --port flag: %v", err)
	}
}

func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, lg, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = lg.Sync() }()

	app, err := container.NewContainer(ctx, cfg, lg)
	if err != nil {
		lg.Error("initializing application", zap.Error(err))
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			lg.Warn("closing application", zap.Error(err))
		}
	}()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(app.Server.Start)

	g.Go(func() error {
		<-gctx.Done()
		return app.Server.Shutdown(context.Background())
	})

	if interval := cfg.Matcher.BatchInterval; interval > 0 {
		g.Go(func() error {
			return app.Runner.RunEvery(gctx, interval)
		})
	} else {
		lg.Info("scheduled batch runs disabled")
	}

	lg.Info("matcher started",
		zap.String("addr", app.Server.Addr()),
		zap.Duration("batch_interval", cfg.Matcher.BatchInterval),
	)

	if err := g.Wait(); err != nil {
		lg.Error("matcher stopped with error", zap.Error(err))
		return err
	}

	lg.Info("matcher exited properly")
	return nil
}
