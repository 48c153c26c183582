package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdugdh24/devmatch-backend/internal/infrastructure/container"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one batch over every user pair and print the report",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runOnce(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runOnce(parent context.Context) error {
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

	report, runErr := app.Runner.Run(ctx)
	if report != nil {
		pretty, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(pretty))
	}
	return runErr
}
