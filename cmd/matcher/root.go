package main

import (
	"fmt"
	"log"

	"github.com/gdugdh24/devmatch-backend/internal/config"
	"github.com/gdugdh24/devmatch-backend/internal/infrastructure/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const app = "matcher"

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:          app,
		Short:        "matcher scores developer pairs and maintains the ranked match graph",
		SilenceUsage: true,
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "env file with settings (default is .env in current directory)")
	flags.BoolP("debug", "d", false, "verbose/debug output")
	flags.BoolP("json", "j", false, "json format for logging")
	flags.IntP("workers", "w", 0, "batch workers (default GOMAXPROCS)")
	flags.Bool("resume", false, "continue the batch from the last saved checkpoint")

	bind := map[string]string{
		"LOG_DEBUG":       "debug",
		"LOG_JSON":        "json",
		"MATCHER_WORKERS": "workers",
		"MATCHER_RESUME":  "resume",
	}
	for key, flag := range bind {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			log.Fatalf("binding --%s flag: %v", flag, err)
		}
	}
}

// bootstrap loads the configuration and builds the logger shared by all
// commands.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	lg, err := logger.New(cfg.Logging, cfg.Server.Env)
	if err != nil {
		return nil, nil, fmt.Errorf("creating a logger: %w", err)
	}

	lg.Debug("configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("store", cfg.Matcher.Store),
		zap.Int("workers", cfg.Matcher.Workers),
		zap.Bool("redis_checkpoints", cfg.UsesRedis()),
	)
	return cfg, lg, nil
}
