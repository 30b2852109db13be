package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/pipeflow/internal/config"
	"github.com/san-kum/pipeflow/internal/logging"
)

var (
	configFile string
	dataDir    string
	seed       int64
	logLevel   string
	logFormat  string

	cfg    *config.Config
	logger = zap.NewNop()
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "pipeflow",
		Short:             "pipe friction, Moody diagram and piston-valve dynamics",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&dataDir, "data", ".pipeflow", "data directory for saved runs")
	pf.Int64Var(&seed, "seed", 0, "random seed for the transitional regime (0 = time based)")
	pf.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", "console", "log format (console, json)")

	rootCmd.AddCommand(
		newMoodyCmd(),
		newPointCmd(),
		newValveCmd(),
		newCompareCmd(),
		newListCmd(),
		newPlotCmd(),
		newExportCSVCmd(),
		newExportJSONCmd(),
		newPresetsCmd(),
		newInitConfigCmd(),
	)
	return rootCmd
}

// setup loads the config file, lets explicitly set flags override it and
// builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	cfg = config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("log-level") || cfg.Logging.Level == "" {
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("log-format") || cfg.Logging.Format == "" {
		cfg.Logging.Format = logFormat
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	l, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	logger = l.With(zap.String("cmd", cmd.Name()))
	logger.Debug("config ready", zap.String("file", configFile), zap.Int64("seed", cfg.Seed))

	return cfg.Validate()
}
