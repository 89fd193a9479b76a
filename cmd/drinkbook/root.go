package main

import (
	"fmt"
	"os"

	"github.com/drinkbook/client/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version holds the CLI version information.
// This value is typically set at build time using -ldflags.
var Version = "0.0.0-dev"

var (
	configFile string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "drinkbook",
	Short:         "Drink recipe catalog client",
	Long:          `drinkbook talks to the drink recipe service, keeps a sorted local catalog and serves it to a UI shell over HTTP.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadFile(configFile)
		if err != nil {
			return err
		}
		if logLevel != "" {
			loaded.Log.Level = logLevel
		}

		l, err := newLogger(loaded)
		if err != nil {
			return err
		}
		cfg, logger = loaded, l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the CLI application
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./config.yaml, ./config/config.yaml or /etc/drinkbook/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

// newLogger builds a development logger in development and a JSON
// production logger everywhere else
func newLogger(c *config.Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}

	zc := zap.NewProductionConfig()
	if c.IsDevelopment() {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}
