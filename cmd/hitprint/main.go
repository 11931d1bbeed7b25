// Package main is the entry point for the hitprint CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hitprint/internal/config"
	logpkg "github.com/kailas-cloud/hitprint/internal/logger"
)

// rootCmd is the base command for the hitprint CLI.
var rootCmd = &cobra.Command{
	Use:   "hitprint",
	Short: "Run a search query and print selected fields of every hit",
	Long: `hitprint executes one ready-made query against a search backend
(Valkey, Redis or Elasticsearch) and prints "<field>: <value>" for each
requested field of each returned hit. Missing fields print as None.

Use "query" for one-off runs, "count" to size a result set, and "serve"
to expose the same projection over HTTP.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: config/<env>.yaml)")
	rootCmd.PersistentFlags().String("env", "", "environment name: local, dev, docker, prod (default: $ENV or local)")
}

// runtimeDeps holds what every subcommand needs after flag parsing.
type runtimeDeps struct {
	env    string
	cfg    config.Config
	logger *zap.Logger
}

// loadRuntime resolves env, loads config and builds the logger.
func loadRuntime(cmd *cobra.Command) (*runtimeDeps, error) {
	env, _ := cmd.Flags().GetString("env")
	if env == "" {
		env = config.GetEnv()
	}

	cfgFile, _ := cmd.Flags().GetString("config")
	var (
		cfg config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.LoadFile(cfgFile)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	return &runtimeDeps{env: env, cfg: cfg, logger: logger}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
