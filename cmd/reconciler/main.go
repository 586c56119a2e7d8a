// Command reconciler classifies ClinVar annotation diffs into added,
// deleted, changed and detailed tables.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/clinvar-diff-reconciler/internal/config"
	"github.com/clinvar-diff-reconciler/internal/logging"
)

var (
	configPath string
	logLevel   string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "reconciler",
	Short: "Reconcile ClinVar annotation diffs between two pipeline runs",
	Long: `reconciler reads the ed-style diff between a production and a development
annotation run, maps each ClinVar significance tag onto a canonical category
and writes per-assay added, deleted, changed and detailed tables.

Available subcommands:
  reconcile - Reconcile diff files once and write the configured sinks
  serve     - Serve the reconciliation HTTP API
  migrate   - Apply or roll back the postgres results schema`,
	SilenceUsage: true,
}

// app bundles what every subcommand needs
type app struct {
	config    *config.Manager
	logger    *logrus.Logger
	logCloser io.Closer
}

func (a *app) Close() {
	a.logCloser.Close()
}

// loadApp reads and validates configuration and builds the logger
func loadApp() (*app, error) {
	manager, err := config.NewManagerWithFile(configPath)
	if err != nil {
		return nil, err
	}
	cfg := manager.GetConfig()
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := manager.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}
	return &app{config: manager, logger: logger, logCloser: closer}, nil
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: reconciler.yaml in ., ./config or /etc/clinvar-diff-reconciler)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override logging.level")

	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
