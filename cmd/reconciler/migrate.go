package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/clinvar-diff-reconciler/internal/store"
)

// migrateCmd manages the postgres results schema
var migrateCmd = &cobra.Command{
	Use:       "migrate up|down",
	Short:     "Apply or roll back the postgres results schema",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down"},
	RunE:      runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	runner, err := store.NewMigrationRunner(a.config.GetDatabaseURL(), a.logger)
	if err != nil {
		return err
	}
	defer runner.Close()

	ctx, cancel := signalContext()
	defer cancel()

	switch args[0] {
	case "up":
		err = runner.Up(ctx)
	case "down":
		err = runner.Down(ctx)
	default:
		return fmt.Errorf("unknown direction %q", args[0])
	}
	if err != nil {
		return err
	}

	version, dirty, err := runner.Version()
	if err != nil {
		// no migration applied yet
		return nil
	}
	a.logger.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("Schema version")
	return nil
}
