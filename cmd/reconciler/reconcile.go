package main

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/clinvar-diff-reconciler/internal/service"
	"github.com/clinvar-diff-reconciler/internal/store"
	"github.com/clinvar-diff-reconciler/internal/taxonomy"
)

var assayFlags []string

// reconcileCmd runs the pipeline once over diff files
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile diff files and write the configured sinks",
	Long: `Reconcile one diff per assay. Without --assay, each configured assay is
read from <input.dir>/<assay>.diff.

Examples:
  reconciler reconcile
  reconciler reconcile --assay TWE=diffs/twe.diff --assay TSO500=diffs/tso.diff`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringArrayVarP(&assayFlags, "assay", "a", nil, "ASSAY=PATH diff to reconcile (repeatable)")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()
	cfg := a.config.GetConfig()

	inputs, err := parseAssayFlags(assayFlags)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		inputs = service.DirInputs(cfg.Input.Dir, cfg.Assays)
	}

	ctx, cancel := signalContext()
	defer cancel()

	tax, err := taxonomy.LoadFile(cfg.Taxonomy.Path)
	if err != nil {
		return err
	}

	sinks, err := store.Open(ctx, cfg, a.logger)
	if err != nil {
		return err
	}

	reconciler := service.NewReconciler(a.logger, tax, sinks, cfg.Concurrency.MaxAssays)
	results, runErr := reconciler.ReconcileAll(ctx, inputs)

	// Close flushes the CSV summary, so it runs even after a failed assay
	if err := sinks.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return runErr
	}

	for _, res := range results {
		a.logger.WithFields(logrus.Fields{
			"assay":   res.Assay,
			"run_id":  res.RunID,
			"unknown": res.Unknown,
		}).Info("Assay reconciled")
	}
	return nil
}

// parseAssayFlags turns ASSAY=PATH pairs into inputs
func parseAssayFlags(flags []string) ([]service.AssayInput, error) {
	inputs := make([]service.AssayInput, 0, len(flags))
	seen := map[string]bool{}
	for _, f := range flags {
		assay, path, ok := strings.Cut(f, "=")
		if !ok || assay == "" || path == "" {
			return nil, fmt.Errorf("invalid --assay %q: want ASSAY=PATH", f)
		}
		if seen[assay] {
			return nil, fmt.Errorf("assay %s given twice", assay)
		}
		seen[assay] = true
		inputs = append(inputs, service.FileInput(assay, path))
	}
	return inputs, nil
}
