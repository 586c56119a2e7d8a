package main

import (
	"github.com/spf13/cobra"

	"github.com/clinvar-diff-reconciler/internal/api"
	"github.com/clinvar-diff-reconciler/internal/domain"
	"github.com/clinvar-diff-reconciler/internal/service"
	"github.com/clinvar-diff-reconciler/internal/store"
	"github.com/clinvar-diff-reconciler/internal/taxonomy"
)

// serveCmd starts the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the reconciliation HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()
	cfg := a.config.GetConfig()

	ctx, cancel := signalContext()
	defer cancel()

	cache, err := taxonomy.NewCache(cfg.Taxonomy.CacheSize)
	if err != nil {
		return err
	}
	// fail at startup rather than on the first request
	if _, err := cache.Load(cfg.Taxonomy.Path); err != nil {
		return err
	}

	sinks, err := store.Open(ctx, cfg, a.logger)
	if err != nil {
		return err
	}
	defer sinks.Close()

	var results domain.ResultStore
	if sinks.Queryable() {
		results = sinks
	}

	reconciler := service.NewCachedReconciler(a.logger, cache, cfg.Taxonomy.Path, sinks, cfg.Concurrency.MaxAssays)
	server := api.NewServer(cfg.Server, a.logger, reconciler, results)

	return server.Start(ctx)
}
