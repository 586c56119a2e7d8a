// Package service runs the reconciliation pipeline for one or more assays.
package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/clinvar-diff-reconciler/internal/diffparse"
	"github.com/clinvar-diff-reconciler/internal/domain"
	"github.com/clinvar-diff-reconciler/internal/report"
	"github.com/clinvar-diff-reconciler/internal/taxonomy"
)

// AssayInput names an assay and how to open its diff.
type AssayInput struct {
	Assay string
	Open  func() (io.ReadCloser, error)
}

// FileInput reads an assay's diff from path.
func FileInput(assay, path string) AssayInput {
	return AssayInput{
		Assay: assay,
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

// DirInputs reads each assay's diff from <dir>/<assay>.diff.
func DirInputs(dir string, assays []string) []AssayInput {
	inputs := make([]AssayInput, 0, len(assays))
	for _, a := range assays {
		inputs = append(inputs, FileInput(a, filepath.Join(dir, a+".diff")))
	}
	return inputs
}

// TaxonomySource returns the taxonomy a run should use.
type TaxonomySource func() (*taxonomy.Taxonomy, error)

// Reconciler turns annotation diffs into result tables and hands them to a
// sink.
type Reconciler struct {
	logger      *logrus.Logger
	taxonomy    TaxonomySource
	sink        domain.TableSink
	maxParallel int
	now         func() time.Time
}

// NewReconciler creates a reconciler with a fixed taxonomy. sink may be nil,
// in which case results are only returned. maxParallel bounds ReconcileAll.
func NewReconciler(logger *logrus.Logger, tax *taxonomy.Taxonomy, sink domain.TableSink, maxParallel int) *Reconciler {
	return NewReconcilerWithSource(logger, func() (*taxonomy.Taxonomy, error) { return tax, nil }, sink, maxParallel)
}

// NewCachedReconciler reads the taxonomy at path through cache on every run,
// so edits to the file apply without a restart.
func NewCachedReconciler(logger *logrus.Logger, cache *taxonomy.Cache, path string, sink domain.TableSink, maxParallel int) *Reconciler {
	return NewReconcilerWithSource(logger, func() (*taxonomy.Taxonomy, error) { return cache.Load(path) }, sink, maxParallel)
}

// NewReconcilerWithSource creates a reconciler that asks source for the
// taxonomy at the start of each run.
func NewReconcilerWithSource(logger *logrus.Logger, source TaxonomySource, sink domain.TableSink, maxParallel int) *Reconciler {
	if maxParallel <= 0 {
		maxParallel = 1
	}
	return &Reconciler{
		logger:      logger,
		taxonomy:    source,
		sink:        sink,
		maxParallel: maxParallel,
		now:         time.Now,
	}
}

// Reconcile parses one assay's diff, builds its tables and saves them. Any
// format error aborts the run and nothing is saved.
func (r *Reconciler) Reconcile(ctx context.Context, assay string, in io.Reader) (*domain.AssayResult, error) {
	tax, err := r.taxonomy()
	if err != nil {
		return nil, fmt.Errorf("loading taxonomy: %w", err)
	}
	return r.reconcile(ctx, tax, assay, in)
}

func (r *Reconciler) reconcile(ctx context.Context, tax *taxonomy.Taxonomy, assay string, in io.Reader) (*domain.AssayResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	startTime := r.now()
	runID := uuid.NewString()
	log := r.logger.WithFields(logrus.Fields{
		"assay":  assay,
		"run_id": runID,
	})
	log.Info("Starting reconciliation")

	raw, err := diffparse.Tokenize(in)
	if err != nil {
		log.WithError(err).Error("Diff rejected")
		return nil, fmt.Errorf("assay %s: %w", assay, err)
	}

	parsed := diffparse.SplitAll(raw)
	moved := diffparse.Reclassify(parsed)

	tables, err := report.Build(parsed, tax)
	if err != nil {
		log.WithError(err).Error("Building tables failed")
		return nil, fmt.Errorf("assay %s: %w", assay, err)
	}

	result := &domain.AssayResult{
		RunID:     runID,
		Assay:     assay,
		Tables:    tables,
		Unknown:   report.CountUnknown(tables),
		CreatedAt: startTime.UTC(),
	}

	if result.Unknown > 0 {
		log.WithField("unknown", result.Unknown).Warn("Categories matched no taxonomy rule")
	}

	if r.sink != nil {
		if err := r.sink.Save(ctx, result); err != nil {
			log.WithError(err).Error("Saving tables failed")
			return result, fmt.Errorf("assay %s: saving results: %w", assay, err)
		}
	}

	log.WithFields(logrus.Fields{
		"added":        len(tables.Added),
		"deleted":      len(tables.Deleted),
		"changed":      len(tables.Changed),
		"detailed":     len(tables.Detailed),
		"reclassified": moved,
		"duration":     time.Since(startTime).String(),
	}).Info("Reconciliation completed")

	return result, nil
}

// ReconcileAll runs several assays concurrently against one shared taxonomy.
// Results come back in input order. The first failure cancels runs that have
// not started yet and is returned.
func (r *Reconciler) ReconcileAll(ctx context.Context, inputs []AssayInput) ([]*domain.AssayResult, error) {
	tax, err := r.taxonomy()
	if err != nil {
		return nil, fmt.Errorf("loading taxonomy: %w", err)
	}

	results := make([]*domain.AssayResult, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxParallel)

	for i := range inputs {
		input := inputs[i]

		g.Go(func() error {
			rc, err := input.Open()
			if err != nil {
				return fmt.Errorf("assay %s: opening diff: %w", input.Assay, err)
			}
			defer rc.Close()

			res, err := r.reconcile(ctx, tax, input.Assay, rc)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
