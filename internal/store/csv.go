package store

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/clinvar-diff-reconciler/internal/domain"
	"github.com/clinvar-diff-reconciler/internal/report"
)

// CSVSink writes each result as <assay>_<table>.csv files. On Close it writes
// summary.csv and detailed.csv across every result it saw.
type CSVSink struct {
	dir    string
	log    *logrus.Logger
	mu     sync.Mutex
	saved  []*domain.AssayResult
	closed bool
}

// NewCSVSink creates a CSV sink writing into dir.
func NewCSVSink(dir string, logger *logrus.Logger) *CSVSink {
	return &CSVSink{dir: dir, log: logger}
}

func (s *CSVSink) Save(ctx context.Context, res *domain.AssayResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	paths, err := report.WriteAssayFiles(s.dir, res)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.saved = append(s.saved, res)
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"assay": res.Assay,
		"files": len(paths),
		"dir":   s.dir,
	}).Info("Tables written")
	return nil
}

// Close writes the cross-assay summary. Results are summarized in the order
// they were saved.
func (s *CSVSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || len(s.saved) == 0 {
		s.closed = true
		return nil
	}
	s.closed = true

	if _, err := report.WriteSummaryFile(s.dir, s.saved); err != nil {
		return err
	}
	s.log.WithField("path", filepath.Join(s.dir, "summary.csv")).Info("Summary written")
	return nil
}

var _ domain.TableSink = (*CSVSink)(nil)
