package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/clinvar-diff-reconciler/internal/domain"
)

// NamedSink labels a sink for error messages.
type NamedSink struct {
	Name string
	Sink domain.TableSink
}

// MultiSink fans each result out to several sinks. Every sink is attempted;
// failures are joined.
type MultiSink struct {
	sinks []NamedSink
}

func NewMultiSink(sinks ...NamedSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) Save(ctx context.Context, res *domain.AssayResult) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Sink.Save(ctx, res); err != nil {
			errs = append(errs, fmt.Errorf("%s sink: %w", s.Name, err))
		}
	}
	return errors.Join(errs...)
}

// Latest asks each queryable sink in order and returns the first hit.
func (m *MultiSink) Latest(ctx context.Context, assay string) (*domain.AssayResult, error) {
	var errs []error
	for _, s := range m.sinks {
		rs, ok := s.Sink.(domain.ResultStore)
		if !ok {
			continue
		}
		res, err := rs.Latest(ctx, assay)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			errs = append(errs, fmt.Errorf("%s sink: %w", s.Name, err))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return nil, fmt.Errorf("no run for assay %s: %w", assay, domain.ErrNotFound)
}

// Queryable reports whether any sink can answer Latest.
func (m *MultiSink) Queryable() bool {
	for _, s := range m.sinks {
		if _, ok := s.Sink.(domain.ResultStore); ok {
			return true
		}
	}
	return false
}

func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Sink.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s sink: %w", s.Name, err))
		}
	}
	return errors.Join(errs...)
}

var _ domain.ResultStore = (*MultiSink)(nil)
