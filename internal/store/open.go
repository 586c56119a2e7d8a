package store

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/clinvar-diff-reconciler/internal/domain"
)

// Open builds the sinks named in config.Output.Sinks. Remote sinks
// (postgres, redis) are wrapped in a ResilientSink. On error every sink
// opened so far is closed.
func Open(ctx context.Context, config *domain.Config, logger *logrus.Logger) (*MultiSink, error) {
	var sinks []NamedSink
	closeAll := func() {
		for _, s := range sinks {
			s.Sink.Close()
		}
	}

	for _, name := range config.Output.Sinks {
		var sink domain.TableSink
		switch name {
		case domain.SinkCSV:
			sink = NewCSVSink(config.Output.Dir, logger)
		case domain.SinkSQLite:
			s, err := NewSQLiteStore(config.SQLite.Path)
			if err != nil {
				closeAll()
				return nil, fmt.Errorf("opening sqlite sink: %w", err)
			}
			sink = s
		case domain.SinkPostgres:
			s, err := NewPostgresStore(ctx, config.Database, logger)
			if err != nil {
				closeAll()
				return nil, fmt.Errorf("opening postgres sink: %w", err)
			}
			sink = NewResilientSink(name, s, config.Upload, logger)
		case domain.SinkRedis:
			s, err := NewRedisStore(ctx, config.Redis)
			if err != nil {
				closeAll()
				return nil, fmt.Errorf("opening redis sink: %w", err)
			}
			sink = NewResilientSink(name, s, config.Upload, logger)
		default:
			closeAll()
			return nil, domain.NewConfigError("output.sinks", fmt.Sprintf("unknown sink %q", name))
		}
		sinks = append(sinks, NamedSink{Name: name, Sink: sink})
	}

	logger.WithField("sinks", config.Output.Sinks).Info("Result sinks ready")
	return NewMultiSink(sinks...), nil
}
