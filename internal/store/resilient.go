package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/clinvar-diff-reconciler/internal/domain"
)

// ResilientSink guards a remote sink with an upload rate limit and a circuit
// breaker. While the breaker is open, saves fail fast.
type ResilientSink struct {
	name    string
	next    domain.TableSink
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	log     *logrus.Logger
}

// NewResilientSink wraps next using the upload settings.
func NewResilientSink(name string, next domain.TableSink, config domain.UploadConfig, logger *logrus.Logger) *ResilientSink {
	maxFailures := config.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 3
	}
	timeout := config.BreakerTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	limit := rate.Limit(config.RateLimit)
	if config.RateLimit <= 0 {
		limit = rate.Inf
	}

	s := &ResilientSink{
		name:    name,
		next:    next,
		limiter: rate.NewLimiter(limit, 1),
		log:     logger,
	}
	s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			// a cancelled caller says nothing about the remote side
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"sink": name,
				"from": from.String(),
				"to":   to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})
	return s
}

func (s *ResilientSink) Save(ctx context.Context, res *domain.AssayResult) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s upload rate limit: %w", s.name, err)
	}

	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.next.Save(ctx, res)
	})
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"sink":  s.name,
			"assay": res.Assay,
		}).Error("Upload failed")
		return err
	}
	return nil
}

// Latest passes through to the wrapped sink when it is queryable.
func (s *ResilientSink) Latest(ctx context.Context, assay string) (*domain.AssayResult, error) {
	rs, ok := s.next.(domain.ResultStore)
	if !ok {
		return nil, fmt.Errorf("%s sink is not queryable: %w", s.name, domain.ErrNotFound)
	}
	return rs.Latest(ctx, assay)
}

// State reports the breaker state.
func (s *ResilientSink) State() gobreaker.State {
	return s.breaker.State()
}

func (s *ResilientSink) Close() error {
	return s.next.Close()
}

var _ domain.ResultStore = (*ResilientSink)(nil)
