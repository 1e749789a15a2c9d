// Package breaker guards calls to third-party services with a circuit breaker.
// A tripped breaker fails calls immediately; it never retries them.
package breaker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/quickai/server/internal/infra/config"
	"github.com/quickai/server/internal/utils/metrics"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// ErrOpen is returned when the breaker rejects a call without attempting it.
var ErrOpen = errors.New("circuit breaker open")

// Guard wraps one upstream service. A nil *Guard calls straight through.
type Guard struct {
	name    string
	cb      *gobreaker.CircuitBreaker[any]
	metrics *metrics.Metrics
}

// New creates a guard for the named service. When cfg.Enabled is false the
// guard only records metrics.
func New(name string, cfg config.BreakerConfig, m *metrics.Metrics, log *zap.Logger) *Guard {
	g := &Guard{name: name, metrics: m}
	if !cfg.Enabled {
		return g
	}
	if log == nil {
		log = zap.NewNop()
	}

	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: isSuccessful,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("service", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if m != nil {
				m.SetBreakerOpen(name, to == gobreaker.StateOpen)
			}
		},
	}
	g.cb = gobreaker.NewCircuitBreaker[any](settings)
	return g
}

// StatusCoder is implemented by errors carrying an upstream HTTP status.
type StatusCoder interface {
	HTTPStatus() int
}

// isSuccessful reports whether err leaves the upstream's health untouched.
// A caller giving up and a request the upstream rejected as malformed both
// say nothing about whether the service is up. 429 still counts.
func isSuccessful(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var sc StatusCoder
	if errors.As(err, &sc) {
		status := sc.HTTPStatus()
		return status >= 400 && status < 500 && status != http.StatusTooManyRequests
	}
	return false
}

// Name returns the guarded service name.
func (g *Guard) Name() string {
	if g == nil {
		return ""
	}
	return g.name
}

// State reports the breaker state. Guards without a breaker are always closed.
func (g *Guard) State() gobreaker.State {
	if g == nil || g.cb == nil {
		return gobreaker.StateClosed
	}
	return g.cb.State()
}

// Do runs fn under the breaker.
func (g *Guard) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := Call(ctx, g, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Call runs fn under g and returns its result.
func Call[T any](ctx context.Context, g *Guard, fn func(ctx context.Context) (T, error)) (T, error) {
	if g == nil {
		return fn(ctx)
	}

	start := time.Now()
	var (
		result T
		err    error
	)
	if g.cb == nil {
		result, err = fn(ctx)
	} else {
		_, err = g.cb.Execute(func() (any, error) {
			var callErr error
			result, callErr = fn(ctx)
			return nil, callErr
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%s: %w", g.name, ErrOpen)
		}
	}

	if g.metrics != nil {
		g.metrics.RecordUpstream(g.name, err, time.Since(start))
	}
	return result, err
}
