// Package engine hosts compiled routes on their timers.
//
// Every tick creates a fresh exchange and runs the route pipeline to
// completion before the next tick of that route can fire. Failures are
// logged and counted; the next tick runs as usual.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/telhawk-systems/telhawk-relay/internal/exchange"
	"github.com/telhawk-systems/telhawk-relay/internal/logging"
	"github.com/telhawk-systems/telhawk-relay/internal/metrics"
	"github.com/telhawk-systems/telhawk-relay/internal/route"
	"github.com/telhawk-systems/telhawk-relay/internal/timer"
)

var (
	ErrAlreadyRunning = errors.New("engine already running")
	ErrNotRunning     = errors.New("engine not running")
)

// Engine runs one timer per route.
type Engine struct {
	mu        sync.RWMutex
	logger    *logging.Logger
	hosted    []*hosted
	running   bool
	startedAt time.Time
}

type hosted struct {
	route *route.Route
	timer *timer.Timer
	stats stats
}

type stats struct {
	processed atomic.Int64
	failed    atomic.Int64

	mu        sync.Mutex
	lastError string
	lastFired time.Time
}

// RouteStats is a snapshot of one route's counters.
type RouteStats struct {
	RouteID   string    `json:"route_id"`
	From      string    `json:"from"`
	Processed int64     `json:"processed"`
	Failed    int64     `json:"failed"`
	LastError string    `json:"last_error,omitempty"`
	LastFired time.Time `json:"last_fired,omitzero"`
}

// New creates an engine for the given routes. It owns them from now on.
func New(logger *logging.Logger, routes ...*route.Route) *Engine {
	if logger == nil {
		logger = logging.Default()
	}
	e := &Engine{logger: logger}
	for _, r := range routes {
		h := &hosted{route: r}
		h.timer = timer.New(r.Timer, e.fire(h))
		e.hosted = append(e.hosted, h)
	}
	return e
}

// Start starts every route timer.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return ErrAlreadyRunning
	}

	for i, h := range e.hosted {
		if err := h.timer.Start(ctx); err != nil {
			for _, started := range e.hosted[:i] {
				_ = started.timer.Stop()
			}
			return err
		}
		e.logger.Info("Route started",
			logging.RouteID(h.route.ID()),
			logging.Endpoint(h.route.Definition.From),
			slog.String("period", h.route.Timer.Period.String()),
		)
	}
	e.running = true
	e.startedAt = time.Now()
	metrics.RoutesRunning.Set(float64(len(e.hosted)))
	return nil
}

// Stop stops every timer and waits for in-flight ticks.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return ErrNotRunning
	}
	e.running = false

	var errs []error
	for _, h := range e.hosted {
		if err := h.timer.Stop(); err != nil {
			errs = append(errs, err)
		}
		e.logger.Info("Route stopped",
			logging.RouteID(h.route.ID()),
			slog.Int64("processed", h.stats.processed.Load()),
			slog.Int64("failed", h.stats.failed.Load()),
		)
	}
	metrics.RoutesRunning.Set(0)
	return errors.Join(errs...)
}

// Wait blocks until every timer is done or ctx ends. Timers without a
// repeat count only finish on Stop or context cancellation.
func (e *Engine) Wait(ctx context.Context) error {
	e.mu.RLock()
	timers := make([]*timer.Timer, len(e.hosted))
	for i, h := range e.hosted {
		timers[i] = h.timer
	}
	e.mu.RUnlock()

	for _, t := range timers {
		select {
		case <-t.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Close releases route resources. Call after Stop.
func (e *Engine) Close() {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, h := range e.hosted {
		h.route.Close()
	}
}

// Running reports whether Start has been called without Stop.
func (e *Engine) Running() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.running
}

// StartedAt returns when the engine was last started.
func (e *Engine) StartedAt() time.Time {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.startedAt
}

// Routes returns the hosted routes in registration order.
func (e *Engine) Routes() []*route.Route {
	e.mu.RLock()
	defer e.mu.RUnlock()
	routes := make([]*route.Route, len(e.hosted))
	for i, h := range e.hosted {
		routes[i] = h.route
	}
	return routes
}

// Stats returns a snapshot of every route's counters.
func (e *Engine) Stats() []RouteStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]RouteStats, len(e.hosted))
	for i, h := range e.hosted {
		h.stats.mu.Lock()
		out[i] = RouteStats{
			RouteID:   h.route.ID(),
			From:      h.route.Definition.From,
			Processed: h.stats.processed.Load(),
			Failed:    h.stats.failed.Load(),
			LastError: h.stats.lastError,
			LastFired: h.stats.lastFired,
		}
		h.stats.mu.Unlock()
	}
	return out
}

func (e *Engine) fire(h *hosted) timer.FireFunc {
	return func(ctx context.Context, tick timer.Tick) {
		id := h.route.ID()
		metrics.TimerTicksTotal.WithLabelValues(id).Inc()

		h.stats.mu.Lock()
		h.stats.lastFired = tick.FiredAt
		h.stats.mu.Unlock()

		ex, err := exchange.New(id)
		if err != nil {
			e.fail(ctx, h, tick, err)
			return
		}
		ex.SetHeader(exchange.HeaderTimerName, tick.Name)
		ex.SetHeader(exchange.HeaderTimerFiredTime, tick.FiredAt.Format(time.RFC3339Nano))
		ex.SetHeader(exchange.HeaderTimerPeriod, tick.Period.String())
		ex.SetHeader(exchange.HeaderTimerCounter, strconv.FormatInt(tick.Counter, 10))
		ctx = exchange.WithContext(ctx, ex)

		start := time.Now()
		err = h.route.Pipeline.Process(ctx, ex)
		metrics.ExchangeDuration.WithLabelValues(id).Observe(time.Since(start).Seconds())
		if err != nil {
			e.fail(ctx, h, tick, err)
			return
		}

		h.stats.processed.Add(1)
		metrics.ExchangesTotal.WithLabelValues(id, metrics.StatusCompleted).Inc()
		e.logger.WithContext(ctx).Debug("Exchange completed",
			logging.Tick(tick.Counter),
			logging.Duration(time.Since(start)),
		)
	}
}

func (e *Engine) fail(ctx context.Context, h *hosted, tick timer.Tick, err error) {
	h.stats.failed.Add(1)
	h.stats.mu.Lock()
	h.stats.lastError = err.Error()
	h.stats.mu.Unlock()

	metrics.ExchangesTotal.WithLabelValues(h.route.ID(), metrics.StatusFailed).Inc()
	log := e.logger.WithContext(ctx)
	if exchange.FromContext(ctx) == nil {
		log = log.With(logging.RouteID(h.route.ID()))
	}
	log.Error("Exchange failed",
		logging.Tick(tick.Counter),
		logging.Error(err),
	)
}
