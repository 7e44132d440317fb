// Package timer provides the periodic trigger that starts every route pass.
package timer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/telhawk-systems/telhawk-relay/internal/endpoint"
)

// Scheme is the endpoint scheme handled by this package.
const Scheme = "timer"

// DefaultPeriod is used when the URI has no period option.
const DefaultPeriod = time.Second

var (
	ErrAlreadyRunning = errors.New("timer already running")
	ErrNotRunning     = errors.New("timer not running")
)

// Config configures a timer.
type Config struct {
	Name        string
	Period      time.Duration
	Delay       time.Duration
	RepeatCount int64
}

// Tick describes one firing.
type Tick struct {
	Name    string
	Counter int64
	FiredAt time.Time
	Period  time.Duration
}

// FireFunc handles a tick. Ticks are delivered one at a time.
type FireFunc func(ctx context.Context, tick Tick)

// ParseConfig builds a Config from a timer endpoint such as "timer:tick?period=1s".
func ParseConfig(u endpoint.URI) (Config, error) {
	if u.Scheme != Scheme {
		return Config{}, fmt.Errorf("%w: expected %s scheme, got %q", endpoint.ErrInvalidURI, Scheme, u.Scheme)
	}
	if err := u.RequireKnown("period", "delay", "repeatCount"); err != nil {
		return Config{}, err
	}

	period, err := u.Duration("period", DefaultPeriod)
	if err != nil {
		return Config{}, err
	}
	if period <= 0 {
		return Config{}, fmt.Errorf("%w: period must be positive, got %s", endpoint.ErrInvalidURI, period)
	}

	delay, err := u.Duration("delay", 0)
	if err != nil {
		return Config{}, err
	}
	if delay < 0 {
		return Config{}, fmt.Errorf("%w: delay must not be negative", endpoint.ErrInvalidURI)
	}

	repeat, err := u.Int("repeatCount", 0)
	if err != nil {
		return Config{}, err
	}
	if repeat < 0 {
		return Config{}, fmt.Errorf("%w: repeatCount must not be negative", endpoint.ErrInvalidURI)
	}

	return Config{Name: u.Path, Period: period, Delay: delay, RepeatCount: repeat}, nil
}

// Timer fires a FireFunc on a fixed period.
type Timer struct {
	mu       sync.Mutex
	cfg      Config
	fire     FireFunc
	running  bool
	stopChan chan struct{}
	done     chan struct{}
	wg       sync.WaitGroup
	counter  atomic.Int64
}

// New creates a timer. It does nothing until Start.
func New(cfg Config, fire FireFunc) *Timer {
	if cfg.Period <= 0 {
		cfg.Period = DefaultPeriod
	}
	done := make(chan struct{})
	close(done)
	return &Timer{cfg: cfg, fire: fire, done: done}
}

// Config returns the timer configuration.
func (t *Timer) Config() Config {
	return t.cfg
}

// Fired returns how many ticks have been delivered since the last Start.
func (t *Timer) Fired() int64 {
	return t.counter.Load()
}

// Start begins firing in a background goroutine.
func (t *Timer) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return ErrAlreadyRunning
	}
	t.running = true
	t.stopChan = make(chan struct{})
	t.done = make(chan struct{})
	t.counter.Store(0)

	t.wg.Add(1)
	go t.run(ctx, t.stopChan, t.done)
	return nil
}

// Stop halts the timer and waits for an in-flight tick to finish.
func (t *Timer) Stop() error {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return ErrNotRunning
	}
	t.running = false
	close(t.stopChan)
	t.mu.Unlock()

	t.wg.Wait()
	return nil
}

// Done is closed once the timer stops firing, either because the repeat
// count was reached, the context ended or Stop was called.
func (t *Timer) Done() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

func (t *Timer) run(ctx context.Context, stop <-chan struct{}, done chan struct{}) {
	defer t.wg.Done()
	defer close(done)

	if t.cfg.Delay > 0 {
		delay := time.NewTimer(t.cfg.Delay)
		select {
		case <-ctx.Done():
			delay.Stop()
			return
		case <-stop:
			delay.Stop()
			return
		case <-delay.C:
		}
	}

	ticker := time.NewTicker(t.cfg.Period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case now := <-ticker.C:
			n := t.counter.Add(1)
			t.fire(ctx, Tick{Name: t.cfg.Name, Counter: n, FiredAt: now.UTC(), Period: t.cfg.Period})
			if t.cfg.RepeatCount > 0 && n >= t.cfg.RepeatCount {
				return
			}
		}
	}
}
