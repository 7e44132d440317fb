// Package exchange defines the event that flows through a route.
package exchange

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
)

// Header names set by the timer source on every new exchange.
const (
	HeaderTimerName      = "RelayTimerName"
	HeaderTimerFiredTime = "RelayTimerFiredTime"
	HeaderTimerPeriod    = "RelayTimerPeriod"
	HeaderTimerCounter   = "RelayTimerCounter"
)

// Exchange carries one event through a single pass of a route.
type Exchange struct {
	ID        string            `json:"id"`
	RouteID   string            `json:"route_id"`
	Body      []byte            `json:"body"`
	Headers   map[string]string `json:"headers,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// New creates an exchange for the given route with a fresh UUIDv7 id.
func New(routeID string) (*Exchange, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate exchange id: %w", err)
	}
	return &Exchange{
		ID:        id.String(),
		RouteID:   routeID,
		Headers:   make(map[string]string),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// SetBody replaces the body with a copy of b.
func (e *Exchange) SetBody(b []byte) {
	if b == nil {
		e.Body = nil
		return
	}
	e.Body = append(make([]byte, 0, len(b)), b...)
}

// SetHeader sets a header, allocating the map if needed.
func (e *Exchange) SetHeader(key, value string) {
	if e.Headers == nil {
		e.Headers = make(map[string]string)
	}
	e.Headers[key] = value
}

// Header returns a header value or "".
func (e *Exchange) Header(key string) string {
	return e.Headers[key]
}

// Clone returns a deep copy.
func (e *Exchange) Clone() *Exchange {
	if e == nil {
		return nil
	}
	c := *e
	c.SetBody(e.Body)
	c.Headers = maps.Clone(e.Headers)
	return &c
}

type contextKey string

const exchangeKey = contextKey("exchange")

// WithContext stores the exchange in ctx.
func WithContext(ctx context.Context, e *Exchange) context.Context {
	return context.WithValue(ctx, exchangeKey, e)
}

// FromContext returns the exchange stored in ctx, or nil.
func FromContext(ctx context.Context) *Exchange {
	if e, ok := ctx.Value(exchangeKey).(*Exchange); ok {
		return e
	}
	return nil
}
