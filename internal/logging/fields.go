// Package logging provides the structured logger and field helpers shared by all relay packages.
package logging

import (
	"log/slog"
	"time"
)

// Common field names for consistent logging.
const (
	FieldService    = "service"
	FieldRouteID    = "route_id"
	FieldExchangeID = "exchange_id"
	FieldEndpoint   = "endpoint"
	FieldStep       = "step"
	FieldLogger     = "logger"
	FieldBody       = "body"
	FieldHeaders    = "headers"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldTick       = "tick"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// RouteID returns a slog attribute for the route id.
func RouteID(id string) slog.Attr {
	return slog.String(FieldRouteID, id)
}

// ExchangeID returns a slog attribute for the exchange id.
func ExchangeID(id string) slog.Attr {
	return slog.String(FieldExchangeID, id)
}

// Endpoint returns a slog attribute for an endpoint uri.
func Endpoint(uri string) slog.Attr {
	return slog.String(FieldEndpoint, uri)
}

// Step returns a slog attribute for a pipeline step index.
func Step(i int) slog.Attr {
	return slog.Int(FieldStep, i)
}

// Tick returns a slog attribute for the timer counter.
func Tick(n int64) slog.Attr {
	return slog.Int64(FieldTick, n)
}

// Duration returns a slog attribute for a duration in milliseconds.
func Duration(d time.Duration) slog.Attr {
	return slog.Int64(FieldDuration, d.Milliseconds())
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}
