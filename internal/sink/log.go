package sink

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/telhawk-systems/telhawk-relay/internal/endpoint"
	"github.com/telhawk-systems/telhawk-relay/internal/exchange"
	"github.com/telhawk-systems/telhawk-relay/internal/logging"
)

// LogScheme is the endpoint scheme of the log sink.
const LogScheme = "log"

// LogSink writes one structured record per exchange.
type LogSink struct {
	logger      *logging.Logger
	name        string
	level       slog.Level
	showBody    bool
	showHeaders bool
}

// NewLogSink creates a log sink writing through logger under the given logger name.
func NewLogSink(logger *logging.Logger, name string, level slog.Level) *LogSink {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogSink{
		logger:   logger.With(slog.String(logging.FieldLogger, name)),
		name:     name,
		level:    level,
		showBody: true,
	}
}

// LogSinkFromURI builds a log sink from "log:<name>?level=info&showHeaders=true&showBody=false".
func LogSinkFromURI(u endpoint.URI, logger *logging.Logger) (*LogSink, error) {
	if u.Scheme != LogScheme {
		return nil, fmt.Errorf("%w: expected %s scheme, got %q", endpoint.ErrInvalidURI, LogScheme, u.Scheme)
	}
	if err := u.RequireKnown("level", "showBody", "showHeaders"); err != nil {
		return nil, err
	}
	level := slog.LevelInfo
	if v := u.Option("level"); v != "" {
		if err := level.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("%w: option level=%q", endpoint.ErrInvalidURI, v)
		}
	}
	showBody, err := u.Bool("showBody", true)
	if err != nil {
		return nil, err
	}
	showHeaders, err := u.Bool("showHeaders", false)
	if err != nil {
		return nil, err
	}

	s := NewLogSink(logger, u.Path, level)
	s.showBody = showBody
	s.showHeaders = showHeaders
	return s, nil
}

// Type returns "log".
func (s *LogSink) Type() string {
	return LogScheme
}

// Send logs the exchange.
func (s *LogSink) Send(ctx context.Context, ex *exchange.Exchange) error {
	if ex == nil {
		return fmt.Errorf("log sink %s: nil exchange", s.name)
	}
	attrs := []any{
		logging.RouteID(ex.RouteID),
		logging.ExchangeID(ex.ID),
	}
	if s.showBody {
		attrs = append(attrs, slog.String(logging.FieldBody, string(ex.Body)))
	}
	if s.showHeaders && len(ex.Headers) > 0 {
		group := make([]any, 0, len(ex.Headers))
		for _, k := range slices.Sorted(maps.Keys(ex.Headers)) {
			group = append(group, slog.String(k, ex.Headers[k]))
		}
		attrs = append(attrs, slog.Group(logging.FieldHeaders, group...))
	}
	s.logger.Log(ctx, s.level, "Exchange", attrs...)
	return nil
}
