package sink

import (
	"context"
	"fmt"
	"maps"

	"github.com/telhawk-systems/telhawk-relay/internal/endpoint"
	"github.com/telhawk-systems/telhawk-relay/internal/exchange"
	"github.com/telhawk-systems/telhawk-relay/internal/messaging"
)

// NATSScheme is the endpoint scheme of the NATS sink.
const NATSScheme = "nats"

// Headers added to every published message besides the exchange headers.
const (
	HeaderExchangeID = "RelayExchangeId"
	HeaderRouteID    = "RelayRouteId"
)

// NATSSink publishes the exchange body to a subject.
type NATSSink struct {
	publisher messaging.Publisher
	subject   string
}

// NewNATSSink creates a NATS sink.
func NewNATSSink(publisher messaging.Publisher, subject string) *NATSSink {
	return &NATSSink{publisher: publisher, subject: subject}
}

// NATSSinkFromURI builds a NATS sink from "nats:<subject>".
func NATSSinkFromURI(u endpoint.URI, publisher messaging.Publisher) (*NATSSink, error) {
	if u.Scheme != NATSScheme {
		return nil, fmt.Errorf("%w: expected %s scheme, got %q", endpoint.ErrInvalidURI, NATSScheme, u.Scheme)
	}
	if err := u.RequireKnown(); err != nil {
		return nil, err
	}
	if publisher == nil {
		return nil, fmt.Errorf("nats sink %s: nats is not configured", u.Path)
	}
	return NewNATSSink(publisher, u.Path), nil
}

// Type returns "nats".
func (s *NATSSink) Type() string {
	return NATSScheme
}

// Send publishes the body with the exchange headers.
func (s *NATSSink) Send(ctx context.Context, ex *exchange.Exchange) error {
	if ex == nil {
		return fmt.Errorf("nats sink %s: nil exchange", s.subject)
	}
	meta := maps.Clone(ex.Headers)
	if meta == nil {
		meta = make(map[string]string, 2)
	}
	meta[HeaderExchangeID] = ex.ID
	meta[HeaderRouteID] = ex.RouteID

	msg := &messaging.Message{
		Subject:   s.subject,
		Data:      ex.Body,
		Metadata:  meta,
		Timestamp: ex.CreatedAt,
	}
	if err := s.publisher.PublishMsg(ctx, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", s.subject, err)
	}
	return nil
}
