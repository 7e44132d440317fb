// Package sink delivers the final exchange of a route pass to an observer.
package sink

import (
	"context"

	"github.com/telhawk-systems/telhawk-relay/internal/exchange"
)

// Sink records an exchange. Sinks never modify the exchange.
type Sink interface {
	Send(ctx context.Context, ex *exchange.Exchange) error
	Type() string
}
