package route

import (
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/telhawk-systems/telhawk-relay/internal/endpoint"
	"github.com/telhawk-systems/telhawk-relay/internal/logging"
	"github.com/telhawk-systems/telhawk-relay/internal/messaging"
	"github.com/telhawk-systems/telhawk-relay/internal/resource"
	"github.com/telhawk-systems/telhawk-relay/internal/sink"
	"github.com/telhawk-systems/telhawk-relay/internal/transform/xslt"
)

// ErrUnknownComponent is returned when no component handles an endpoint scheme.
var ErrUnknownComponent = errors.New("no component for endpoint")

// Component turns endpoints of one scheme into processors.
type Component interface {
	Supports(scheme string) bool
	Processor(u endpoint.URI) (Processor, error)
}

// FactoryFunc creates a processor for an endpoint.
type FactoryFunc func(u endpoint.URI) (Processor, error)

type component struct {
	scheme  string
	factory FactoryFunc
}

// NewComponent registers factory for scheme.
func NewComponent(scheme string, factory FactoryFunc) Component {
	return component{scheme: scheme, factory: factory}
}

func (c component) Supports(scheme string) bool {
	return scheme == c.scheme
}

func (c component) Processor(u endpoint.URI) (Processor, error) {
	return c.factory(u)
}

// Registry holds ordered components; the first match wins.
type Registry struct {
	items []Component
}

// NewRegistry constructs a registry with the provided components.
func NewRegistry(items ...Component) *Registry {
	return &Registry{items: items}
}

// Register appends components.
func (r *Registry) Register(items ...Component) {
	r.items = append(r.items, items...)
}

// Find returns the first component supporting scheme, or nil.
func (r *Registry) Find(scheme string) Component {
	if r == nil {
		return nil
	}
	for _, c := range r.items {
		if c.Supports(scheme) {
			return c
		}
	}
	return nil
}

// Processor resolves an endpoint to a processor.
func (r *Registry) Processor(u endpoint.URI) (Processor, error) {
	c := r.Find(u.Scheme)
	if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownComponent, u.String())
	}
	return c.Processor(u)
}

// XSLTComponent handles "xslt:" endpoints.
func XSLTComponent(resolver resource.Resolver, engine xslt.Engine) Component {
	return NewComponent(xslt.Scheme, func(u endpoint.URI) (Processor, error) {
		t, err := xslt.FromURI(u, resolver, engine)
		if err != nil {
			return nil, err
		}
		return NewTransformProcessor(t), nil
	})
}

// LogComponent handles "log:" endpoints.
func LogComponent(logger *logging.Logger) Component {
	return NewComponent(sink.LogScheme, func(u endpoint.URI) (Processor, error) {
		s, err := sink.LogSinkFromURI(u, logger)
		if err != nil {
			return nil, err
		}
		return NewSinkProcessor(s), nil
	})
}

// NATSComponent handles "nats:" endpoints.
func NATSComponent(publisher messaging.Publisher) Component {
	return NewComponent(sink.NATSScheme, func(u endpoint.URI) (Processor, error) {
		s, err := sink.NATSSinkFromURI(u, publisher)
		if err != nil {
			return nil, err
		}
		return NewSinkProcessor(s), nil
	})
}

// RedisComponent handles "redis:" endpoints.
func RedisComponent(client redis.Cmdable) Component {
	return NewComponent(sink.RedisScheme, func(u endpoint.URI) (Processor, error) {
		s, err := sink.RedisSinkFromURI(u, client)
		if err != nil {
			return nil, err
		}
		return NewSinkProcessor(s), nil
	})
}

// DefaultRegistry wires the xslt and log components. Broker sinks are added
// by the caller when their clients are configured.
func DefaultRegistry(logger *logging.Logger, resolver resource.Resolver) *Registry {
	return NewRegistry(
		XSLTComponent(resolver, xslt.DefaultEngine()),
		LogComponent(logger),
	)
}
