package route_test

import (
	"context"
	"sync"

	"github.com/telhawk-systems/telhawk-relay/internal/endpoint"
	"github.com/telhawk-systems/telhawk-relay/internal/exchange"
	"github.com/telhawk-systems/telhawk-relay/internal/route"
	"github.com/telhawk-systems/telhawk-relay/internal/sink"
	"github.com/telhawk-systems/telhawk-relay/internal/transform/xslt"
)

// recordingSink keeps a snapshot of every exchange it receives.
type recordingSink struct {
	mu        sync.Mutex
	exchanges []*exchange.Exchange
	err       error
}

func (s *recordingSink) Send(_ context.Context, ex *exchange.Exchange) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exchanges = append(s.exchanges, ex.Clone())
	return nil
}

func (s *recordingSink) Type() string { return "mock" }

func (s *recordingSink) bodies() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.exchanges))
	for i, ex := range s.exchanges {
		out[i] = string(ex.Body)
	}
	return out
}

var _ sink.Sink = (*recordingSink)(nil)

func mockComponent(s sink.Sink) route.Component {
	return route.NewComponent("mock", func(endpoint.URI) (route.Processor, error) {
		return route.NewSinkProcessor(s), nil
	})
}

// copyEngine compiles every stylesheet to a copy transform and counts calls.
type copyEngine struct {
	mu       sync.Mutex
	compiles int
	inputs   [][]byte
	closed   int
}

func (e *copyEngine) Compile([]byte) (xslt.Stylesheet, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.compiles++
	return &copySheet{engine: e}, nil
}

type copySheet struct {
	engine *copyEngine
}

func (s *copySheet) Transform(doc []byte) ([]byte, error) {
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()
	s.engine.inputs = append(s.engine.inputs, append([]byte(nil), doc...))
	return append([]byte(nil), doc...), nil
}

func (s *copySheet) Close() {
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()
	s.engine.closed++
}
