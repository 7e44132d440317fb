package route

import (
	"context"
	"fmt"

	"github.com/telhawk-systems/telhawk-relay/internal/exchange"
	"github.com/telhawk-systems/telhawk-relay/internal/sink"
	"github.com/telhawk-systems/telhawk-relay/internal/transform"
)

// Processor kinds, used as metric labels.
const (
	KindSetBody   = "set_body"
	KindTransform = "transform"
	KindSink      = "sink"
)

// Processor is one executable step of a pipeline.
type Processor interface {
	Process(ctx context.Context, ex *exchange.Exchange) error
	Kind() string
}

// SetBodyProcessor replaces the body with a copy of a constant.
type SetBodyProcessor struct {
	body []byte
}

// NewSetBodyProcessor copies body so the caller can't change it afterwards.
func NewSetBodyProcessor(body []byte) *SetBodyProcessor {
	return &SetBodyProcessor{body: append([]byte(nil), body...)}
}

func (p *SetBodyProcessor) Kind() string { return KindSetBody }

func (p *SetBodyProcessor) Process(_ context.Context, ex *exchange.Exchange) error {
	ex.SetBody(p.body)
	return nil
}

// TransformProcessor replaces the body with the transformer's output.
type TransformProcessor struct {
	transformer transform.Transformer
}

// NewTransformProcessor wraps t.
func NewTransformProcessor(t transform.Transformer) *TransformProcessor {
	return &TransformProcessor{transformer: t}
}

func (p *TransformProcessor) Kind() string { return KindTransform }

func (p *TransformProcessor) Process(ctx context.Context, ex *exchange.Exchange) error {
	out, err := p.transformer.Transform(ctx, ex.Body)
	if err != nil {
		return err
	}
	ex.Body = out
	return nil
}

// Close closes the transformer if it holds resources.
func (p *TransformProcessor) Close() {
	if c, ok := p.transformer.(interface{ Close() }); ok {
		c.Close()
	}
}

// SinkProcessor hands the exchange to a sink.
type SinkProcessor struct {
	sink sink.Sink
}

// NewSinkProcessor wraps s.
func NewSinkProcessor(s sink.Sink) *SinkProcessor {
	return &SinkProcessor{sink: s}
}

func (p *SinkProcessor) Kind() string { return KindSink }

func (p *SinkProcessor) Process(ctx context.Context, ex *exchange.Exchange) error {
	if err := p.sink.Send(ctx, ex); err != nil {
		return fmt.Errorf("%s sink: %w", p.sink.Type(), err)
	}
	return nil
}
