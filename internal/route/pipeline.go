package route

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/telhawk-systems/telhawk-relay/internal/exchange"
	"github.com/telhawk-systems/telhawk-relay/internal/metrics"
)

// ErrPipelineNotConfigured is returned when Process is called on a nil pipeline.
var ErrPipelineNotConfigured = errors.New("pipeline not configured")

type stage struct {
	processor Processor
	label     string
}

// Pipeline runs processors in strict order.
type Pipeline struct {
	routeID string
	stages  []stage
}

// NewPipeline creates a pipeline; labels[i] names processors[i] in errors.
func NewPipeline(routeID string, processors []Processor, labels []string) *Pipeline {
	stages := make([]stage, len(processors))
	for i, p := range processors {
		label := p.Kind()
		if i < len(labels) && labels[i] != "" {
			label = labels[i]
		}
		stages[i] = stage{processor: p, label: label}
	}
	return &Pipeline{routeID: routeID, stages: stages}
}

// Len returns the number of steps.
func (p *Pipeline) Len() int {
	if p == nil {
		return 0
	}
	return len(p.stages)
}

// Process runs every step against ex and stops at the first failure.
func (p *Pipeline) Process(ctx context.Context, ex *exchange.Exchange) error {
	if p == nil {
		return ErrPipelineNotConfigured
	}
	if ex == nil {
		return errors.New("nil exchange")
	}

	for i, s := range p.stages {
		kind := s.processor.Kind()
		start := time.Now()
		err := s.processor.Process(ctx, ex)
		metrics.StepDuration.WithLabelValues(p.routeID, kind).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.StepErrors.WithLabelValues(p.routeID, kind).Inc()
			return fmt.Errorf("step %d %s: %w", i, s.label, err)
		}
	}
	return nil
}

// Close releases resources held by the steps.
func (p *Pipeline) Close() {
	if p == nil {
		return
	}
	for _, s := range p.stages {
		if c, ok := s.processor.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
