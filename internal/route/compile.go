package route

import (
	"fmt"

	"github.com/telhawk-systems/telhawk-relay/internal/endpoint"
	"github.com/telhawk-systems/telhawk-relay/internal/timer"
)

// Route is a compiled definition, ready to be hosted by the engine.
type Route struct {
	Definition Definition
	Timer      timer.Config
	Pipeline   *Pipeline
}

// ID returns the route id.
func (r *Route) ID() string {
	return r.Definition.ID
}

// Close releases resources held by the pipeline steps.
func (r *Route) Close() {
	if r == nil {
		return
	}
	r.Pipeline.Close()
}

// Compile validates def and resolves every endpoint step through reg.
func Compile(def Definition, reg *Registry) (*Route, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	from, err := endpoint.Parse(def.From)
	if err != nil {
		return nil, err
	}
	timerCfg, err := timer.ParseConfig(from)
	if err != nil {
		return nil, fmt.Errorf("route %s: %w", def.ID, err)
	}

	processors := make([]Processor, 0, len(def.Steps))
	labels := make([]string, 0, len(def.Steps))
	closeAll := func() {
		NewPipeline(def.ID, processors, nil).Close()
	}

	for i, s := range def.Steps {
		var p Processor
		switch s.Kind {
		case StepSetBody:
			p = NewSetBodyProcessor(s.Body)
		case StepTo:
			u, err := endpoint.Parse(s.URI)
			if err != nil {
				closeAll()
				return nil, fmt.Errorf("route %s: step %d: %w", def.ID, i, err)
			}
			p, err = reg.Processor(u)
			if err != nil {
				closeAll()
				return nil, fmt.Errorf("route %s: step %d: %w", def.ID, i, err)
			}
		}
		processors = append(processors, p)
		labels = append(labels, s.String())
	}

	return &Route{
		Definition: def,
		Timer:      timerCfg,
		Pipeline:   NewPipeline(def.ID, processors, labels),
	}, nil
}

// CompileAll compiles every definition. On error the routes compiled so far are closed.
func CompileAll(defs []Definition, reg *Registry) ([]*Route, error) {
	routes := make([]*Route, 0, len(defs))
	seen := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		if _, dup := seen[def.ID]; dup {
			closeRoutes(routes)
			return nil, fmt.Errorf("%w: duplicate route id %q", ErrInvalidDefinition, def.ID)
		}
		seen[def.ID] = struct{}{}

		r, err := Compile(def, reg)
		if err != nil {
			closeRoutes(routes)
			return nil, err
		}
		routes = append(routes, r)
	}
	return routes, nil
}

func closeRoutes(routes []*Route) {
	for _, r := range routes {
		r.Close()
	}
}
