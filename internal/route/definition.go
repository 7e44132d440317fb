// Package route declares routes and compiles them into runnable pipelines.
//
// A route is plain data: a timer endpoint that starts each pass and an ordered
// list of steps. Steps either replace the body with a constant or send the
// exchange to an endpoint ("xslt:...", "log:...", "nats:...", "redis:...").
package route

import (
	"errors"
	"fmt"

	"github.com/telhawk-systems/telhawk-relay/internal/endpoint"
	"github.com/telhawk-systems/telhawk-relay/internal/timer"
)

// ErrInvalidDefinition is returned by Validate.
var ErrInvalidDefinition = errors.New("invalid route definition")

// StepKind tells what a step does.
type StepKind string

const (
	StepSetBody StepKind = "set_body"
	StepTo      StepKind = "to"
)

// Step is one entry of a route.
type Step struct {
	Kind StepKind `json:"kind" yaml:"kind"`
	Body []byte   `json:"body,omitempty" yaml:"body,omitempty"`
	URI  string   `json:"uri,omitempty" yaml:"uri,omitempty"`
}

// SetBodyStep replaces the body with a constant.
func SetBodyStep(body []byte) Step {
	return Step{Kind: StepSetBody, Body: body}
}

// ToStep sends the exchange to an endpoint.
func ToStep(uri string) Step {
	return Step{Kind: StepTo, URI: uri}
}

// String renders the step the way it appears in route listings.
func (s Step) String() string {
	switch s.Kind {
	case StepSetBody:
		return fmt.Sprintf("setBody(constant, %d bytes)", len(s.Body))
	case StepTo:
		return "to(" + s.URI + ")"
	default:
		return string(s.Kind)
	}
}

// Definition declares a route.
type Definition struct {
	ID    string `json:"id" yaml:"id"`
	From  string `json:"from" yaml:"from"`
	Steps []Step `json:"steps" yaml:"steps"`
}

// Validate checks the shape of the definition. Endpoint options are checked
// later, by Compile.
func (d Definition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidDefinition)
	}
	from, err := endpoint.Parse(d.From)
	if err != nil {
		return fmt.Errorf("%w: route %s: from: %w", ErrInvalidDefinition, d.ID, err)
	}
	if from.Scheme != timer.Scheme {
		return fmt.Errorf("%w: route %s: from must be a %s endpoint, got %q", ErrInvalidDefinition, d.ID, timer.Scheme, d.From)
	}
	if len(d.Steps) == 0 {
		return fmt.Errorf("%w: route %s: no steps", ErrInvalidDefinition, d.ID)
	}
	for i, s := range d.Steps {
		switch s.Kind {
		case StepSetBody:
			if s.URI != "" {
				return fmt.Errorf("%w: route %s: step %d: set_body cannot have a uri", ErrInvalidDefinition, d.ID, i)
			}
		case StepTo:
			if _, err := endpoint.Parse(s.URI); err != nil {
				return fmt.Errorf("%w: route %s: step %d: %w", ErrInvalidDefinition, d.ID, i, err)
			}
		default:
			return fmt.Errorf("%w: route %s: step %d: unknown kind %q", ErrInvalidDefinition, d.ID, i, s.Kind)
		}
	}
	return nil
}

// Builder assembles a Definition fluently.
type Builder struct {
	def Definition
}

// From starts a route triggered by the given timer endpoint.
func From(uri string) *Builder {
	return &Builder{def: Definition{ID: endpointPath(uri), From: uri}}
}

// RouteID sets the route id. It defaults to the timer name.
func (b *Builder) RouteID(id string) *Builder {
	b.def.ID = id
	return b
}

// SetBody appends a constant body step.
func (b *Builder) SetBody(body []byte) *Builder {
	b.def.Steps = append(b.def.Steps, SetBodyStep(body))
	return b
}

// To appends an endpoint step.
func (b *Builder) To(uri string) *Builder {
	b.def.Steps = append(b.def.Steps, ToStep(uri))
	return b
}

// Build validates and returns the definition.
func (b *Builder) Build() (Definition, error) {
	if err := b.def.Validate(); err != nil {
		return Definition{}, err
	}
	return b.def, nil
}

// MustBuild is Build that panics on error.
func (b *Builder) MustBuild() Definition {
	d, err := b.Build()
	if err != nil {
		panic(err)
	}
	return d
}

func endpointPath(uri string) string {
	u, err := endpoint.Parse(uri)
	if err != nil {
		return ""
	}
	return u.Path
}
