// Package xslt applies XSLT stylesheets to exchange bodies.
package xslt

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/telhawk-systems/telhawk-relay/internal/endpoint"
	"github.com/telhawk-systems/telhawk-relay/internal/resource"
)

// Scheme is the endpoint scheme handled by this package.
const Scheme = "xslt"

var (
	// ErrMalformedInput is returned when the body is not well-formed XML.
	ErrMalformedInput = errors.New("input is not well-formed xml")
	// ErrEngineUnavailable is returned when the binary was built without an XSLT engine.
	ErrEngineUnavailable = errors.New("xslt engine unavailable")
)

// Engine compiles stylesheets.
type Engine interface {
	Compile(stylesheet []byte) (Stylesheet, error)
}

// Stylesheet is a compiled stylesheet.
type Stylesheet interface {
	Transform(doc []byte) ([]byte, error)
	Close()
}

// Transformer resolves, compiles and applies one named stylesheet.
type Transformer struct {
	name         string
	resolver     resource.Resolver
	engine       Engine
	contentCache bool

	mu       sync.Mutex
	compiled Stylesheet
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithContentCache controls whether the compiled stylesheet is kept between calls.
func WithContentCache(enabled bool) Option {
	return func(t *Transformer) {
		t.contentCache = enabled
	}
}

// New creates a transformer for the named stylesheet. The stylesheet is not
// loaded until the first Transform call, so a missing resource surfaces per call.
func New(name string, resolver resource.Resolver, engine Engine, opts ...Option) *Transformer {
	if engine == nil {
		engine = DefaultEngine()
	}
	t := &Transformer{
		name:         name,
		resolver:     resolver,
		engine:       engine,
		contentCache: true,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// FromURI builds a transformer from an endpoint such as "xslt:xslt/cheese.xsl".
func FromURI(u endpoint.URI, resolver resource.Resolver, engine Engine) (*Transformer, error) {
	if u.Scheme != Scheme {
		return nil, fmt.Errorf("%w: expected %s scheme, got %q", endpoint.ErrInvalidURI, Scheme, u.Scheme)
	}
	if err := u.RequireKnown("contentCache"); err != nil {
		return nil, err
	}
	cache, err := u.Bool("contentCache", true)
	if err != nil {
		return nil, err
	}
	return New(u.Path, resolver, engine, WithContentCache(cache)), nil
}

// Name returns the stylesheet resource name.
func (t *Transformer) Name() string {
	return t.name
}

// Transform applies the stylesheet to input.
func (t *Transformer) Transform(ctx context.Context, input []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := CheckWellFormed(input); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	sheet, err := t.stylesheet()
	if err != nil {
		return nil, err
	}
	if !t.contentCache {
		defer sheet.Close()
	}

	out, err := sheet.Transform(input)
	if err != nil {
		return nil, fmt.Errorf("apply stylesheet %s: %w", t.name, err)
	}
	return out, nil
}

// Close releases the cached stylesheet.
func (t *Transformer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.compiled != nil {
		t.compiled.Close()
		t.compiled = nil
	}
}

// stylesheet returns the compiled stylesheet; t.mu must be held.
func (t *Transformer) stylesheet() (Stylesheet, error) {
	if t.compiled != nil {
		return t.compiled, nil
	}
	if t.resolver == nil {
		return nil, fmt.Errorf("load stylesheet %s: %w", t.name, resource.ErrNotFound)
	}

	src, err := t.resolver.Load(t.name)
	if err != nil {
		return nil, fmt.Errorf("load stylesheet %s: %w", t.name, err)
	}
	sheet, err := t.engine.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("compile stylesheet %s: %w", t.name, err)
	}
	if t.contentCache {
		t.compiled = sheet
	}
	return sheet, nil
}

// CheckWellFormed reports ErrMalformedInput unless doc is a well-formed XML document.
func CheckWellFormed(doc []byte) error {
	d := xml.NewDecoder(bytes.NewReader(doc))
	d.Strict = true
	d.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) { return r, nil }

	roots := 0
	depth := 0
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		switch v := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
			}
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(v)) > 0 {
				return fmt.Errorf("%w: text outside root element", ErrMalformedInput)
			}
		}
	}
	if roots != 1 {
		return fmt.Errorf("%w: expected one root element, found %d", ErrMalformedInput, roots)
	}
	return nil
}
