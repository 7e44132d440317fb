// Package resource locates named resources such as XSLT stylesheets.
//
// Names are looked up in order across the configured directories and then the
// resources embedded in the binary. A "file:" prefix bypasses the search and
// reads the path from disk; a "classpath:" prefix is accepted and ignored.
package resource

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
)

// ErrNotFound is returned when no location holds the named resource.
var ErrNotFound = errors.New("resource not found")

// Resolver loads a resource by name.
type Resolver interface {
	Load(name string) ([]byte, error)
}

// Chain searches a list of filesystems in order.
type Chain struct {
	sources []fs.FS
}

// NewChain builds a resolver over the given filesystems.
func NewChain(sources ...fs.FS) *Chain {
	return &Chain{sources: sources}
}

// NewDirChain builds a resolver over dirs followed by extra filesystems.
func NewDirChain(dirs []string, extra ...fs.FS) *Chain {
	sources := make([]fs.FS, 0, len(dirs)+len(extra))
	for _, d := range dirs {
		if d == "" {
			continue
		}
		sources = append(sources, os.DirFS(d))
	}
	return NewChain(append(sources, extra...)...)
}

// Load returns the bytes of the named resource.
func (c *Chain) Load(name string) ([]byte, error) {
	if p, ok := strings.CutPrefix(name, "file:"); ok {
		data, err := os.ReadFile(p)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return data, nil
	}

	clean := path.Clean(strings.TrimPrefix(strings.TrimPrefix(name, "classpath:"), "/"))
	if !fs.ValidPath(clean) || clean == "." {
		return nil, fmt.Errorf("%w: invalid name %q", ErrNotFound, name)
	}

	if c != nil {
		for _, src := range c.sources {
			data, err := fs.ReadFile(src, clean)
			if err == nil {
				return data, nil
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read %s: %w", name, err)
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}
