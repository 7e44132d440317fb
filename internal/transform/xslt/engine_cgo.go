//go:build cgo

package xslt

import (
	goxslt "github.com/wamuir/go-xslt"
)

// DefaultEngine returns the libxslt engine.
func DefaultEngine() Engine {
	return libxsltEngine{}
}

type libxsltEngine struct{}

func (libxsltEngine) Compile(stylesheet []byte) (Stylesheet, error) {
	xs, err := goxslt.NewStylesheet(stylesheet)
	if err != nil {
		return nil, err
	}
	return &libxsltStylesheet{xs: xs}, nil
}

type libxsltStylesheet struct {
	xs *goxslt.Stylesheet
}

func (s *libxsltStylesheet) Transform(doc []byte) ([]byte, error) {
	return s.xs.Transform(doc)
}

func (s *libxsltStylesheet) Close() {
	s.xs.Close()
}
