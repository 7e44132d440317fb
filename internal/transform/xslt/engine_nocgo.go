//go:build !cgo

package xslt

// DefaultEngine returns an engine that always fails; libxslt needs cgo.
func DefaultEngine() Engine {
	return unavailableEngine{}
}

type unavailableEngine struct{}

func (unavailableEngine) Compile([]byte) (Stylesheet, error) {
	return nil, ErrEngineUnavailable
}
