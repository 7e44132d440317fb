// Package endpoint parses endpoint URIs of the form scheme:path?option=value.
package endpoint

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidURI is returned for URIs that cannot be parsed or carry bad options.
var ErrInvalidURI = errors.New("invalid endpoint uri")

// URI is a parsed endpoint reference such as "timer:tick?period=1s".
type URI struct {
	Scheme  string
	Path    string
	Options url.Values
	raw     string
}

// Parse splits raw into scheme, path and options.
func Parse(raw string) (URI, error) {
	raw = strings.TrimSpace(raw)
	scheme, rest, ok := strings.Cut(raw, ":")
	if !ok || scheme == "" {
		return URI{}, fmt.Errorf("%w: %q has no scheme", ErrInvalidURI, raw)
	}
	for _, r := range scheme {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-') {
			return URI{}, fmt.Errorf("%w: %q has illegal scheme", ErrInvalidURI, raw)
		}
	}

	path, query, _ := strings.Cut(rest, "?")
	path = strings.TrimPrefix(path, "//")
	if path == "" {
		return URI{}, fmt.Errorf("%w: %q has no path", ErrInvalidURI, raw)
	}

	opts, err := url.ParseQuery(query)
	if err != nil {
		return URI{}, fmt.Errorf("%w: %q: %v", ErrInvalidURI, raw, err)
	}

	return URI{Scheme: scheme, Path: path, Options: opts, raw: raw}, nil
}

// MustParse is Parse that panics on error. Use for constants only.
func MustParse(raw string) URI {
	u, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return u
}

// String returns the URI as it was written.
func (u URI) String() string {
	if u.raw != "" {
		return u.raw
	}
	s := u.Scheme + ":" + u.Path
	if len(u.Options) > 0 {
		s += "?" + u.Options.Encode()
	}
	return s
}

// Option returns the raw option value or "".
func (u URI) Option(name string) string {
	return u.Options.Get(name)
}

// Duration reads a duration option. Bare integers are milliseconds.
func (u URI) Duration(name string, def time.Duration) (time.Duration, error) {
	v := u.Option(name)
	if v == "" {
		return def, nil
	}
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%w: option %s=%q is not a duration", ErrInvalidURI, name, v)
	}
	return d, nil
}

// Int reads an integer option.
func (u URI) Int(name string, def int64) (int64, error) {
	v := u.Option(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: option %s=%q is not an integer", ErrInvalidURI, name, v)
	}
	return n, nil
}

// Bool reads a boolean option.
func (u URI) Bool(name string, def bool) (bool, error) {
	v := u.Option(name)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: option %s=%q is not a boolean", ErrInvalidURI, name, v)
	}
	return b, nil
}

// RequireKnown fails if the URI carries options outside known.
func (u URI) RequireKnown(known ...string) error {
	var unknown []string
	for k := range u.Options {
		if !slices.Contains(known, k) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return fmt.Errorf("%w: %s: unknown options %s", ErrInvalidURI, u.String(), strings.Join(unknown, ", "))
	}
	return nil
}
