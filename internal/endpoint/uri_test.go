package endpoint

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		scheme  string
		path    string
		options map[string]string
	}{
		{name: "timer", raw: "timer:tick?period=1s", scheme: "timer", path: "tick", options: map[string]string{"period": "1s"}},
		{name: "xslt resource path", raw: "xslt:xslt/cheese.xsl", scheme: "xslt", path: "xslt/cheese.xsl"},
		{name: "log", raw: "log:info", scheme: "log", path: "info"},
		{name: "double slash", raw: "nats://events.out", scheme: "nats", path: "events.out"},
		{name: "multiple options", raw: "log:audit?level=warn&showHeaders=true", scheme: "log", path: "audit", options: map[string]string{"level": "warn", "showHeaders": "true"}},
		{name: "surrounding whitespace", raw: "  log:info ", scheme: "log", path: "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.scheme, u.Scheme)
			assert.Equal(t, tt.path, u.Path)
			for k, v := range tt.options {
				assert.Equal(t, v, u.Option(k))
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, raw := range []string{"", "tick", ":tick", "timer:", "Timer:tick", "timer:?period=1s", "timer:tick?period=%zz"} {
		t.Run(raw, func(t *testing.T) {
			_, err := Parse(raw)
			assert.ErrorIs(t, err, ErrInvalidURI)
		})
	}
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("bogus") })
	assert.NotPanics(t, func() { MustParse("log:info") })
}

func TestString(t *testing.T) {
	assert.Equal(t, "timer:tick?period=1s", MustParse("timer:tick?period=1s").String())

	u := URI{Scheme: "log", Path: "info"}
	assert.Equal(t, "log:info", u.String())
}

func TestDuration(t *testing.T) {
	u := MustParse("timer:tick?period=1s&delay=250&bad=soon")

	d, err := u.Duration("period", 0)
	require.NoError(t, err)
	assert.Equal(t, time.Second, d)

	d, err = u.Duration("delay", 0)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, d)

	d, err = u.Duration("missing", 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, d)

	_, err = u.Duration("bad", 0)
	assert.ErrorIs(t, err, ErrInvalidURI)
}

func TestIntAndBool(t *testing.T) {
	u := MustParse("timer:tick?repeatCount=3&fixed=true&n=x&b=maybe")

	n, err := u.Int("repeatCount", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = u.Int("missing", 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	_, err = u.Int("n", 0)
	assert.ErrorIs(t, err, ErrInvalidURI)

	b, err := u.Bool("fixed", false)
	require.NoError(t, err)
	assert.True(t, b)

	b, err = u.Bool("missing", true)
	require.NoError(t, err)
	assert.True(t, b)

	_, err = u.Bool("b", false)
	assert.ErrorIs(t, err, ErrInvalidURI)
}

func TestRequireKnown(t *testing.T) {
	u := MustParse("timer:tick?period=1s&zeta=1&alpha=2")

	assert.NoError(t, u.RequireKnown("period", "zeta", "alpha"))

	err := u.RequireKnown("period")
	require.ErrorIs(t, err, ErrInvalidURI)
	assert.Contains(t, err.Error(), "alpha, zeta")
}
