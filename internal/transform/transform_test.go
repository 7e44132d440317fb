package transform

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity(t *testing.T) {
	out, err := Identity.Transform(context.Background(), []byte("<item>A</item>"))
	require.NoError(t, err)
	assert.Equal(t, "<item>A</item>", string(out))
}

func TestFunc(t *testing.T) {
	boom := errors.New("boom")
	var f Transformer = Func(func(context.Context, []byte) ([]byte, error) { return nil, boom })

	_, err := f.Transform(context.Background(), nil)
	assert.ErrorIs(t, err, boom)
}
