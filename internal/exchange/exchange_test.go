package exchange

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	ex, err := New("xslt")
	require.NoError(t, err)

	parsed, err := uuid.Parse(ex.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.Equal(t, "xslt", ex.RouteID)
	assert.NotNil(t, ex.Headers)
	assert.False(t, ex.CreatedAt.IsZero())
}

func TestSetBody_Copies(t *testing.T) {
	src := []byte("<item>A</item>")
	ex := &Exchange{}
	ex.SetBody(src)

	src[1] = 'X'
	assert.Equal(t, "<item>A</item>", string(ex.Body))

	ex.SetBody(nil)
	assert.Nil(t, ex.Body)
}

func TestSetHeader_NilMap(t *testing.T) {
	ex := &Exchange{}
	ex.SetHeader("k", "v")
	assert.Equal(t, "v", ex.Header("k"))
	assert.Equal(t, "", ex.Header("missing"))
}

func TestClone(t *testing.T) {
	ex := &Exchange{ID: "1", RouteID: "r", Body: []byte("a"), Headers: map[string]string{"h": "1"}}
	c := ex.Clone()

	c.Body[0] = 'b'
	c.Headers["h"] = "2"

	assert.Equal(t, "a", string(ex.Body))
	assert.Equal(t, "1", ex.Headers["h"])
	assert.Equal(t, ex.ID, c.ID)

	var nilEx *Exchange
	assert.Nil(t, nilEx.Clone())
}

func TestContext(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))

	ex := &Exchange{ID: "abc"}
	ctx := WithContext(context.Background(), ex)
	assert.Same(t, ex, FromContext(ctx))
}
