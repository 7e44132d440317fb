package resource

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telhawk-systems/telhawk-relay/resources"
)

func TestChain_Order(t *testing.T) {
	first := fstest.MapFS{"xslt/a.xsl": {Data: []byte("first")}}
	second := fstest.MapFS{
		"xslt/a.xsl": {Data: []byte("second")},
		"xslt/b.xsl": {Data: []byte("only-second")},
	}
	c := NewChain(first, second)

	data, err := c.Load("xslt/a.xsl")
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	data, err = c.Load("classpath:xslt/b.xsl")
	require.NoError(t, err)
	assert.Equal(t, "only-second", string(data))

	data, err = c.Load("/xslt/b.xsl")
	require.NoError(t, err)
	assert.Equal(t, "only-second", string(data))
}

func TestChain_NotFound(t *testing.T) {
	c := NewChain(fstest.MapFS{})

	for _, name := range []string{"xslt/missing.xsl", "", "../etc/passwd", "file:/definitely/not/here.xsl"} {
		t.Run(name, func(t *testing.T) {
			_, err := c.Load(name)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}

	var nilChain *Chain
	_, err := nilChain.Load("xslt/cheese.xsl")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDirChain_OverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "xslt"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "xslt", "cheese.xsl"), []byte("override"), 0o644))

	c := NewDirChain([]string{"", dir}, resources.FS)

	data, err := c.Load("xslt/cheese.xsl")
	require.NoError(t, err)
	assert.Equal(t, "override", string(data))

	data, err = c.Load("xslt/identity.xsl")
	require.NoError(t, err)
	assert.Contains(t, string(data), "xsl:copy")
}

func TestChain_FilePrefix(t *testing.T) {
	p := filepath.Join(t.TempDir(), "style.xsl")
	require.NoError(t, os.WriteFile(p, []byte("on-disk"), 0o644))

	data, err := NewChain().Load("file:" + p)
	require.NoError(t, err)
	assert.Equal(t, "on-disk", string(data))
}

func TestEmbeddedCheese(t *testing.T) {
	data, err := NewChain(resources.FS).Load("xslt/cheese.xsl")
	require.NoError(t, err)
	assert.Contains(t, string(data), "<cheese>")
}
