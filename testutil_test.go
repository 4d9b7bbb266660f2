package gcf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// mustBlob builds a blob resource or fails the test.
func mustBlob(t *testing.T, content []byte, scheme SupercompressionScheme) *Resource {
	t.Helper()
	r, err := NewBlobResource(content, scheme)
	require.NoError(t, err)
	return r
}

// mustTexture builds a texture resource or fails the test.
func mustTexture(t *testing.T, content []byte, scheme SupercompressionScheme, desc TextureDescriptor, format uint32) *Resource {
	t.Helper()
	r, err := NewTextureResource(content, scheme, desc, format)
	require.NoError(t, err)
	return r
}

// encode serializes the container or fails the test.
func encode(t *testing.T, c *Container) []byte {
	t.Helper()
	buf, err := c.Encode()
	require.NoError(t, err)
	return buf
}

// reload round-trips the container through its encoded form.
func reload(t *testing.T, c *Container, opts ...Option) *Container {
	t.Helper()
	loaded, err := LoadBytes(encode(t, c), opts...)
	require.NoError(t, err)
	return loaded
}
