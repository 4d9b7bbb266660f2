package gcf

import (
	"bytes"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	blobContent := []byte("manifest data")
	texContent := bytes.Repeat([]byte{7}, 1024)
	texDesc := TextureDescriptor{
		Width: 32, Height: 32, Depth: 1,
		LayerCount: 1, MipLevelCount: 1,
		Flags: Texture2D,
	}

	c := New()
	c.Add(mustBlob(t, blobContent, SchemeNone))
	c.Add(mustTexture(t, texContent, SchemeZstd, texDesc, 12))

	s, err := c.Summarize()
	require.NoError(t, err)

	assert.Equal(t, "3.0", s.Version)
	assert.Equal(t, 2, s.ResourceCount)
	require.Len(t, s.Resources, 2)
	assert.Equal(t, s.TotalContentSize, uint64(len(blobContent)+len(texContent)))
	assert.Positive(t, s.CompressionRatio)
	assert.Less(t, s.CompressionRatio, 1.0, "zstd on repetitive data shrinks the total")

	rs := s.Resources[0]
	assert.Equal(t, "blob", rs.Type)
	assert.Equal(t, "none", rs.Supercompression)
	assert.Equal(t, uint64(len(blobContent)), rs.DataSize)
	assert.Equal(t, digest.FromBytes(blobContent).String(), rs.ContentDigest)

	ts := s.Resources[1]
	assert.Equal(t, "texture", ts.Type)
	assert.True(t, ts.Compressed)
	assert.Equal(t, uint16(32), ts.Width)
	assert.Equal(t, uint64(len(texContent)), ts.ContentSize)
	assert.Equal(t, digest.FromBytes(texContent).String(), ts.ContentDigest)
}

func TestSummarizeEmptyContainer(t *testing.T) {
	t.Parallel()

	s, err := New().Summarize()
	require.NoError(t, err)
	assert.Equal(t, 0, s.ResourceCount)
	assert.InEpsilon(t, 1.0, s.CompressionRatio, 1e-9)
}

func TestSummaryJSON(t *testing.T) {
	t.Parallel()

	c := New()
	c.Add(mustBlob(t, []byte("payload"), SchemeZlib))

	s, err := c.Summarize()
	require.NoError(t, err)

	raw, err := s.JSON()
	require.NoError(t, err)

	var decoded Summary
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, s.ResourceCount, decoded.ResourceCount)
	assert.Equal(t, s.Resources[0].ContentDigest, decoded.Resources[0].ContentDigest)
}
