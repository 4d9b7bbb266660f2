package gcf

import (
	"strconv"

	json "github.com/goccy/go-json"
)

// Summary describes a container's contents without exposing payload bytes.
type Summary struct {
	Version          string            `json:"version"`
	Unpadded         bool              `json:"unpadded,omitempty"`
	ResourceCount    int               `json:"resource_count"`
	TotalDataSize    uint64            `json:"total_data_size"`
	TotalContentSize uint64            `json:"total_content_size"`
	CompressionRatio float64           `json:"compression_ratio"`
	Resources        []ResourceSummary `json:"resources"`
}

// ResourceSummary describes one resource.
type ResourceSummary struct {
	ID               uint32 `json:"id"`
	Type             string `json:"type"`
	Format           uint32 `json:"format,omitempty"`
	Supercompression string `json:"supercompression"`
	Compressed       bool   `json:"compressed,omitempty"`
	HasMipmaps       bool   `json:"has_mipmaps,omitempty"`
	DataSize         uint64 `json:"data_size"`
	ContentSize      uint64 `json:"content_size"`
	ContentDigest    string `json:"content_digest"`

	// Texture-only fields.
	Width         uint16 `json:"width,omitempty"`
	Height        uint16 `json:"height,omitempty"`
	Depth         uint16 `json:"depth,omitempty"`
	LayerCount    uint8  `json:"layer_count,omitempty"`
	MipLevelCount uint8  `json:"mip_level_count,omitempty"`
	TextureGroup  uint32 `json:"texture_group,omitempty"`
}

// Summarize builds a Summary of the container.
//
// Payloads are unframed to compute content sizes and digests, so this
// reads every resource once. The compression ratio is stored over content
// bytes, 1.0 for an empty container.
func (c *Container) Summarize() (*Summary, error) {
	major, minor := c.Version()
	s := &Summary{
		Version:       formatVersion(major, minor),
		Unpadded:      c.flags.Has(FlagUnpadded),
		ResourceCount: c.Len(),
		Resources:     make([]ResourceSummary, 0, c.Len()),
	}

	for r := range c.Resources() {
		content, err := c.ReadResource(r.ID())
		if err != nil {
			return nil, err
		}
		dgst, err := r.ContentDigest()
		if err != nil {
			return nil, err
		}

		rs := ResourceSummary{
			ID:               uint32(r.ID()),
			Type:             r.Type.String(),
			Format:           r.Format,
			Supercompression: r.Supercompression.String(),
			Compressed:       r.Flags.Has(FlagCompressed),
			HasMipmaps:       r.Flags.Has(FlagHasMipmaps),
			DataSize:         r.DataSize(),
			ContentSize:      uint64(len(content)),
			ContentDigest:    dgst.String(),
		}
		if td, ok := r.Descriptor.(TextureDescriptor); ok {
			rs.Width = td.Width
			rs.Height = td.Height
			rs.Depth = td.Depth
			rs.LayerCount = td.LayerCount
			rs.MipLevelCount = td.MipLevelCount
			rs.TextureGroup = td.TextureGroup
		}
		s.Resources = append(s.Resources, rs)
		s.TotalDataSize += rs.DataSize
		s.TotalContentSize += rs.ContentSize
	}

	if s.TotalContentSize > 0 {
		s.CompressionRatio = float64(s.TotalDataSize) / float64(s.TotalContentSize)
	} else {
		s.CompressionRatio = 1.0
	}
	return s, nil
}

// JSON encodes the summary.
func (s *Summary) JSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

func formatVersion(major, minor uint16) string {
	return strconv.Itoa(int(major)) + "." + strconv.Itoa(int(minor))
}
