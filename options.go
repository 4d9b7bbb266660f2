package gcf

import "log/slog"

// Defaults used when no corresponding option is set.
const (
	// DefaultMaxResources caps the header-declared resource count on load.
	DefaultMaxResources = 65_536

	// DefaultMaxResourceSize caps one resource's stored and decompressed
	// payload size.
	DefaultMaxResourceSize uint64 = 4 << 30

	// DefaultMaxDecoderMemory caps zstd decoder memory.
	DefaultMaxDecoderMemory uint64 = 1 << 30
)

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger for debug-level load/save events.
// The codec never logs the errors it returns.
func WithLogger(l *slog.Logger) Option {
	return func(c *Container) {
		c.logger = l
	}
}

// WithMaxResources limits the header-declared resource count accepted on
// load. Set limit to 0 to disable the limit.
func WithMaxResources(limit int) Option {
	return func(c *Container) {
		c.maxResources = limit
	}
}

// WithMaxResourceSize limits the maximum per-resource payload size, stored
// and decompressed. Set limit to 0 to disable the limit.
func WithMaxResourceSize(limit uint64) Option {
	return func(c *Container) {
		c.maxResourceSize = limit
	}
}

// WithMaxDecoderMemory limits the maximum memory used by the zstd decoder.
// Set limit to 0 to disable the limit.
func WithMaxDecoderMemory(limit uint64) Option {
	return func(c *Container) {
		c.maxDecoderMemory = limit
	}
}

// WithUnpadded disables data-region alignment on save: payload blocks are
// packed back-to-back. Readers honor the resulting header flag.
func WithUnpadded(enabled bool) Option {
	return func(c *Container) {
		if enabled {
			c.flags |= FlagUnpadded
		} else {
			c.flags &^= FlagUnpadded
		}
	}
}
