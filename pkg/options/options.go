// Package options provides data structures and functions for configuring
// the key-value store. It defines the parameters that control where the
// database file lives and how values are held in memory.
package options

import (
	"strings"
	"time"
)

// Options defines the configuration parameters for the store engine.
type Options struct {
	// Path names the single database file. It is created if it does not
	// already exist; a zero-length file is a valid, empty database.
	//
	// Default: "./test.db"
	Path string `json:"path"`

	// BufferValues controls whether values are held and returned as raw
	// bytes (true) or decoded into UTF-8 strings (false). It applies both to
	// values the index caches and to values Get reads from disk.
	//
	// Default: false
	BufferValues bool `json:"bufferValues"`

	// InMemoryValues controls whether the index caches a decoded copy of
	// each value (true) or only the value's on-disk coordinates, requiring
	// a positioned read per Get (false).
	//
	// Default: true
	InMemoryValues bool `json:"inMemoryValues"`

	// CompactInterval configures how often a background compaction pass
	// would run if one were enabled. The store's free-block registry never
	// coalesces or compacts on its own (by design, see the design notes on
	// fragmentation); this field exists so a Planner can be wired in later
	// without changing the Options shape. Zero disables it.
	//
	// Default: 0 (disabled)
	CompactInterval time.Duration `json:"compactInterval"`
}

// OptionFunc is a function type that modifies the store's configuration.
type OptionFunc func(*Options)

// WithDefaultOptions applies the full set of default configuration values.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		opts := NewDefaultOptions()
		o.Path = opts.Path
		o.BufferValues = opts.BufferValues
		o.InMemoryValues = opts.InMemoryValues
		o.CompactInterval = opts.CompactInterval
	}
}

// WithPath sets the path to the database file.
func WithPath(path string) OptionFunc {
	return func(o *Options) {
		path = strings.TrimSpace(path)
		if path != "" {
			o.Path = path
		}
	}
}

// WithBufferValues sets whether values are held as raw bytes (true) or as
// UTF-8 strings (false).
func WithBufferValues(buffer bool) OptionFunc {
	return func(o *Options) {
		o.BufferValues = buffer
	}
}

// WithInMemoryValues sets whether the index caches decoded values instead of
// just their on-disk coordinates.
func WithInMemoryValues(inMemory bool) OptionFunc {
	return func(o *Options) {
		o.InMemoryValues = inMemory
	}
}

// WithCompactInterval sets the interval a future compaction planner would
// run at. A zero or negative interval leaves compaction disabled.
func WithCompactInterval(interval time.Duration) OptionFunc {
	return func(o *Options) {
		if interval > 0 {
			o.CompactInterval = interval
		}
	}
}
