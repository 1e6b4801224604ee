// Package ignite provides a small embedded key/value data store that
// persists a map of string keys to string or byte values into a single
// append-oriented file (SPEC_FULL.md §1). It combines an in-memory index
// (the "keydir", in Bitcask terms) with a block-structured on-disk log to
// give durable, map-like semantics without standing up a database.
//
// Instance is the package's single entry point: it owns one database file
// for its lifetime and exposes exactly the operations named in §4.4 --
// Has, Get, Set, Delete, Clear, Size, and the iteration family.
package ignite

import (
	"context"

	"github.com/cronvel/ukvstore/internal/compaction"
	"github.com/cronvel/ukvstore/internal/index"
	"github.com/cronvel/ukvstore/internal/store"
	"github.com/cronvel/ukvstore/pkg/logger"
	"github.com/cronvel/ukvstore/pkg/options"
)

// Entry pairs a key with its current value, returned by Entries.
type Entry = store.Entry

// ErrNotFound is returned by Get when the key has no live entry.
var ErrNotFound = store.ErrNotFound

// Instance is an open database: the engine handling block placement and
// recovery, plus the configuration it was opened with.
type Instance struct {
	engine  *store.Store
	options *options.Options
}

// NewInstance opens (creating if absent) the database file named by opts,
// recovering its index by scanning the file end to end. service names the
// structured logger attached to every subsystem (§10).
func NewInstance(ctx context.Context, service string, opts ...options.OptionFunc) (*Instance, error) {
	log := logger.New(service)

	config := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&config)
	}

	engine, err := store.Open(ctx, &store.Config{
		Options:    &config,
		Logger:     log,
		Compaction: compaction.New(),
	})
	if err != nil {
		return nil, err
	}

	return &Instance{engine: engine, options: &config}, nil
}

// Has reports whether key currently has a live entry.
func (i *Instance) Has(key string) bool {
	return i.engine.Has(key)
}

// Size returns the number of live keys.
func (i *Instance) Size() int {
	return i.engine.Size()
}

// Get retrieves the value associated with key, returning ErrNotFound if it
// has no live entry.
func (i *Instance) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := i.engine.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return value.Raw(), nil
}

// GetString is Get, returning the result as a string whichever value kind
// (bytes or string) the instance is configured to hold.
func (i *Instance) GetString(ctx context.Context, key string) (string, error) {
	value, err := i.engine.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if value.Kind == index.ValueString {
		return value.Str, nil
	}
	return string(value.Bytes), nil
}

// Set stores a byte-slice value under key. If the key already exists, its
// value is updated; whether the update happens in place or relocates the
// record depends on whether the new value still fits the existing block
// (§4.4).
func (i *Instance) Set(ctx context.Context, key string, value []byte) error {
	return i.engine.Set(ctx, key, index.NewBytesValue(value))
}

// SetString is Set for a string value.
func (i *Instance) SetString(ctx context.Context, key string, value string) error {
	return i.engine.Set(ctx, key, index.NewStringValue(value))
}

// Delete removes key's entry, if present. Deleting an absent key is a no-op
// and never errors, so repeated deletes are idempotent (§8).
func (i *Instance) Delete(ctx context.Context, key string) error {
	return i.engine.Delete(ctx, key)
}

// Clear empties the database: every key is removed and the underlying file
// is truncated to zero length.
func (i *Instance) Clear(ctx context.Context) error {
	return i.engine.Clear(ctx)
}

// Keys returns every live key in insertion order.
func (i *Instance) Keys() []string {
	return i.engine.Keys()
}

// Values returns every live value in insertion order, as raw bytes.
func (i *Instance) Values(ctx context.Context) ([][]byte, error) {
	values, err := i.engine.Values(ctx)
	if err != nil {
		return nil, err
	}
	out := make([][]byte, len(values))
	for idx, v := range values {
		out[idx] = v.Raw()
	}
	return out, nil
}

// Entries returns every live key/value pair in insertion order.
func (i *Instance) Entries(ctx context.Context) ([]Entry, error) {
	return i.engine.Entries(ctx)
}

// ForEach calls fn once per live key/value pair, in insertion order,
// stopping and returning fn's error if it returns one.
func (i *Instance) ForEach(ctx context.Context, fn func(key string, value []byte) error) error {
	return i.engine.ForEach(ctx, func(key string, value index.StoredValue) error {
		return fn(key, value.Raw())
	})
}

// ForEachAsync calls fn once per live key/value pair concurrently.
func (i *Instance) ForEachAsync(ctx context.Context, fn func(key string, value []byte) error) error {
	return i.engine.ForEachAsync(ctx, func(key string, value index.StoredValue) error {
		return fn(key, value.Raw())
	})
}

// Close releases the database file handle. Safe to call exactly once.
func (i *Instance) Close(ctx context.Context) error {
	return i.engine.Close()
}
