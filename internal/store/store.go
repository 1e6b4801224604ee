// Package store implements the engine described in SPEC_FULL.md §4.4: the
// component that composes the block codec, the free-block registry, the
// file backend, and the index into the public has/get/set/delete/clear/
// iteration operations, serialized through a single-slot concurrency gate.
//
// Every operation that touches the file -- Load, an uncached Get, Set,
// Delete, Clear -- acquires the gate before doing any I/O and releases it on
// every exit path, including errors (§5, §7). Has, a cached Get, Size, and
// Keys never acquire the gate: they only ever read the in-memory index,
// which has its own lock for safety against a concurrent gated mutation.
package store

import (
	"context"
	stdErrors "errors"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/cronvel/ukvstore/internal/block"
	"github.com/cronvel/ukvstore/internal/compaction"
	"github.com/cronvel/ukvstore/internal/filebackend"
	"github.com/cronvel/ukvstore/internal/freelist"
	"github.com/cronvel/ukvstore/internal/gate"
	"github.com/cronvel/ukvstore/internal/index"
	ukverrors "github.com/cronvel/ukvstore/pkg/errors"
	"github.com/cronvel/ukvstore/pkg/options"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNotFound is returned by Get when the key has no live entry.
var ErrNotFound = stdErrors.New("ukvstore: key not found")

// ErrStoreClosed is returned by Set, Delete, Clear, an uncached Get, and a
// second Close once the store has been closed. Has, Size, Keys, and a cached
// Get keep answering from the in-memory index.
var ErrStoreClosed = stdErrors.New("ukvstore: operation failed: store is closed")

// Entry pairs a key with its current value, returned by Entries.
type Entry struct {
	Key   string
	Value index.StoredValue
}

// Store composes the block codec, free-block registry, file backend, and
// index into the engine's public operations (§4.4). It owns the gate that
// serializes every file-touching call.
type Store struct {
	options    *options.Options
	log        *zap.SugaredLogger
	closed     atomic.Bool
	file       *filebackend.Backend
	idx        *index.Index
	free       *freelist.Registry
	gate       *gate.Gate
	compaction compaction.Planner
}

// Config holds the parameters needed to open a Store.
type Config struct {
	Options    *options.Options
	Logger     *zap.SugaredLogger
	Compaction compaction.Planner // optional; defaults to the no-op planner.
}

// Open opens (creating if absent) the database file named by config.Options
// and rebuilds the in-memory index and free-block registry by scanning it
// end to end (§4.5). A CorruptBlock error during the scan is fatal: the
// returned Store is nil and the file should be considered unusable.
func Open(ctx context.Context, config *Config) (*Store, error) {
	if config == nil || config.Options == nil || config.Logger == nil {
		return nil, ukverrors.NewValidationError(
			nil, ukverrors.ErrorCodeInvalidInput, "store configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	file, err := filebackend.Open(&filebackend.Config{Path: config.Options.Path, Logger: config.Logger})
	if err != nil {
		return nil, err
	}

	idx, err := index.New(&index.Config{Logger: config.Logger})
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	planner := config.Compaction
	if planner == nil {
		planner = compaction.New()
	}

	s := &Store{
		options:    config.Options,
		log:        config.Logger,
		file:       file,
		idx:        idx,
		free:       freelist.New(),
		gate:       gate.New(),
		compaction: planner,
	}

	if err := s.gate.Acquire(ctx); err != nil {
		_ = file.Close()
		return nil, err
	}
	loadErr := s.load()
	s.gate.Release()
	if loadErr != nil {
		config.Logger.Errorw("failed to recover database from file", "path", config.Options.Path, "error", loadErr)
		_ = file.Close()
		return nil, loadErr
	}

	config.Logger.Infow("store recovered", "path", config.Options.Path, "keys", s.idx.Size(), "eof", file.EOF())
	return s, nil
}

// validateKey enforces §3's key rule: a non-empty, valid UTF-8 string.
func validateKey(key string) error {
	if key == "" {
		return ukverrors.NewInvalidKeyError(key, "non_empty")
	}
	if !utf8.ValidString(key) {
		return ukverrors.NewInvalidKeyError(key, "utf8")
	}
	return nil
}

// normalizeValue collapses value to the kind the store is configured to
// hold, per §4.4 and the polymorphic-value-kind design note in §9: bytes
// decode to a string via UTF-8 when BufferValues is false, strings encode
// to bytes via UTF-8 when BufferValues is true.
func normalizeValue(value index.StoredValue, bufferValues bool) index.StoredValue {
	if bufferValues {
		if value.Kind == index.ValueBytes {
			return value
		}
		return index.NewBytesValue([]byte(value.Str))
	}
	if value.Kind == index.ValueString {
		return value
	}
	return index.NewStringValue(string(value.Bytes))
}

// Has reports whether key currently has a live entry. It never touches the
// file and never takes the gate (§4.4, §5).
func (s *Store) Has(key string) bool {
	return s.idx.Has(key)
}

// Size returns the number of live keys.
func (s *Store) Size() int {
	return s.idx.Size()
}

// Keys returns every live key in insertion order. It never touches the file.
func (s *Store) Keys() []string {
	return s.idx.Keys()
}

// Get returns key's current value. When the store caches values in memory
// this is a synchronous index probe; otherwise it performs one positioned
// read of the value's bytes, guarded by the gate (§4.4, §5).
func (s *Store) Get(ctx context.Context, key string) (index.StoredValue, error) {
	if err := validateKey(key); err != nil {
		return index.StoredValue{}, err
	}

	entry, ok := s.idx.Get(key)
	if !ok {
		return index.StoredValue{}, ErrNotFound
	}
	if entry.Cached {
		return entry.Value, nil
	}

	if s.closed.Load() {
		return index.StoredValue{}, ErrStoreClosed
	}
	if err := s.gate.Acquire(ctx); err != nil {
		return index.StoredValue{}, err
	}
	defer s.gate.Release()

	// Re-probe under the gate: a concurrent Delete or relocating Set may
	// have invalidated the coordinates we read above before we got here.
	entry, ok = s.idx.Get(key)
	if !ok {
		return index.StoredValue{}, ErrNotFound
	}

	buf := make([]byte, entry.ValueLength)
	if err := s.file.ReadAt(buf, entry.Offset+entry.ValueOffset); err != nil {
		return index.StoredValue{}, err
	}

	if s.options.BufferValues {
		return index.NewBytesValue(buf), nil
	}
	return index.NewStringValue(string(buf)), nil
}

// buildEntry constructs the index.Entry for key/value just written into the
// block at offset/blockSize, honoring the InMemoryValues configuration.
func (s *Store) buildEntry(key string, value index.StoredValue, valBytes []byte, offset int64, blockSize int) index.Entry {
	entry := index.Entry{Offset: offset, BlockSize: blockSize}
	if s.options.InMemoryValues {
		entry.Cached = true
		entry.Value = value
		return entry
	}
	headerLen := block.HeaderLen(len(key), len(valBytes))
	entry.ValueOffset = int64(headerLen + len(key))
	entry.ValueLength = len(valBytes)
	return entry
}

// Set stores value under key, normalizing it to the configured value kind
// first (§4.4). An existing record that still fits its current block is
// rewritten in place; otherwise the old block is freed (registered for
// reuse) and the new record is placed at a fresh location, possibly reusing
// a free block of the exact size needed (§4.4's placement policy).
func (s *Store) Set(ctx context.Context, key string, value index.StoredValue) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if s.closed.Load() {
		return ErrStoreClosed
	}
	if err := s.gate.Acquire(ctx); err != nil {
		return err
	}
	defer s.gate.Release()

	normalized := normalizeValue(value, s.options.BufferValues)
	valBytes := normalized.Raw()

	existing, exists := s.idx.Get(key)

	// Update that still fits its existing block: rewrite in place, keep o/s.
	if exists && block.Fits(len(key), len(valBytes), existing.BlockSize) {
		buf, err := block.EncodeLive(key, valBytes, existing.BlockSize)
		if err != nil {
			return err
		}
		if err := s.file.WriteAt(buf, existing.Offset); err != nil {
			return err
		}
		entry := s.buildEntry(key, normalized, valBytes, existing.Offset, existing.BlockSize)
		s.idx.Set(key, entry)
		s.log.Debugw("updated record in place", "key", key, "offset", existing.Offset, "blockSize", existing.BlockSize)
		return nil
	}

	size, err := block.PlanInsertSize(len(key), len(valBytes))
	if err != nil {
		return err
	}
	buf, err := block.EncodeLive(key, valBytes, size)
	if err != nil {
		return err
	}

	offset, reused := s.free.Take(size)
	if reused {
		if err := s.file.WriteAt(buf, offset); err != nil {
			return err
		}
	} else {
		offset, err = s.file.Append(buf)
		if err != nil {
			return err
		}
	}

	// The key already existed at a different (too-small) block: free it
	// and register the vacated offset for reuse at its own size.
	if exists {
		freeBuf, err := block.EncodeFree(existing.BlockSize)
		if err != nil {
			return err
		}
		if err := s.file.WriteAt(freeBuf, existing.Offset); err != nil {
			return err
		}
		s.free.Release(existing.BlockSize, existing.Offset)
		s.log.Debugw("relocated record", "key", key, "oldOffset", existing.Offset, "oldSize", existing.BlockSize,
			"newOffset", offset, "newSize", size)
	}

	entry := s.buildEntry(key, normalized, valBytes, offset, size)
	s.idx.Set(key, entry)
	return nil
}

// Delete removes key's entry, if present, and marks its block free for
// reuse. Deleting an absent key is a no-op and never errors, making repeated
// deletes idempotent (§8).
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if s.closed.Load() {
		return ErrStoreClosed
	}
	if err := s.gate.Acquire(ctx); err != nil {
		return err
	}
	defer s.gate.Release()

	entry, ok := s.idx.Delete(key)
	if !ok {
		return nil
	}

	freeBuf, err := block.EncodeFree(entry.BlockSize)
	if err != nil {
		return err
	}
	if err := s.file.WriteAt(freeBuf, entry.Offset); err != nil {
		return err
	}
	s.free.Release(entry.BlockSize, entry.Offset)
	s.log.Debugw("deleted record", "key", key, "offset", entry.Offset, "blockSize", entry.BlockSize)
	return nil
}

// Clear empties the index, truncates the database file to zero length, and
// forgets every registered free block (§4.4).
func (s *Store) Clear(ctx context.Context) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}
	if err := s.gate.Acquire(ctx); err != nil {
		return err
	}
	defer s.gate.Release()

	if err := s.file.Truncate(); err != nil {
		return err
	}
	s.idx.Clear()
	s.free.ForgetAll()
	s.log.Infow("store cleared")
	return nil
}

// Values returns every live value in insertion order. When values are not
// cached this performs one gate-serialized positioned read per key.
func (s *Store) Values(ctx context.Context) ([]index.StoredValue, error) {
	keys := s.idx.Keys()
	values := make([]index.StoredValue, 0, len(keys))
	for _, key := range keys {
		value, err := s.Get(ctx, key)
		if stdErrors.Is(err, ErrNotFound) {
			// Deleted concurrently between Keys() and this Get; skip it.
			continue
		}
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}

// Entries returns every live key/value pair in insertion order.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	keys := s.idx.Keys()
	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		value, err := s.Get(ctx, key)
		if stdErrors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Key: key, Value: value})
	}
	return entries, nil
}

// ForEach calls fn once per live key/value pair, in insertion order,
// stopping and returning fn's error if it returns one.
func (s *Store) ForEach(ctx context.Context, fn func(key string, value index.StoredValue) error) error {
	for _, key := range s.idx.Keys() {
		value, err := s.Get(ctx, key)
		if stdErrors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}
	return nil
}

// ForEachAsync calls fn once per live key/value pair concurrently, fanning
// the reads out across goroutines. Actual disk reads still serialize
// through the store's gate exactly as a sequential ForEach would (§4.4), so
// this buys overlap between decoding/fn work and the next read's wait on
// the gate, not concurrent disk I/O.
func (s *Store) ForEachAsync(ctx context.Context, fn func(key string, value index.StoredValue) error) error {
	keys := s.idx.Keys()
	group, gctx := errgroup.WithContext(ctx)
	for _, key := range keys {
		key := key
		group.Go(func() error {
			value, err := s.Get(gctx, key)
			if stdErrors.Is(err, ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			return fn(key, value)
		})
	}
	return group.Wait()
}

// MaybeCompact reports whether the store's compaction planner wants a
// compaction pass to run. The default planner always returns false (§9: no
// coalescing by design); this seam exists so a real planner can be supplied
// through Config.Compaction without changing the Store's shape.
func (s *Store) MaybeCompact(elapsedSinceLast time.Duration) bool {
	return s.compaction.ShouldRun(elapsedSinceLast, s.options)
}

// Close releases the store's file handle. It is safe to call exactly once;
// subsequent calls return ErrStoreClosed. Any failure flushing the logger is
// combined with a file-close failure via multierr rather than discarded.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrStoreClosed
	}

	var err error
	if closeErr := s.file.Close(); closeErr != nil {
		err = multierr.Append(err, closeErr)
	}
	if syncErr := s.log.Sync(); syncErr != nil {
		err = multierr.Append(err, syncErr)
	}
	return err
}

// load rebuilds the index and free-block registry from the database file,
// per §4.5. It must be called with the gate already held; it is only ever
// invoked once, from Open, before any other caller can observe the store.
func (s *Store) load() error {
	eof := s.file.EOF()
	offset := int64(0)
	scratch := make([]byte, block.HeaderPrefixLen)

	for offset < eof {
		if err := s.file.ReadAt(scratch[:block.HeaderPrefixLen], offset); err != nil {
			return err
		}

		flags := scratch[0]
		size := block.SizeFromFlags(flags)
		if size <= 0 || offset+int64(size) > eof {
			return ukverrors.NewCorruptBlockError(offset, "block size runs past end-of-file").WithBlockSize(size)
		}

		if block.IsFree(flags) {
			s.free.Release(size, offset)
			offset += int64(size)
			continue
		}

		keyLen, valueLen, headerLen, err := block.DecodeHeader(scratch[:block.HeaderPrefixLen], offset)
		if err != nil {
			return err
		}

		needed := headerLen + keyLen + valueLen
		if needed > size {
			return ukverrors.NewCorruptBlockError(offset, "record length exceeds its own block size").WithBlockSize(size)
		}

		if needed > len(scratch) {
			grown, _, _, err := block.ChooseSize(needed)
			if err != nil {
				return err
			}
			scratch = make([]byte, grown)
		}
		if err := s.file.ReadAt(scratch[:needed], offset); err != nil {
			return err
		}

		key := string(scratch[headerLen : headerLen+keyLen])
		entry := index.Entry{Offset: offset, BlockSize: size}

		if s.options.InMemoryValues {
			valBytes := make([]byte, valueLen)
			copy(valBytes, scratch[headerLen+keyLen:headerLen+keyLen+valueLen])
			entry.Cached = true
			if s.options.BufferValues {
				entry.Value = index.NewBytesValue(valBytes)
			} else {
				entry.Value = index.NewStringValue(string(valBytes))
			}
		} else {
			entry.ValueOffset = int64(headerLen + keyLen)
			entry.ValueLength = valueLen
		}

		s.idx.Set(key, entry)
		offset += int64(size)
	}

	return nil
}
