package index

import (
	"container/list"
	"sync"

	"go.uber.org/zap"
)

// ValueKind tags which representation a StoredValue holds. Keeping this as
// a small sum type, rather than stuffing a bare []byte or a dynamic any
// into Entry, makes the bufferValues configuration's effect on the cached
// representation explicit at the type level.
type ValueKind int

const (
	// ValueBytes marks a StoredValue holding raw bytes.
	ValueBytes ValueKind = iota
	// ValueString marks a StoredValue holding a decoded UTF-8 string.
	ValueString
)

// StoredValue is the decoded, in-memory form of a value, tagged by which of
// the two representations bufferValues selected at Set time.
type StoredValue struct {
	Kind  ValueKind
	Bytes []byte
	Str   string
}

// NewBytesValue wraps b as a raw-bytes StoredValue.
func NewBytesValue(b []byte) StoredValue {
	return StoredValue{Kind: ValueBytes, Bytes: b}
}

// NewStringValue wraps s as a decoded-string StoredValue.
func NewStringValue(s string) StoredValue {
	return StoredValue{Kind: ValueString, Str: s}
}

// Raw returns the value's bytes regardless of which representation it is
// stored as.
func (v StoredValue) Raw() []byte {
	if v.Kind == ValueString {
		return []byte(v.Str)
	}
	return v.Bytes
}

// Entry is the authoritative in-memory record of where a key's block lives
// and how to get its value. Offset and BlockSize always describe the live
// block holding the record; Cached, Value, ValueOffset, and ValueLength
// describe how to get the value itself, depending on whether the engine was
// configured to cache decoded values in memory (§3, §4.4).
type Entry struct {
	// Offset is the byte offset of the live block holding this key's record.
	Offset int64

	// BlockSize is the block's physical size on disk, matching one of the
	// sizing ladder's values.
	BlockSize int

	// Cached reports whether Value holds a decoded copy of the value. When
	// false, ValueOffset and ValueLength locate the value's bytes within the
	// block for a positioned read on every Get.
	Cached bool

	// Value holds the decoded value when Cached is true.
	Value StoredValue

	// ValueOffset is the byte offset of the value's bytes when Cached is
	// false.
	ValueOffset int64

	// ValueLength is the byte length of the value's bytes when Cached is
	// false.
	ValueLength int
}

// node is the payload of each container/list element, pairing a key with
// its Entry so iteration can yield both without a second map lookup.
type node struct {
	key   string
	entry Entry
}

// Index is the in-memory key -> block-coordinate map. It preserves
// insertion order for Keys/Values/Entries/ForEach (§4.4): a container/list
// tracks order while a map gives O(1) lookup by key, the same two-structure
// pattern an LRU cache uses to get both O(1) access and ordered eviction.
//
// Index has its own mutex distinct from the engine's gate: sync operations
// (Has, a cached Get, Size, and ordered iteration over cached values) are
// allowed to run without taking the gate (§5), so the map itself still
// needs to be safe against a concurrent mutation that is inside the gate.
type Index struct {
	mu     sync.RWMutex
	order  *list.List
	byKey  map[string]*list.Element
	log    *zap.SugaredLogger
}

// Config holds the parameters needed to initialize an Index.
type Config struct {
	Logger *zap.SugaredLogger
}
