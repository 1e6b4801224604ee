// Package index provides the in-memory key -> block-coordinate map at the
// center of the store engine (§3, §4.4). Every live key has exactly one
// entry here, and vice versa with the live blocks on disk; the engine's job
// is keeping that invariant true across Set, Delete, and Clear.
package index

import (
	"container/list"

	"github.com/cronvel/ukvstore/pkg/errors"
)

// New creates an empty Index.
func New(config *Config) (*Index, error) {
	if config == nil || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "index configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	return &Index{
		log:   config.Logger,
		order: list.New(),
		byKey: make(map[string]*list.Element, 1024),
	}, nil
}

// Has reports whether key has a live entry. It never touches disk.
func (idx *Index) Has(key string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	_, ok := idx.byKey[key]
	return ok
}

// Get returns key's entry and whether it was found.
func (idx *Index) Get(key string) (Entry, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	el, ok := idx.byKey[key]
	if !ok {
		return Entry{}, false
	}
	return el.Value.(*node).entry, true
}

// Size returns the number of live entries.
func (idx *Index) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.byKey)
}

// Set inserts a new entry or overwrites an existing one. Updating an
// existing key keeps its original position in insertion order; only a
// genuinely new key is appended at the back.
func (idx *Index) Set(key string, entry Entry) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if el, ok := idx.byKey[key]; ok {
		el.Value.(*node).entry = entry
		return
	}

	el := idx.order.PushBack(&node{key: key, entry: entry})
	idx.byKey[key] = el
}

// Delete removes key's entry, if present, and returns it so the caller can
// free its block at the registered size.
func (idx *Index) Delete(key string) (Entry, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	el, ok := idx.byKey[key]
	if !ok {
		return Entry{}, false
	}

	idx.order.Remove(el)
	delete(idx.byKey, key)
	return el.Value.(*node).entry, true
}

// Clear empties the index, used when the whole database file is truncated.
func (idx *Index) Clear() {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.order.Init()
	clear(idx.byKey)
}

// Keys returns every key in insertion order.
func (idx *Index) Keys() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	keys := make([]string, 0, idx.order.Len())
	for el := idx.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*node).key)
	}
	return keys
}

// ForEach calls fn for every key/entry pair in insertion order, stopping
// and returning fn's error if it returns one. It holds the index's read
// lock for the duration, so fn must not call back into the index.
func (idx *Index) ForEach(fn func(key string, entry Entry) error) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	for el := idx.order.Front(); el != nil; el = el.Next() {
		n := el.Value.(*node)
		if err := fn(n.key, n.entry); err != nil {
			return err
		}
	}
	return nil
}
