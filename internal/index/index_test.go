package index

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := New(&Config{Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	return idx
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)

	_, err = New(&Config{})
	require.Error(t, err)
}

func TestHasGetOnEmptyIndex(t *testing.T) {
	idx := newTestIndex(t)
	require.False(t, idx.Has("a"))
	_, ok := idx.Get("a")
	require.False(t, ok)
	require.Equal(t, 0, idx.Size())
}

func TestSetThenGet(t *testing.T) {
	idx := newTestIndex(t)
	entry := Entry{Offset: 16, BlockSize: 32, Cached: true, Value: NewStringValue("v")}
	idx.Set("k", entry)

	require.True(t, idx.Has("k"))
	got, ok := idx.Get("k")
	require.True(t, ok)
	require.Equal(t, entry, got)
	require.Equal(t, 1, idx.Size())
}

func TestSetOverwriteKeepsPosition(t *testing.T) {
	idx := newTestIndex(t)
	idx.Set("a", Entry{Offset: 1})
	idx.Set("b", Entry{Offset: 2})
	idx.Set("a", Entry{Offset: 99})

	require.Equal(t, []string{"a", "b"}, idx.Keys(), "updating a key must not move it in insertion order")

	entry, ok := idx.Get("a")
	require.True(t, ok)
	require.Equal(t, int64(99), entry.Offset)
}

func TestDeleteRemovesEntryAndReturnsIt(t *testing.T) {
	idx := newTestIndex(t)
	entry := Entry{Offset: 16, BlockSize: 32}
	idx.Set("k", entry)

	got, ok := idx.Delete("k")
	require.True(t, ok)
	require.Equal(t, entry, got)
	require.False(t, idx.Has("k"))

	_, ok = idx.Delete("k")
	require.False(t, ok, "deleting an absent key must report ok=false, never panic")
}

func TestClearEmptiesIndex(t *testing.T) {
	idx := newTestIndex(t)
	idx.Set("a", Entry{Offset: 1})
	idx.Set("b", Entry{Offset: 2})

	idx.Clear()
	require.Equal(t, 0, idx.Size())
	require.Empty(t, idx.Keys())
}

func TestKeysPreservesInsertionOrder(t *testing.T) {
	idx := newTestIndex(t)
	order := []string{"z", "a", "m", "b"}
	for i, k := range order {
		idx.Set(k, Entry{Offset: int64(i)})
	}
	require.Equal(t, order, idx.Keys())
}

func TestForEachStopsOnError(t *testing.T) {
	idx := newTestIndex(t)
	idx.Set("a", Entry{Offset: 1})
	idx.Set("b", Entry{Offset: 2})
	idx.Set("c", Entry{Offset: 3})

	visited := 0
	stopErr := require.New(t)
	err := idx.ForEach(func(key string, entry Entry) error {
		visited++
		if key == "b" {
			return errStop
		}
		return nil
	})
	stopErr.ErrorIs(err, errStop)
	require.Equal(t, 2, visited)
}

func TestStoredValueRaw(t *testing.T) {
	require.Equal(t, []byte("v"), NewStringValue("v").Raw())
	require.Equal(t, []byte("v"), NewBytesValue([]byte("v")).Raw())
}

var errStop = stopError{}

type stopError struct{}

func (stopError) Error() string { return "stop" }
