package ignite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cronvel/ukvstore/pkg/options"
	"github.com/stretchr/testify/require"
)

func TestNewInstanceRoundTripsBytesAndStrings(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db.dat")

	db, err := NewInstance(ctx, "ignite-test", options.WithPath(path))
	require.NoError(t, err)
	defer db.Close(ctx)

	require.NoError(t, db.Set(ctx, "bytes", []byte("raw")))
	got, err := db.Get(ctx, "bytes")
	require.NoError(t, err)
	require.Equal(t, []byte("raw"), got)

	require.NoError(t, db.SetString(ctx, "str", "hello"))
	str, err := db.GetString(ctx, "str")
	require.NoError(t, err)
	require.Equal(t, "hello", str)

	require.Equal(t, 2, db.Size())
	require.True(t, db.Has("bytes"))
	require.ElementsMatch(t, []string{"bytes", "str"}, db.Keys())
}

func TestGetMissingKeyReturnsErrNotFound(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db.dat")

	db, err := NewInstance(ctx, "ignite-test", options.WithPath(path))
	require.NoError(t, err)
	defer db.Close(ctx)

	_, err = db.Get(ctx, "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteClearAndReopenPersist(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db.dat")

	db, err := NewInstance(ctx, "ignite-test", options.WithPath(path))
	require.NoError(t, err)

	require.NoError(t, db.SetString(ctx, "a", "1"))
	require.NoError(t, db.SetString(ctx, "b", "2"))
	require.NoError(t, db.Delete(ctx, "a"))
	require.False(t, db.Has("a"))
	require.NoError(t, db.Close(ctx))

	reopened, err := NewInstance(ctx, "ignite-test", options.WithPath(path))
	require.NoError(t, err)
	defer reopened.Close(ctx)

	require.Equal(t, 1, reopened.Size())
	str, err := reopened.GetString(ctx, "b")
	require.NoError(t, err)
	require.Equal(t, "2", str)

	require.NoError(t, reopened.Clear(ctx))
	require.Equal(t, 0, reopened.Size())
}

func TestValuesEntriesAndForEach(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db.dat")

	db, err := NewInstance(ctx, "ignite-test", options.WithPath(path))
	require.NoError(t, err)
	defer db.Close(ctx)

	require.NoError(t, db.SetString(ctx, "a", "1"))
	require.NoError(t, db.SetString(ctx, "b", "2"))

	values, err := db.Values(ctx)
	require.NoError(t, err)
	require.Len(t, values, 2)

	entries, err := db.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "a", entries[0].Key)

	var seen []string
	err = db.ForEach(ctx, func(key string, value []byte) error {
		seen = append(seen, key)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, seen)
}

func TestForEachAsyncVisitsEveryKey(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db.dat")

	db, err := NewInstance(ctx, "ignite-test", options.WithPath(path), options.WithInMemoryValues(false))
	require.NoError(t, err)
	defer db.Close(ctx)

	require.NoError(t, db.SetString(ctx, "a", "1"))
	require.NoError(t, db.SetString(ctx, "b", "2"))

	count := 0
	err = db.ForEachAsync(ctx, func(key string, value []byte) error {
		count++
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 2, count)
}
