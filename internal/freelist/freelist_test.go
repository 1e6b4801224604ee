package freelist

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTakeOnEmptyRegistry(t *testing.T) {
	r := New()
	_, ok := r.Take(16)
	require.False(t, ok)
}

func TestReleaseThenTake(t *testing.T) {
	r := New()
	r.Release(16, 100)

	offset, ok := r.Take(16)
	require.True(t, ok)
	require.Equal(t, int64(100), offset)

	_, ok = r.Take(16)
	require.False(t, ok, "a single release must only be reusable once")
}

func TestTakeIsLIFO(t *testing.T) {
	r := New()
	r.Release(32, 10)
	r.Release(32, 20)
	r.Release(32, 30)

	offset, ok := r.Take(32)
	require.True(t, ok)
	require.Equal(t, int64(30), offset, "most recently released block should be reused first")

	offset, ok = r.Take(32)
	require.True(t, ok)
	require.Equal(t, int64(20), offset)
}

func TestSizesAreIndependent(t *testing.T) {
	r := New()
	r.Release(16, 1)
	r.Release(32, 2)

	_, ok := r.Take(64)
	require.False(t, ok, "registry must never match a differently-sized hole")

	offset, ok := r.Take(32)
	require.True(t, ok)
	require.Equal(t, int64(2), offset)
}

func TestSnapshotIsADeepCopy(t *testing.T) {
	r := New()
	r.Release(16, 1)
	r.Release(32, 2)

	snap := r.Snapshot()
	require.Equal(t, []int64{1}, snap[16])
	require.Equal(t, []int64{2}, snap[32])

	snap[16][0] = 999
	offset, ok := r.Take(16)
	require.True(t, ok)
	require.Equal(t, int64(1), offset, "mutating the snapshot must not affect the registry")
}

func TestForgetAll(t *testing.T) {
	r := New()
	r.Release(16, 1)
	r.Release(32, 2)
	require.Equal(t, 2, r.Len())

	r.ForgetAll()
	require.Equal(t, 0, r.Len())

	_, ok := r.Take(16)
	require.False(t, ok)
}
