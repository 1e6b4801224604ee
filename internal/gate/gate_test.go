package gate

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAcquireReleaseRoundTrip(t *testing.T) {
	g := New()
	require.NoError(t, g.Acquire(context.Background()))
	g.Release()
}

func TestSecondAcquireBlocksUntilRelease(t *testing.T) {
	g := New()
	require.NoError(t, g.Acquire(context.Background()))

	acquired := make(chan struct{})
	go func() {
		require.NoError(t, g.Acquire(context.Background()))
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second Acquire returned before the first Release")
	case <-time.After(50 * time.Millisecond):
	}

	g.Release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second Acquire never unblocked after Release")
	}
	g.Release()
}

func TestAcquireHonorsContextCancellation(t *testing.T) {
	g := New()
	require.NoError(t, g.Acquire(context.Background()))
	defer g.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := g.Acquire(ctx)
	require.Error(t, err)
}

func TestFIFOOrdering(t *testing.T) {
	g := New()
	require.NoError(t, g.Acquire(context.Background()))

	const waiters = 5
	var mu sync.Mutex
	var order []int
	done := make(chan struct{})

	for i := 0; i < waiters; i++ {
		i := i
		go func() {
			require.NoError(t, g.Acquire(context.Background()))
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			g.Release()
			done <- struct{}{}
		}()
		// Give each goroutine a moment to queue up in arrival order before
		// the next one starts, so the test observes a deterministic order.
		time.Sleep(5 * time.Millisecond)
	}

	g.Release()
	for i := 0; i < waiters; i++ {
		<-done
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, order, waiters)
	require.Equal(t, []int{0, 1, 2, 3, 4}, order, "waiters must acquire the gate in arrival order")
}
