// Package gate implements the single-slot exclusion primitive that
// serializes every file-touching store operation (§5). It is deliberately
// the simplest thing that gives strict FIFO ordering across callers: a
// weighted semaphore with a capacity of exactly one. Acquire calls queue in
// arrival order and the runtime wakes them in that order on Release, which
// is exactly the ordering guarantee the engine needs and nothing more.
package gate

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Gate is a single-slot, FIFO-fair mutual exclusion primitive.
type Gate struct {
	sem *semaphore.Weighted
}

// New creates a Gate with one slot.
func New() *Gate {
	return &Gate{sem: semaphore.NewWeighted(1)}
}

// Acquire blocks until the gate's single slot is available, or ctx is done
// first, in which case it returns ctx's error without taking the slot. A
// context only ever releases a caller from waiting: once the slot is held,
// the store engine never cancels mid-mutation (§5).
func (g *Gate) Acquire(ctx context.Context) error {
	return g.sem.Acquire(ctx, 1)
}

// Release frees the gate's slot, letting the next queued Acquire proceed.
// Callers must call Release exactly once for every successful Acquire, on
// every exit path including errors and panics.
func (g *Gate) Release() {
	g.sem.Release(1)
}
