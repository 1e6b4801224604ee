// Package compaction defines the extension point left for a future
// compaction pass over the free-block registry. The store never coalesces
// or reclaims free blocks on its own (§9: no coalescing, by design,
// fragmentation accepted), so the default Planner never asks for one to
// run. The interface exists so that a real planner can be wired in later
// without changing the engine's shape.
package compaction

import (
	"time"

	"github.com/cronvel/ukvstore/pkg/options"
)

// Planner decides whether a compaction pass should run. The engine calls
// ShouldRun only from Store.MaybeCompact, when a caller asks, and only
// reports the answer: nothing in the engine rewrites the database file to
// reclaim fragmented space, whatever ShouldRun returns.
type Planner interface {
	ShouldRun(elapsedSinceLast time.Duration, opts *options.Options) bool
}

// noopPlanner never requests compaction.
type noopPlanner struct{}

func (noopPlanner) ShouldRun(time.Duration, *options.Options) bool {
	return false
}

// New returns the default planner, which never requests compaction. A
// CompactInterval of zero in options.Options (the default) means this is
// the only planner in use; a nonzero interval is reserved for a future,
// real implementation.
func New() Planner {
	return noopPlanner{}
}
