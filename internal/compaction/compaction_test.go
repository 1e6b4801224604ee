package compaction

import (
	"testing"
	"time"

	"github.com/cronvel/ukvstore/pkg/options"
	"github.com/stretchr/testify/require"
)

func TestDefaultPlannerNeverRequestsCompaction(t *testing.T) {
	planner := New()
	opts := options.NewDefaultOptions()

	require.False(t, planner.ShouldRun(0, &opts))
	require.False(t, planner.ShouldRun(24*time.Hour, &opts))

	opts.CompactInterval = time.Minute
	require.False(t, planner.ShouldRun(time.Hour, &opts), "noop planner ignores CompactInterval entirely")
}
