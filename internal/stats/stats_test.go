package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryStatsSnapshotPercentiles(t *testing.T) {
	qs := New(time.Hour)
	qs.Record(100, OutcomeRemote)
	qs.Record(200, OutcomeRemote)
	qs.Record(300, OutcomeRemote)
	qs.Record(400, OutcomeFallback)
	qs.Record(500, OutcomeFallback)

	snap := qs.Snapshot()
	require.Equal(t, 5, snap.Count)
	assert.Equal(t, 3, snap.RemoteCount)
	assert.Equal(t, 2, snap.FallbackCount)
	assert.Equal(t, int64(100), snap.MinMs)
	assert.Equal(t, int64(500), snap.MaxMs)
	assert.Equal(t, 300.0, snap.AvgMs)
	assert.Equal(t, 300.0, snap.P50Ms)
	assert.Equal(t, 480.0, snap.P95Ms)
	assert.Equal(t, 496.0, snap.P99Ms)
}

func TestQueryStatsPrunesExpiredSamples(t *testing.T) {
	qs := New(10 * time.Millisecond)
	qs.Record(100, OutcomeRemote)
	time.Sleep(25 * time.Millisecond)

	snap := qs.Snapshot()
	require.Equal(t, 0, snap.Count)

	qs.Record(200, OutcomeFallback)
	snap = qs.Snapshot()
	require.Equal(t, 1, snap.Count)
	assert.Equal(t, 1, snap.FallbackCount)
	assert.Equal(t, int64(200), snap.MinMs)
	assert.Equal(t, int64(200), snap.MaxMs)
}

func TestQueryStatsRecordClampsNegativeDuration(t *testing.T) {
	qs := New(time.Hour)
	qs.Record(-10, OutcomeRemote)

	snap := qs.Snapshot()
	require.Equal(t, 1, snap.Count)
	assert.Equal(t, int64(0), snap.MinMs)
	assert.Equal(t, int64(0), snap.MaxMs)
}

func TestQueryStatsEmptySnapshot(t *testing.T) {
	qs := New(time.Hour)
	assert.Equal(t, Snapshot{}, qs.Snapshot())
}
