package breath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func batchStdDev(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))
	var sq float64
	for _, x := range xs {
		sq += (x - mean) * (x - mean)
	}
	return math.Sqrt(sq / float64(len(xs)))
}

func TestRunningStatsMatchesBatch(t *testing.T) {
	cases := map[string][]float64{
		"steady":     {80, 80, 80, 80},
		"swelling":   {20, 40, 60, 80, 100, 120},
		"wobbly":     {64, 70, 58, 66, 61, 73, 55, 68},
		"large base": {1e6 + 4, 1e6 + 7, 1e6 + 13, 1e6 + 16},
		"single":     {42},
	}

	for name, xs := range cases {
		t.Run(name, func(t *testing.T) {
			var s RunningStats
			min, max := xs[0], xs[0]
			for _, x := range xs {
				s.Add(x)
				min = math.Min(min, x)
				max = math.Max(max, x)
			}
			assert.Equal(t, len(xs), s.Count())
			assert.InDelta(t, batchStdDev(xs), s.StdDev(), 1e-6)
			assert.Equal(t, min, s.Min())
			assert.Equal(t, max, s.Max())
		})
	}
}

func TestConsistencyScore(t *testing.T) {
	assert.Equal(t, 100.0, ConsistencyScore(80, 0, DefaultSensitivity))
	assert.Equal(t, 0.0, ConsistencyScore(0, 5, DefaultSensitivity))
	assert.InDelta(t, 50.0, ConsistencyScore(80, 10, DefaultSensitivity), 1e-9)

	prev := ConsistencyScore(64, 0, DefaultSensitivity)
	for std := 0.5; std <= 64; std += 0.5 {
		score := ConsistencyScore(64, std, DefaultSensitivity)
		assert.Less(t, score, prev, "std %.1f", std)
		assert.GreaterOrEqual(t, score, 0.0)
		prev = score
	}
}

func TestSnapshotAndReset(t *testing.T) {
	var s RunningStats
	assert.False(t, s.Snapshot(DefaultSensitivity).Defined)

	for _, x := range []float64{60, 70, 80} {
		s.Add(x)
	}
	snap := s.Snapshot(DefaultSensitivity)
	assert.True(t, snap.Defined)
	assert.Equal(t, 3, snap.Count)
	assert.InDelta(t, 70, snap.Mean, 1e-9)
	assert.Less(t, snap.Consistency, 100.0)

	s.Reset()
	assert.Equal(t, Stats{}, s.Snapshot(DefaultSensitivity))
}
