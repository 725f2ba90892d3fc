package breath

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)

const frame = DefaultSampleInterval

// run appends n samples at the frame rate starting at start.
func run(samples []Sample, segment int, note, level uint8, start time.Time, n int) []Sample {
	for i := 0; i < n; i++ {
		samples = append(samples, Sample{At: start.Add(time.Duration(i) * frame), Segment: segment, Note: note, Level: level})
	}
	return samples
}

func identityColor(id int) int { return id % len(Palette) }

func TestTransitionWithinGapStaysConnected(t *testing.T) {
	var samples []Sample
	samples = run(samples, 0, 60, 90, t0, 10)
	// 300ms of silence between notes
	second := samples[len(samples)-1].At.Add(300 * time.Millisecond)
	samples = run(samples, 1, 62, 70, second, 10)

	lines := BuildPolylines(samples, identityColor, DefaultContinuityConfig())

	require.Len(t, lines, 1)
	var sawFill bool
	for _, p := range lines[0] {
		assert.Greater(t, p.Level, 0.0)
		if p.Filled {
			sawFill = true
			assert.Equal(t, 1, p.Segment, "fill takes the incoming segment")
			assert.GreaterOrEqual(t, p.Level, DefaultFillFloor*70)
		}
	}
	assert.True(t, sawFill)
}

func TestZeroSamplesBetweenNotesAreBridged(t *testing.T) {
	var samples []Sample
	samples = run(samples, 0, 60, 90, t0, 5)
	samples = run(samples, 0, 60, 0, samples[len(samples)-1].At.Add(frame), 4)
	samples = run(samples, 1, 64, 80, samples[len(samples)-1].At.Add(frame), 5)

	lines := BuildPolylines(samples, identityColor, DefaultContinuityConfig())

	require.Len(t, lines, 1)
	for _, p := range lines[0] {
		assert.Greater(t, p.Level, 0.0)
	}
}

func TestGapBeyondThresholdStartsNewPolyline(t *testing.T) {
	var samples []Sample
	samples = run(samples, 0, 60, 90, t0, 5)
	later := samples[len(samples)-1].At.Add(DefaultGapThreshold + frame)
	samples = run(samples, 1, 60, 90, later, 5)

	lines := BuildPolylines(samples, identityColor, DefaultContinuityConfig())

	require.Len(t, lines, 2)
	assert.Equal(t, 0, lines[0][len(lines[0])-1].Segment)
	assert.Equal(t, 1, lines[1][0].Segment)
}

func TestSmoothingLeavesEndpoints(t *testing.T) {
	samples := []Sample{
		{At: t0, Level: 30},
		{At: t0.Add(frame), Level: 90},
		{At: t0.Add(2 * frame), Level: 30},
		{At: t0.Add(3 * frame), Level: 90},
	}

	lines := BuildPolylines(samples, identityColor, DefaultContinuityConfig())

	require.Len(t, lines, 1)
	require.Len(t, lines[0], 4)
	assert.Equal(t, 30.0, lines[0][0].Level)
	assert.InDelta(t, 50.0, lines[0][1].Level, 1e-9)
	assert.InDelta(t, 70.0, lines[0][2].Level, 1e-9)
	assert.Equal(t, 90.0, lines[0][3].Level)
}

func TestEmptyAndSilentInput(t *testing.T) {
	assert.Empty(t, BuildPolylines(nil, identityColor, DefaultContinuityConfig()))

	silent := run(nil, 0, 60, 0, t0, 10)
	assert.Empty(t, BuildPolylines(silent, identityColor, DefaultContinuityConfig()))
}
