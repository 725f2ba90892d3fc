package breath

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendRequiresSegment(t *testing.T) {
	h := NewHistory(time.Second)
	_, ok := h.Append(64, t0)
	assert.False(t, ok)
	assert.Zero(t, h.Len())
}

func TestRetriggerGetsNewColor(t *testing.T) {
	h := NewHistory(time.Second)
	first := h.BeginSegment(60, t0)
	second := h.BeginSegment(60, t0.Add(50*time.Millisecond))

	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, first.Color, second.Color)
}

func TestColorsCycleThroughPalette(t *testing.T) {
	h := NewHistory(time.Second)
	for i := 0; i < len(Palette)+2; i++ {
		seg := h.BeginSegment(uint8(60+i%3), t0)
		assert.Equal(t, i%len(Palette), seg.Color)
	}
}

func TestAppendKeepsTimestampsOrdered(t *testing.T) {
	h := NewHistory(time.Second)
	h.BeginSegment(60, t0)
	h.Append(50, t0.Add(20*time.Millisecond))
	s, ok := h.Append(55, t0.Add(10*time.Millisecond))

	require.True(t, ok)
	assert.Equal(t, t0.Add(20*time.Millisecond), s.At)
}

func TestEvictDropsOldSamplesAndSegments(t *testing.T) {
	h := NewHistory(time.Second)
	h.BeginSegment(60, t0)
	h.Append(80, t0)
	h.Append(80, t0.Add(100*time.Millisecond))
	h.BeginSegment(62, t0.Add(900*time.Millisecond))
	h.Append(70, t0.Add(900*time.Millisecond))

	h.Evict(t0.Add(1500 * time.Millisecond))

	require.Equal(t, 1, h.Len())
	assert.Equal(t, uint8(62), h.Samples()[0].Note)
	require.Len(t, h.Segments(), 1)
	assert.Equal(t, uint8(62), h.Segments()[0].Note)

	h.Evict(t0.Add(5 * time.Second))
	assert.Zero(t, h.Len())
	cur, ok := h.Current()
	require.True(t, ok, "current segment survives eviction")
	assert.Equal(t, uint8(62), cur.Note)
}

func TestClearResetsColors(t *testing.T) {
	h := NewHistory(time.Second)
	h.BeginSegment(60, t0)
	h.BeginSegment(62, t0)
	h.Append(90, t0)

	h.Clear()

	assert.Zero(t, h.Len())
	assert.Empty(t, h.Segments())
	assert.Equal(t, 0, h.BeginSegment(64, t0).Color)
}
