package breath

import (
	"math"
	"time"
)

const (
	// DefaultGapThreshold is the longest silence bridged between two readings,
	// long enough for a fingering change in a fast run.
	DefaultGapThreshold = 600 * time.Millisecond
	// DefaultSampleInterval matches one frame at 30 FPS.
	DefaultSampleInterval = time.Second / 30
	// DefaultFillFloor keeps bridged points at or above this fraction of the
	// quieter endpoint.
	DefaultFillFloor = 0.7
)

// ContinuityConfig controls how samples are joined into polylines.
type ContinuityConfig struct {
	GapThreshold   time.Duration
	SampleInterval time.Duration // spacing of gap-fill points; 0 disables filling
	FillFloor      float64
	Smooth         bool // 3-point moving average over interior points
}

// DefaultContinuityConfig returns the settings used by the trainer.
func DefaultContinuityConfig() ContinuityConfig {
	return ContinuityConfig{
		GapThreshold:   DefaultGapThreshold,
		SampleInterval: DefaultSampleInterval,
		FillFloor:      DefaultFillFloor,
		Smooth:         true,
	}
}

// Point is one vertex of a rendered polyline.
type Point struct {
	At      time.Time
	Level   float64
	Segment int
	Note    uint8
	Color   int
	Filled  bool // synthesised while bridging a gap
}

// Polyline is an unbroken run of points.
type Polyline []Point

// BuildPolylines joins non-zero samples into polylines. Readings closer than
// GapThreshold are connected, with the missing slots filled by interpolation
// in the incoming segment's colour; a longer silence starts a new polyline.
// Zero-level samples are silence and never appear in the output.
func BuildPolylines(samples []Sample, colorOf func(segment int) int, cfg ContinuityConfig) []Polyline {
	var (
		lines []Polyline
		cur   Polyline
		prev  *Sample
	)

	for i := range samples {
		s := &samples[i]
		if s.Level == 0 {
			continue
		}
		if prev != nil {
			gap := s.At.Sub(prev.At)
			if gap > cfg.GapThreshold {
				lines = append(lines, cur)
				cur = nil
			} else {
				cur = appendFill(cur, *prev, *s, colorOf(s.Segment), cfg)
			}
		}
		cur = append(cur, Point{
			At:      s.At,
			Level:   float64(s.Level),
			Segment: s.Segment,
			Note:    s.Note,
			Color:   colorOf(s.Segment),
		})
		prev = s
	}
	if len(cur) > 0 {
		lines = append(lines, cur)
	}

	if cfg.Smooth {
		for _, line := range lines {
			smooth(line)
		}
	}
	return lines
}

// appendFill bridges from a to b with points every SampleInterval. The last
// slot is skipped when it would land within half an interval of b.
func appendFill(line Polyline, a, b Sample, color int, cfg ContinuityConfig) Polyline {
	step := cfg.SampleInterval
	gap := b.At.Sub(a.At)
	if step <= 0 || gap <= step {
		return line
	}

	from, to := float64(a.Level), float64(b.Level)
	floor := cfg.FillFloor * math.Min(from, to)

	for t := a.At.Add(step); b.At.Sub(t) > step/2; t = t.Add(step) {
		alpha := float64(t.Sub(a.At)) / float64(gap)
		level := from*(1-alpha) + to*alpha
		line = append(line, Point{
			At:      t,
			Level:   math.Max(level, floor),
			Segment: b.Segment,
			Note:    b.Note,
			Color:   color,
			Filled:  true,
		})
	}
	return line
}

func smooth(line Polyline) {
	if len(line) < 3 {
		return
	}
	prev := line[0].Level
	for i := 1; i < len(line)-1; i++ {
		cur := line[i].Level
		line[i].Level = (prev + cur + line[i+1].Level) / 3
		prev = cur
	}
}
