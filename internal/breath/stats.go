package breath

import (
	"math"

	"golang.org/x/exp/constraints"
)

// DefaultSensitivity scales the coefficient of variation in the consistency
// score. At 8, a spread of 12.5% of the mean scores 50.
const DefaultSensitivity = 8.0

// RunningStats accumulates mean and variance with Welford's method.
// The zero value is ready to use.
type RunningStats struct {
	count    int
	mean     float64
	m2       float64
	min, max float64
}

// Add folds one observation into the accumulator.
func (s *RunningStats) Add(x float64) {
	s.count++
	if s.count == 1 {
		s.min, s.max = x, x
	} else {
		s.min = math.Min(s.min, x)
		s.max = math.Max(s.max, x)
	}
	delta := x - s.mean
	s.mean += delta / float64(s.count)
	s.m2 += delta * (x - s.mean)
}

// Reset discards every observation.
func (s *RunningStats) Reset() {
	*s = RunningStats{}
}

func (s *RunningStats) Count() int    { return s.count }
func (s *RunningStats) Mean() float64 { return s.mean }
func (s *RunningStats) Min() float64  { return s.min }
func (s *RunningStats) Max() float64  { return s.max }

// Variance is the population variance, zero with fewer than two observations.
func (s *RunningStats) Variance() float64 {
	if s.count < 2 {
		return 0
	}
	return s.m2 / float64(s.count)
}

// StdDev is the population standard deviation.
func (s *RunningStats) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// Stats is a point-in-time copy of a RunningStats.
type Stats struct {
	Count       int
	Mean        float64
	StdDev      float64
	Min         float64
	Max         float64
	Consistency float64
	// Defined is false until at least one non-zero sample was seen.
	Defined bool
}

// Snapshot copies the accumulator and derives the consistency score.
func (s *RunningStats) Snapshot(sensitivity float64) Stats {
	if s.count == 0 {
		return Stats{}
	}
	std := s.StdDev()
	return Stats{
		Count:       s.count,
		Mean:        s.mean,
		StdDev:      std,
		Min:         s.min,
		Max:         s.max,
		Consistency: ConsistencyScore(s.mean, std, sensitivity),
		Defined:     s.mean > 0,
	}
}

// ConsistencyScore maps the coefficient of variation to [0, 100]: 100 for a
// perfectly steady tone, falling as the spread grows relative to the mean.
// A non-positive mean has no meaningful score and yields 0.
func ConsistencyScore(mean, stddev, sensitivity float64) float64 {
	if mean <= 0 {
		return 0
	}
	cv := math.Abs(stddev) / mean
	return clamp(100/(1+sensitivity*cv), 0, 100)
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
