package breath

import "time"

// DefaultWindow is how much history the graph shows.
const DefaultWindow = 10 * time.Second

// Sample is one breath reading taken while a note was sounding.
type Sample struct {
	At      time.Time
	Segment int
	Note    uint8
	Level   uint8
}

// NoteSegment is a contiguous run of samples for one note-on.
type NoteSegment struct {
	ID    int
	Note  uint8
	Color int // index into Palette
	Start time.Time
}

// History is the time-bounded sample buffer behind the graph. Samples are
// kept in timestamp order and evicted once they fall out of the window.
type History struct {
	window   time.Duration
	samples  []Sample
	segments []NoteSegment // ascending ID; the last one is current
	colors   colorCycle
	nextID   int
}

// NewHistory creates an empty history covering window.
func NewHistory(window time.Duration) *History {
	if window <= 0 {
		window = DefaultWindow
	}
	return &History{window: window}
}

// Window returns the display window length.
func (h *History) Window() time.Duration {
	return h.window
}

// BeginSegment opens a new segment for note and assigns it the next colour.
// A repeated pitch still gets a fresh segment.
func (h *History) BeginSegment(note uint8, at time.Time) NoteSegment {
	seg := NoteSegment{
		ID:    h.nextID,
		Note:  note,
		Color: h.colors.take(),
		Start: at,
	}
	h.nextID++
	h.segments = append(h.segments, seg)
	return seg
}

// Current returns the most recently opened segment.
func (h *History) Current() (NoteSegment, bool) {
	if len(h.segments) == 0 {
		return NoteSegment{}, false
	}
	return h.segments[len(h.segments)-1], true
}

// Append records a level for the current segment. A timestamp earlier than
// the last sample is moved forward so the sequence stays ordered.
func (h *History) Append(level uint8, at time.Time) (Sample, bool) {
	seg, ok := h.Current()
	if !ok {
		return Sample{}, false
	}
	if n := len(h.samples); n > 0 && at.Before(h.samples[n-1].At) {
		at = h.samples[n-1].At
	}
	s := Sample{At: at, Segment: seg.ID, Note: seg.Note, Level: level}
	h.samples = append(h.samples, s)
	return s, true
}

// Evict drops samples older than the window ending at now, along with the
// segments no remaining sample refers to. The current segment is kept.
func (h *History) Evict(now time.Time) {
	cutoff := now.Add(-h.window)

	i := 0
	for i < len(h.samples) && h.samples[i].At.Before(cutoff) {
		i++
	}
	if i > 0 {
		h.samples = append(h.samples[:0], h.samples[i:]...)
	}

	if len(h.segments) <= 1 {
		return
	}
	oldest := h.segments[len(h.segments)-1].ID
	if len(h.samples) > 0 && h.samples[0].Segment < oldest {
		oldest = h.samples[0].Segment
	}
	j := 0
	for j < len(h.segments)-1 && h.segments[j].ID < oldest {
		j++
	}
	if j > 0 {
		h.segments = append(h.segments[:0], h.segments[j:]...)
	}
}

// Samples returns the buffered samples. The slice must not be modified.
func (h *History) Samples() []Sample {
	return h.samples
}

// Segments returns the live segments, oldest first. The slice must not be modified.
func (h *History) Segments() []NoteSegment {
	return h.segments
}

// Segment looks up a live segment by ID.
func (h *History) Segment(id int) (NoteSegment, bool) {
	for _, seg := range h.segments {
		if seg.ID == id {
			return seg, true
		}
	}
	return NoteSegment{}, false
}

// Len is the number of buffered samples.
func (h *History) Len() int {
	return len(h.samples)
}

// Clear empties the buffer and restarts colour assignment.
func (h *History) Clear() {
	h.samples = nil
	h.segments = nil
	h.colors.reset()
}

// Polylines runs the continuity engine over the buffered samples.
func (h *History) Polylines(cfg ContinuityConfig) []Polyline {
	colorOf := func(id int) int {
		if seg, ok := h.Segment(id); ok {
			return seg.Color
		}
		return 0
	}
	return BuildPolylines(h.samples, colorOf, cfg)
}
