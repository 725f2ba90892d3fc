package breath

import (
	"sort"
	"time"

	"github.com/leandrodaf/ewibreath/sdk/contracts"
)

const (
	// DebugCapacity is how many debug messages are retained.
	DebugCapacity = 20
	// DebugVisible is how many of them the panel shows.
	DebugVisible = 10
)

// Config holds the tunables of a practice session.
type Config struct {
	Window      time.Duration
	Controller  uint8
	Sensitivity float64
	Continuity  ContinuityConfig
}

// DefaultConfig returns the settings used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Window:      DefaultWindow,
		Controller:  DefaultController,
		Sensitivity: DefaultSensitivity,
		Continuity:  DefaultContinuityConfig(),
	}
}

// ControllerValue is the last value seen on one CC number.
type ControllerValue struct {
	Controller uint8
	Value      uint8
	Selected   bool
}

// LegendEntry pairs a note with the colour of its latest visible segment.
type LegendEntry struct {
	Note  uint8
	Name  string
	Color int
}

// View is everything a frame needs, computed from the session at one instant.
type View struct {
	Now         time.Time
	Window      time.Duration
	HasNote     bool
	NoteName    string
	Active      bool
	Level       uint8
	Controller  uint8
	Held        time.Duration
	Stats       Stats
	Polylines   []Polyline
	Legend      []LegendEntry
	Debug       bool
	Messages    []string
	Controllers []ControllerValue
	Device      string
	Connected   bool
}

// Session is the application state driven by the render loop. It is not safe
// for concurrent use; the loop goroutine owns it.
type Session struct {
	cfg       Config
	interp    Interpreter
	history   *History
	stats     RunningStats
	note      uint8
	hasNote   bool
	active    bool
	level     uint8
	noteStart time.Time
	held      time.Duration
	cc        map[uint8]uint8
	debug     bool
	messages  []string
	device    string
	connected bool
}

// NewSession creates a session; zero fields in cfg take their defaults.
func NewSession(cfg Config) *Session {
	def := DefaultConfig()
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.Controller > MaxLevel {
		cfg.Controller = def.Controller
	}
	if cfg.Sensitivity <= 0 {
		cfg.Sensitivity = def.Sensitivity
	}
	if cfg.Continuity.GapThreshold <= 0 {
		cfg.Continuity.GapThreshold = def.Continuity.GapThreshold
	}
	if cfg.Continuity.FillFloor <= 0 {
		cfg.Continuity.FillFloor = def.Continuity.FillFloor
	}
	return &Session{
		cfg:     cfg,
		interp:  Interpreter{Controller: cfg.Controller},
		history: NewHistory(cfg.Window),
		cc:      make(map[uint8]uint8),
	}
}

// HandleMIDI interprets raw and applies the resulting events.
func (s *Session) HandleMIDI(raw contracts.MIDI, now time.Time) {
	for _, ev := range s.interp.Interpret(raw) {
		s.Apply(ev, now)
	}
}

// Apply updates the session for one domain event.
func (s *Session) Apply(ev Event, now time.Time) {
	switch ev.Kind {
	case NoteStarted:
		s.note, s.hasNote, s.active = ev.Note, true, true
		s.level = ev.Velocity
		s.noteStart, s.held = now, 0
		s.history.BeginSegment(ev.Note, now)
		s.stats.Reset()
	case NoteEnded:
		// legato fingering sends the next note-on before this note-off
		if s.hasNote && ev.Note == s.note {
			s.active = false
		}
	case BreathLevelChanged:
		s.level = ev.Value
	case ControllerChanged:
		s.cc[ev.Controller] = ev.Value
		// BreathLevelChanged follows and carries the debug line
		if ev.Controller == s.interp.Controller {
			return
		}
	}
	if s.debug {
		s.logf(now, "%s", Describe(ev))
	}
}

// Tick samples the breath level for the active note and ages out old history.
func (s *Session) Tick(now time.Time) {
	if s.active {
		if _, ok := s.history.Append(s.level, now); ok && s.level > 0 {
			s.stats.Add(float64(s.level))
		}
		s.held = now.Sub(s.noteStart)
	}
	s.history.Evict(now)
}

// Clear empties the history and resets statistics and colours. A note that is
// still sounding continues in a fresh segment.
func (s *Session) Clear(now time.Time) {
	s.history.Clear()
	s.stats.Reset()
	if s.active {
		s.history.BeginSegment(s.note, now)
	}
	if s.debug {
		s.logf(now, "History cleared")
	}
}

// SelectController makes cc the breath source.
func (s *Session) SelectController(cc uint8, now time.Time) {
	if cc > MaxLevel {
		return
	}
	s.interp.Controller = cc
	s.cfg.Controller = cc
	if v, ok := s.cc[cc]; ok && s.active {
		s.level = v
	}
	if s.debug {
		s.logf(now, "Selected CC%d for velocity", cc)
	}
}

// CycleController steps through CommonControllers.
func (s *Session) CycleController(now time.Time) {
	next := CommonControllers[0]
	for i, cc := range CommonControllers {
		if cc == s.interp.Controller {
			next = CommonControllers[(i+1)%len(CommonControllers)]
			break
		}
	}
	s.SelectController(next, now)
}

// Controller returns the selected breath CC.
func (s *Session) Controller() uint8 {
	return s.interp.Controller
}

// ToggleDebug switches the debug panel. Turning it off discards the log.
func (s *Session) ToggleDebug(now time.Time) {
	s.debug = !s.debug
	if s.debug {
		s.logf(now, "Debug mode enabled")
	} else {
		s.messages = nil
	}
}

// Debug reports whether the debug panel is shown.
func (s *Session) Debug() bool {
	return s.debug
}

// Note logs an application message to the debug panel when it is shown.
func (s *Session) Note(now time.Time, format string, args ...any) {
	if s.debug {
		s.logf(now, format, args...)
	}
}

// SetDevice records the input device state shown in the status line.
func (s *Session) SetDevice(name string, connected bool) {
	s.device, s.connected = name, connected
}

// Stats returns the statistics of the current segment.
func (s *Session) Stats() Stats {
	return s.stats.Snapshot(s.cfg.Sensitivity)
}

// History exposes the sample buffer.
func (s *Session) History() *History {
	return s.history
}

// Polylines runs the continuity engine over the current history.
func (s *Session) Polylines() []Polyline {
	return s.history.Polylines(s.cfg.Continuity)
}

// Legend lists each note in the window once, in order of first appearance,
// with the colour of its most recent segment.
func (s *Session) Legend() []LegendEntry {
	visible := make(map[int]bool)
	for _, sample := range s.history.Samples() {
		visible[sample.Segment] = true
	}

	var entries []LegendEntry
	index := make(map[uint8]int)
	for _, seg := range s.history.Segments() {
		if !visible[seg.ID] {
			continue
		}
		if i, ok := index[seg.Note]; ok {
			entries[i].Color = seg.Color
			continue
		}
		index[seg.Note] = len(entries)
		entries = append(entries, LegendEntry{Note: seg.Note, Name: NoteName(seg.Note), Color: seg.Color})
	}
	return entries
}

// View snapshots the session for rendering.
func (s *Session) View(now time.Time) View {
	v := View{
		Now:        now,
		Window:     s.history.Window(),
		HasNote:    s.hasNote,
		NoteName:   "No note",
		Active:     s.active,
		Level:      s.level,
		Controller: s.interp.Controller,
		Held:       s.held,
		Stats:      s.Stats(),
		Polylines:  s.Polylines(),
		Legend:     s.Legend(),
		Debug:      s.debug,
		Device:     s.device,
		Connected:  s.connected,
	}
	if s.hasNote {
		v.NoteName = NoteName(s.note)
	}
	if s.debug {
		start := len(s.messages) - DebugVisible
		if start < 0 {
			start = 0
		}
		v.Messages = append([]string(nil), s.messages[start:]...)
		v.Controllers = s.controllerValues()
	}
	return v
}

func (s *Session) controllerValues() []ControllerValue {
	out := make([]ControllerValue, 0, len(s.cc))
	for cc, val := range s.cc {
		out = append(out, ControllerValue{Controller: cc, Value: val, Selected: cc == s.interp.Controller})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Controller < out[j].Controller })
	return out
}
