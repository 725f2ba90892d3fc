package render

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/leandrodaf/ewibreath/internal/breath"
	"github.com/leandrodaf/ewibreath/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func rowText(screen tcell.Screen, y int) string {
	w, _ := screen.Size()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		ch, _, _, _ := screen.GetContent(x, y)
		if ch == 0 {
			ch = ' '
		}
		sb.WriteRune(ch)
	}
	return sb.String()
}

func screenText(screen tcell.Screen) string {
	_, h := screen.Size()
	rows := make([]string, h)
	for y := range rows {
		rows[y] = rowText(screen, y)
	}
	return strings.Join(rows, "\n")
}

func countRune(screen tcell.Screen, want rune) int {
	w, h := screen.Size()
	n := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if ch, _, _, _ := screen.GetContent(x, y); ch == want {
				n++
			}
		}
	}
	return n
}

func activeView(now time.Time) breath.View {
	s := breath.NewSession(breath.DefaultConfig())
	s.SetDevice("EWI USB", true)
	s.HandleMIDI(noteOn(60, 90), now)
	for i := 0; i < 60; i++ {
		now = now.Add(breath.DefaultSampleInterval)
		s.Tick(now)
	}
	return s.View(now)
}

func noteOn(note, velocity byte) contracts.MIDI {
	return contracts.MIDI{Command: 0x90, Data1: note, Data2: velocity}
}

func TestDrawIdleSession(t *testing.T) {
	screen := newScreen(t, 100, 30)
	s := breath.NewSession(breath.DefaultConfig())

	New(screen).Draw(s.View(time.Now()))

	text := screenText(screen)
	assert.Contains(t, text, "EWI Breath Trainer")
	assert.Contains(t, text, "Note: No note")
	assert.Contains(t, text, "Consistency Score: —")
	assert.Contains(t, text, "No MIDI device connected")
	assert.Zero(t, countRune(screen, '•'))
}

func TestDrawActiveNote(t *testing.T) {
	screen := newScreen(t, 100, 30)
	v := activeView(time.Unix(1000, 0))

	New(screen).Draw(v)

	text := screenText(screen)
	assert.Contains(t, text, "Note: C4")
	assert.Contains(t, text, "Velocity: 90")
	assert.NotContains(t, text, "(CC7)")
	assert.Contains(t, text, "Time: 2.00 seconds")
	assert.Contains(t, text, "Consistency Score: 100.0%")
	assert.Contains(t, text, "EWI USB")
	assert.NotContains(t, text, "No MIDI device")

	assert.Positive(t, countRune(screen, '•'), "trace is drawn")
	assert.Positive(t, countRune(screen, '╌'), "mean line is drawn while the note is held")
	assert.Contains(t, text, "Notes:")
	assert.Contains(t, text, "■ C4")
}

func TestTraceUsesSegmentColour(t *testing.T) {
	screen := newScreen(t, 100, 30)
	New(screen).Draw(activeView(time.Unix(1000, 0)))

	want := paletteColor(0)
	w, h := screen.Size()
	found := false
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ch, _, style, _ := screen.GetContent(x, y)
			if ch != '•' {
				continue
			}
			fg, _, _ := style.Decompose()
			assert.Equal(t, want, fg)
			found = true
		}
	}
	assert.True(t, found)
}

func TestDrawDebugPanel(t *testing.T) {
	screen := newScreen(t, 100, 30)
	now := time.Unix(1000, 0)
	s := breath.NewSession(breath.DefaultConfig())
	s.ToggleDebug(now)
	s.HandleMIDI(noteOn(62, 70), now)
	s.HandleMIDI(contracts.MIDI{Command: 0xB0, Data1: 2, Data2: 33}, now)

	New(screen).Draw(s.View(now))

	text := screenText(screen)
	assert.Contains(t, text, "DEBUG MODE")
	assert.Contains(t, text, "Velocity: 70 (CC7)")
	assert.Contains(t, text, "Current CC values:")
	assert.Contains(t, text, "Breath")
	assert.Contains(t, text, "Recent MIDI messages:")
	assert.Contains(t, text, "Debug mode enabled")
	assert.NotContains(t, text, "Statistics:")
}

func TestDrawTooSmall(t *testing.T) {
	screen := newScreen(t, 40, 10)
	New(screen).Draw(activeView(time.Unix(1000, 0)))

	text := screenText(screen)
	assert.Contains(t, text, "Terminal too small")
	assert.True(t, strings.HasPrefix(rowText(screen, 5), " Terminal too small"), "notice is centred")
	assert.Zero(t, countRune(screen, '•'))
}

func TestStatusOverwritesHelpLine(t *testing.T) {
	screen := newScreen(t, 100, 30)
	r := New(screen)
	r.Draw(breath.NewSession(breath.DefaultConfig()).View(time.Now()))
	assert.Contains(t, rowText(screen, 29), "Press ESC to quit")

	r.Status("Saved snapshot.png")
	row := rowText(screen, 29)
	assert.Contains(t, row, "Saved snapshot.png")
	assert.NotContains(t, row, "Press ESC")
}

func TestTextAdvancesByDisplayWidth(t *testing.T) {
	screen := newScreen(t, 20, 2)
	r := New(screen)

	next := r.text(0, 0, baseStyle, "日本!")

	assert.Equal(t, 5, next)
	for x, want := range map[int]rune{0: '日', 2: '本', 4: '!'} {
		ch, _, _, _ := screen.GetContent(x, 0)
		assert.Equal(t, want, ch, "column %d", x)
	}
}

func TestStatusPadsByDisplayWidth(t *testing.T) {
	screen := newScreen(t, 30, 4)
	r := New(screen)
	screen.SetContent(27, 3, 'x', nil, baseStyle)
	screen.SetContent(28, 3, 'x', nil, baseStyle)
	screen.SetContent(29, 3, 'x', nil, baseStyle)

	r.Status("保存 ok")

	for x, want := range map[int]rune{27: ' ', 28: ' ', 29: 'x'} {
		ch, _, _, _ := screen.GetContent(x, 3)
		assert.Equal(t, want, ch, "column %d", x)
	}
}
