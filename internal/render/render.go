package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/leandrodaf/ewibreath/internal/breath"
	"github.com/mattn/go-runewidth"
)

const (
	// MinWidth and MinHeight are the smallest terminal the layout fits in.
	MinWidth  = 64
	MinHeight = 18

	headerRows   = 9
	axisWidth    = 4
	legendWidth  = 18
	debugWidth   = 44
	legendColumn = 8 // notes per legend column
)

var (
	bgColor    = tcell.NewRGBColor(25, 25, 25)
	textColor  = tcell.NewRGBColor(230, 230, 230)
	dimColor   = tcell.NewRGBColor(110, 110, 110)
	debugColor = tcell.NewRGBColor(255, 255, 100)
	meanColor  = tcell.NewRGBColor(255, 60, 60)
	alertColor = tcell.NewRGBColor(255, 100, 100)

	baseStyle  = tcell.StyleDefault.Background(bgColor).Foreground(textColor)
	dimStyle   = baseStyle.Foreground(dimColor)
	debugStyle = baseStyle.Foreground(debugColor)
	meanStyle  = baseStyle.Foreground(meanColor)
	alertStyle = baseStyle.Foreground(alertColor).Bold(true)
	titleStyle = baseStyle.Bold(true)
)

// Renderer draws session views onto a tcell screen.
type Renderer struct {
	screen tcell.Screen
}

// New creates a renderer for an initialised screen.
func New(screen tcell.Screen) *Renderer {
	screen.SetStyle(baseStyle)
	return &Renderer{screen: screen}
}

// Draw renders one frame.
func (r *Renderer) Draw(v breath.View) {
	r.screen.Fill(' ', baseStyle)
	w, h := r.screen.Size()

	if w < MinWidth || h < MinHeight {
		msg := fmt.Sprintf("Terminal too small (%dx%d, need %dx%d)", w, h, MinWidth, MinHeight)
		r.text((w-runewidth.StringWidth(msg))/2, h/2, alertStyle, msg)
		r.screen.Show()
		return
	}

	side := legendWidth
	if v.Debug {
		side = debugWidth
	}

	r.header(v, w)
	r.graph(v, plot{
		x:      axisWidth + 1,
		y:      headerRows,
		width:  w - side - axisWidth - 2,
		height: h - headerRows - 2,
		start:  v.Now.Add(-v.Window),
		span:   v.Window,
	})

	if v.Debug {
		r.debugPanel(v, w-side+1, 1, h-2)
	} else {
		r.legend(v, w-side+1, 1, h-2)
	}
	r.help(v, h-1)

	r.screen.Show()
}

func (r *Renderer) header(v breath.View, w int) {
	r.text(1, 0, titleStyle, "EWI Breath Trainer")
	if !v.Connected {
		r.text(22, 0, alertStyle, "No MIDI device connected - retrying")
	} else if v.Device != "" {
		r.text(22, 0, dimStyle, v.Device)
	}

	r.text(1, 1, titleStyle, "Note: "+v.NoteName)
	level := fmt.Sprintf("Velocity: %d", v.Level)
	if v.Debug {
		level += fmt.Sprintf(" (CC%d)", v.Controller)
	}
	r.text(1, 2, titleStyle, level)
	r.text(1, 3, baseStyle, fmt.Sprintf("Time: %.2f seconds", v.Held.Seconds()))

	if v.Debug {
		return
	}

	st := v.Stats
	r.text(1, 4, baseStyle, "Statistics:")
	r.text(3, 5, baseStyle, fmt.Sprintf("Mean: %6.2f   Std Dev: %6.2f", st.Mean, st.StdDev))
	r.text(3, 6, baseStyle, fmt.Sprintf("Min:  %6.0f   Max:     %6.0f", st.Min, st.Max))
	score := "Consistency Score: —"
	if st.Defined {
		score = fmt.Sprintf("Consistency Score: %.1f%%", st.Consistency)
	}
	r.text(3, 7, baseStyle.Foreground(scoreColor(st)), score)
}

func scoreColor(st breath.Stats) tcell.Color {
	switch {
	case !st.Defined:
		return textColor
	case st.Consistency >= 80:
		return tcell.NewRGBColor(100, 255, 100)
	case st.Consistency >= 50:
		return debugColor
	default:
		return alertColor
	}
}

func (r *Renderer) graph(v breath.View, p plot) {
	if p.width < 2 || p.height < 2 {
		return
	}

	// axis and ticks
	for y := p.y; y < p.y+p.height; y++ {
		r.screen.SetContent(p.x-1, y, '│', nil, dimStyle)
	}
	for _, tick := range []float64{0, 32, 64, 96, breath.MaxLevel} {
		y := p.row(tick)
		r.text(0, y, dimStyle, fmt.Sprintf("%3.0f", tick))
		r.screen.SetContent(p.x-1, y, '┤', nil, dimStyle)
	}
	for x := p.x; x < p.x+p.width; x++ {
		r.screen.SetContent(x, p.y+p.height, '─', nil, dimStyle)
	}
	r.screen.SetContent(p.x-1, p.y+p.height, '└', nil, dimStyle)

	if v.Active && v.Stats.Defined {
		y := p.row(v.Stats.Mean)
		for x := p.x; x < p.x+p.width; x += 2 {
			r.screen.SetContent(x, y, '╌', nil, meanStyle)
		}
	}

	for _, pl := range v.Polylines {
		if len(pl) == 1 {
			r.plotCell(p, p.col(pl[0].At), p.row(pl[0].Level), pl[0].Color)
			continue
		}
		for i := 0; i+1 < len(pl); i++ {
			a, b := pl[i], pl[i+1]
			color := a.Color
			line(p.col(a.At), p.row(a.Level), p.col(b.At), p.row(b.Level), func(x, y int) {
				r.plotCell(p, x, y, color)
			})
		}
	}
}

func (r *Renderer) plotCell(p plot, x, y, color int) {
	if !p.contains(x, y) {
		return
	}
	r.screen.SetContent(x, y, '•', nil, baseStyle.Foreground(paletteColor(color)))
}

func paletteColor(index int) tcell.Color {
	c := breath.ColorOf(index)
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (r *Renderer) legend(v breath.View, x, y, bottom int) {
	if len(v.Legend) == 0 {
		return
	}
	r.text(x, y, titleStyle, "Notes:")
	col, row := x, y+1
	for i, entry := range v.Legend {
		if row >= bottom {
			break
		}
		r.screen.SetContent(col, row, '■', nil, baseStyle.Foreground(paletteColor(entry.Color)))
		r.text(col+2, row, baseStyle, entry.Name)
		row++
		if i%legendColumn == legendColumn-1 {
			col += legendWidth / 2
			row = y + 1
			if col >= x+legendWidth-2 {
				break
			}
		}
	}
}

func (r *Renderer) debugPanel(v breath.View, x, y, bottom int) {
	r.text(x, y, debugStyle, "DEBUG MODE (D to toggle)")
	r.text(x, y+1, baseStyle, fmt.Sprintf("Velocity source: CC%d %s", v.Controller, breath.ControllerName(v.Controller)))

	row := y + 3
	r.text(x, row, titleStyle, "Current CC values:")
	row++
	msgRows := len(v.Messages) + 2
	for _, cv := range v.Controllers {
		if row >= bottom-msgRows {
			break
		}
		style := baseStyle
		if cv.Selected {
			style = debugStyle
		}
		r.text(x+1, row, style, fmt.Sprintf("CC%-3d %-14s %3d", cv.Controller, breath.ControllerName(cv.Controller), cv.Value))
		row++
	}

	row++
	r.text(x, row, titleStyle, "Recent MIDI messages:")
	row++
	for _, msg := range v.Messages {
		if row >= bottom {
			break
		}
		r.text(x+1, row, baseStyle, msg)
		row++
	}
}

func (r *Renderer) help(v breath.View, y int) {
	msg := "ESC quit | D debug | C clear | 1-9 select CC | Tab cycle CC | S snapshot"
	if !v.Debug {
		msg = "Press ESC to quit, D for debug, C to clear history, S to save a snapshot"
	}
	r.text(1, y, dimStyle, msg)
}

// text draws s from (x, y), clipped to the screen, and returns the next column.
func (r *Renderer) text(x, y int, style tcell.Style, s string) int {
	w, h := r.screen.Size()
	if y < 0 || y >= h {
		return x
	}
	for _, ch := range s {
		if x >= w {
			break
		}
		if x >= 0 {
			r.screen.SetContent(x, y, ch, nil, style)
		}
		x += max(1, runewidth.RuneWidth(ch))
	}
	return x
}

// Status replaces the help line with a transient message.
func (r *Renderer) Status(msg string) {
	w, h := r.screen.Size()
	r.text(1, h-1, debugStyle, msg+strings.Repeat(" ", max(0, w-runewidth.StringWidth(msg)-2)))
	r.screen.Show()
}
