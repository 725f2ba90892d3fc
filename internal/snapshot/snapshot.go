// Package snapshot exports the breath graph to PNG files.
package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/leandrodaf/ewibreath/internal/breath"
	"github.com/leandrodaf/ewibreath/sdk/contracts"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	DefaultWidth  = 1280
	DefaultHeight = 480
)

// ErrNothingToExport is returned when the view has no drawable trace.
var ErrNothingToExport = errors.New("nothing to export: no trace in the window")

// Exporter writes numbered PNG snapshots for one run of the program.
type Exporter struct {
	dir    string
	id     string
	width  int
	height int
	logger contracts.Logger

	mu sync.Mutex
	n  int
}

// NewExporter creates an exporter writing into dir. Files are named after a
// random run id so concurrent runs never collide.
func NewExporter(dir string, logger contracts.Logger) *Exporter {
	return &Exporter{
		dir:    dir,
		id:     uuid.NewString()[:8],
		width:  DefaultWidth,
		height: DefaultHeight,
		logger: logger,
	}
}

// Export renders v and writes it to the next file in the sequence.
func (e *Exporter) Export(v breath.View) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, v, e.width, e.height); err != nil {
		return "", err
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	e.mu.Lock()
	e.n++
	path := filepath.Join(e.dir, fmt.Sprintf("ewibreath-%s-%03d.png", e.id, e.n))
	e.mu.Unlock()

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	if e.logger != nil {
		e.logger.Info("Snapshot written",
			e.logger.Field().String("path", path),
			e.logger.Field().Int("polylines", len(v.Polylines)),
		)
	}
	return path, nil
}

// Render draws the traces of v as a PNG chart.
func Render(w io.Writer, v breath.View, width, height int) error {
	var series []chart.Series
	for _, pl := range v.Polylines {
		if len(pl) < 2 {
			continue
		}
		series = append(series, traceSeries(pl))
	}
	if len(series) == 0 {
		return ErrNothingToExport
	}

	if v.Stats.Defined {
		start, end := v.Now.Add(-v.Window), v.Now
		series = append(series, chart.TimeSeries{
			Name:    "mean",
			XValues: []time.Time{start, end},
			YValues: []float64{v.Stats.Mean, v.Stats.Mean},
			Style: chart.Style{
				StrokeColor:     drawing.Color{R: 255, G: 60, B: 60, A: 255},
				StrokeWidth:     1,
				StrokeDashArray: []float64{5, 5},
			},
		})
	}

	ch := chart.Chart{
		Title:      title(v),
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:           "Time",
			ValueFormatter: chart.TimeValueFormatterWithFormat("15:04:05"),
		},
		YAxis: chart.YAxis{
			Name:  "Level",
			Range: &chart.ContinuousRange{Min: 0, Max: breath.MaxLevel},
			Ticks: []chart.Tick{
				{Value: 0, Label: "0"},
				{Value: 32, Label: "32"},
				{Value: 64, Label: "64"},
				{Value: 96, Label: "96"},
				{Value: breath.MaxLevel, Label: "127"},
			},
		},
		Series: series,
	}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

func traceSeries(pl breath.Polyline) chart.TimeSeries {
	xs := make([]time.Time, len(pl))
	ys := make([]float64, len(pl))
	for i, p := range pl {
		xs[i], ys[i] = p.At, p.Level
	}
	c := breath.ColorOf(pl[0].Color)
	return chart.TimeSeries{
		Name:    breath.NoteName(pl[0].Note),
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeColor: drawing.Color{R: c.R, G: c.G, B: c.B, A: 255},
			StrokeWidth: 2,
		},
	}
}

func title(v breath.View) string {
	if !v.Stats.Defined {
		return "EWI Breath Trainer"
	}
	return fmt.Sprintf("EWI Breath Trainer - %s - mean %.1f, consistency %.1f%%", v.NoteName, v.Stats.Mean, v.Stats.Consistency)
}
