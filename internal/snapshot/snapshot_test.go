package snapshot

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/leandrodaf/ewibreath/internal/breath"
	"github.com/leandrodaf/ewibreath/internal/logger"
	"github.com/leandrodaf/ewibreath/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

func heldView(t *testing.T) breath.View {
	t.Helper()
	now := time.Unix(1000, 0)
	s := breath.NewSession(breath.DefaultConfig())
	s.HandleMIDI(contracts.MIDI{Command: byte(contracts.NoteOn), Data1: 67, Data2: 80}, now)
	for i := 0; i < 45; i++ {
		now = now.Add(breath.DefaultSampleInterval)
		if i == 20 {
			s.HandleMIDI(contracts.MIDI{Command: byte(contracts.ControlChange), Data1: 7, Data2: 95}, now)
		}
		s.Tick(now)
	}
	return s.View(now)
}

func TestRenderProducesPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, heldView(t), 640, 240))

	cfg, err := png.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 240, cfg.Height)
}

func TestRenderEmptyView(t *testing.T) {
	s := breath.NewSession(breath.DefaultConfig())
	err := Render(&bytes.Buffer{}, s.View(time.Now()), 640, 240)
	assert.ErrorIs(t, err, ErrNothingToExport)
}

func TestExportNumbersFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	core, logs := observer.New(zapcore.DebugLevel)
	e := NewExporter(dir, logger.NewZapLoggerWithCore(core))
	v := heldView(t)

	first, err := e.Export(v)
	require.NoError(t, err)
	second, err := e.Export(v)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasSuffix(first, "-001.png"), first)
	assert.True(t, strings.HasSuffix(second, "-002.png"), second)
	assert.Equal(t, dir, filepath.Dir(first))

	info, err := os.Stat(first)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	assert.Equal(t, 2, logs.FilterMessage("Snapshot written").Len())
}

func TestExportNothingWritesNoFile(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(dir, nil)

	_, err := e.Export(breath.NewSession(breath.DefaultConfig()).View(time.Now()))
	require.ErrorIs(t, err, ErrNothingToExport)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
