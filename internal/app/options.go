package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/leandrodaf/ewibreath/internal/breath"
	"github.com/leandrodaf/ewibreath/sdk/contracts"
)

const (
	DefaultFPS              = 30
	DefaultRescanInterval   = 2 * time.Second
	DefaultSnapshotDebounce = 500 * time.Millisecond
	// AutoDevice selects the first available input.
	AutoDevice = -1
)

// ErrInvalidConfig is returned by New when an option is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the application settings.
type Config struct {
	DeviceIndex      int
	Controller       uint8
	Window           time.Duration
	GapThreshold     time.Duration
	FPS              int
	Smooth           bool
	SnapshotDir      string
	BufferSize       int // capacity of the MIDI event channel
	RescanInterval   time.Duration
	SnapshotDebounce time.Duration
}

// Option is a function that modifies Config.
type Option func(*Config)

// WithDevice picks the input by index; AutoDevice takes the first one.
func WithDevice(index int) Option {
	return func(c *Config) {
		c.DeviceIndex = index
	}
}

// WithController sets the CC number read as breath.
func WithController(cc uint8) Option {
	return func(c *Config) {
		c.Controller = cc
	}
}

// WithWindow sets how much history the graph shows.
func WithWindow(d time.Duration) Option {
	return func(c *Config) {
		c.Window = d
	}
}

// WithGapThreshold sets the longest silence bridged between readings.
func WithGapThreshold(d time.Duration) Option {
	return func(c *Config) {
		c.GapThreshold = d
	}
}

// WithFPS sets the frame and sampling rate.
func WithFPS(fps int) Option {
	return func(c *Config) {
		c.FPS = fps
	}
}

// WithSmoothing toggles the moving average over the trace.
func WithSmoothing(on bool) Option {
	return func(c *Config) {
		c.Smooth = on
	}
}

// WithSnapshotDir sets where PNG snapshots are written.
func WithSnapshotDir(dir string) Option {
	return func(c *Config) {
		c.SnapshotDir = dir
	}
}

// WithBufferSize sets the capacity of the MIDI event channel.
func WithBufferSize(n int) Option {
	return func(c *Config) {
		c.BufferSize = n
	}
}

// WithRescanInterval sets how often inputs are enumerated.
func WithRescanInterval(d time.Duration) Option {
	return func(c *Config) {
		c.RescanInterval = d
	}
}

// WithSnapshotDebounce sets the quiet period before a snapshot is written.
func WithSnapshotDebounce(d time.Duration) Option {
	return func(c *Config) {
		c.SnapshotDebounce = d
	}
}

// DefaultConfig returns the settings used when no option is given.
func DefaultConfig() Config {
	return Config{
		DeviceIndex:      AutoDevice,
		Controller:       breath.DefaultController,
		Window:           breath.DefaultWindow,
		GapThreshold:     breath.DefaultGapThreshold,
		FPS:              DefaultFPS,
		Smooth:           true,
		SnapshotDir:      ".",
		BufferSize:       contracts.DefaultBufferSize,
		RescanInterval:   DefaultRescanInterval,
		SnapshotDebounce: DefaultSnapshotDebounce,
	}
}

func applyOptions(opts ...Option) (Config, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch {
	case c.Controller > breath.MaxLevel:
		return fmt.Errorf("%w: controller %d is not a 7-bit CC number", ErrInvalidConfig, c.Controller)
	case c.Window <= 0:
		return fmt.Errorf("%w: window must be positive", ErrInvalidConfig)
	case c.GapThreshold <= 0:
		return fmt.Errorf("%w: gap threshold must be positive", ErrInvalidConfig)
	case c.FPS < 1 || c.FPS > 120:
		return fmt.Errorf("%w: fps %d outside 1-120", ErrInvalidConfig, c.FPS)
	case c.BufferSize < 1:
		return fmt.Errorf("%w: buffer size must be at least 1", ErrInvalidConfig)
	case c.RescanInterval <= 0:
		return fmt.Errorf("%w: rescan interval must be positive", ErrInvalidConfig)
	}
	return nil
}

func (c Config) frame() time.Duration {
	return time.Second / time.Duration(c.FPS)
}

func (c Config) session() breath.Config {
	cont := breath.DefaultContinuityConfig()
	cont.GapThreshold = c.GapThreshold
	cont.SampleInterval = c.frame()
	cont.Smooth = c.Smooth
	return breath.Config{
		Window:      c.Window,
		Controller:  c.Controller,
		Sensitivity: breath.DefaultSensitivity,
		Continuity:  cont,
	}
}
