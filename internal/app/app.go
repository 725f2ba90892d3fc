// Package app runs the trainer: it owns the session and drives it from MIDI
// input, key presses and the frame ticker.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode"

	"github.com/bep/debounce"
	"github.com/gdamore/tcell/v2"
	"github.com/leandrodaf/ewibreath/internal/breath"
	"github.com/leandrodaf/ewibreath/internal/render"
	"github.com/leandrodaf/ewibreath/internal/snapshot"
	"github.com/leandrodaf/ewibreath/sdk/contracts"
	"go.uber.org/multierr"
)

const statusDuration = 3 * time.Second

type snapResult struct {
	path string
	err  error
}

// App is the event loop. Everything except the snapshot writer runs on the
// goroutine that called Run.
type App struct {
	cfg      Config
	logger   contracts.Logger
	client   contracts.ClientMIDI
	screen   tcell.Screen
	session  *breath.Session
	renderer *render.Renderer
	exporter *snapshot.Exporter
	debounce func(func())

	events  chan contracts.MIDI
	keys    chan tcell.Event
	results chan snapResult

	device      string
	connected   bool
	lastScan    time.Time
	status      string
	statusUntil time.Time

	now func() time.Time
}

// New wires an application around an initialised screen and a MIDI client.
func New(client contracts.ClientMIDI, screen tcell.Screen, logger contracts.Logger, opts ...Option) (*App, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &App{
		cfg:      cfg,
		logger:   logger,
		client:   client,
		screen:   screen,
		session:  breath.NewSession(cfg.session()),
		renderer: render.New(screen),
		exporter: snapshot.NewExporter(cfg.SnapshotDir, logger),
		debounce: debounce.New(cfg.SnapshotDebounce),
		events:   make(chan contracts.MIDI, cfg.BufferSize),
		keys:     make(chan tcell.Event, 16),
		results:  make(chan snapResult, 4),
		now:      time.Now,
	}, nil
}

// Session exposes the session state; it must only be read once Run returned.
func (a *App) Session() *breath.Session {
	return a.session
}

// Run processes events until ctx is cancelled or the user quits. The MIDI
// client is stopped before Run returns.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		if r := recover(); r != nil {
			a.screen.Fini()
			panic(r)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.logger.Info("Trainer started",
		a.logger.Field().Int("controller", int(a.cfg.Controller)),
		a.logger.Field().Duration("window", a.cfg.Window),
		a.logger.Field().Int("fps", a.cfg.FPS))

	a.client.StartCapture(a.events)
	a.scanDevices(a.now())
	go a.pollEvents(ctx)

	ticker := time.NewTicker(a.cfg.frame())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return a.shutdown()
		case ev := <-a.events:
			a.session.HandleMIDI(ev, a.now())
		case ev := <-a.keys:
			if !a.handleEvent(ev) {
				return a.shutdown()
			}
		case res := <-a.results:
			a.reportSnapshot(res)
		case <-ticker.C:
			a.frame(a.now())
		}
	}
}

func (a *App) pollEvents(ctx context.Context) {
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			// screen finalised
			return
		}
		select {
		case a.keys <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) frame(now time.Time) {
	a.session.Tick(now)
	if now.Sub(a.lastScan) >= a.cfg.RescanInterval {
		a.scanDevices(now)
	}
	a.renderer.Draw(a.session.View(now))
	if a.status != "" && now.Before(a.statusUntil) {
		a.renderer.Status(a.status)
	}
}

// handleEvent applies a terminal event and reports whether to keep running.
func (a *App) handleEvent(ev tcell.Event) bool {
	now := a.now()
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			a.logger.Info("Quit requested")
			return false
		case tcell.KeyTab:
			a.session.CycleController(now)
			a.logger.Debug("Breath controller changed", a.logger.Field().Int("controller", int(a.session.Controller())))
		case tcell.KeyRune:
			switch r := unicode.ToLower(ev.Rune()); {
			case r == 'd':
				a.session.ToggleDebug(now)
			case r == 'c':
				a.session.Clear(now)
			case r == 's':
				a.requestSnapshot(now)
			case r >= '1' && r <= '9':
				a.session.SelectController(uint8(r-'0'), now)
				a.logger.Debug("Breath controller changed", a.logger.Field().Int("controller", int(r-'0')))
			}
		}
	}
	return true
}

func (a *App) requestSnapshot(now time.Time) {
	v := a.session.View(now)
	a.debounce(func() {
		path, err := a.exporter.Export(v)
		select {
		case a.results <- snapResult{path: path, err: err}:
		default:
		}
	})
}

func (a *App) reportSnapshot(res snapResult) {
	now := a.now()
	switch {
	case errors.Is(res.err, snapshot.ErrNothingToExport):
		a.setStatus(now, "Nothing to save yet")
	case res.err != nil:
		a.logger.Error("Snapshot failed", a.logger.Field().Error("error", res.err))
		a.setStatus(now, "Snapshot failed: "+res.err.Error())
	default:
		a.setStatus(now, "Saved "+res.path)
	}
	a.session.Note(now, "%s", a.status)
}

func (a *App) setStatus(now time.Time, msg string) {
	a.status, a.statusUntil = msg, now.Add(statusDuration)
}

func (a *App) shutdown() error {
	var err error
	if stopErr := a.client.Stop(); stopErr != nil {
		err = multierr.Append(err, fmt.Errorf("stop MIDI client: %w", stopErr))
	}
	a.logger.Info("Trainer stopped")
	if syncErr := a.logger.Sync(); syncErr != nil {
		err = multierr.Append(err, fmt.Errorf("flush log: %w", syncErr))
	}
	return err
}
