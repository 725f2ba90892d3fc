package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/leandrodaf/ewibreath/internal/app"
	"github.com/leandrodaf/ewibreath/internal/breath"
	"github.com/leandrodaf/ewibreath/internal/logger"
	"github.com/leandrodaf/ewibreath/sdk/contracts"
	"github.com/leandrodaf/ewibreath/sdk/midi"
	"github.com/spf13/cobra"
)

var flags struct {
	device      int
	cc          uint8
	window      time.Duration
	gap         time.Duration
	fps         int
	smooth      bool
	logFile     string
	logLevel    string
	snapshotDir string
	buffer      int
}

// The trainer only looks at channel voice messages that can carry breath or
// show up in the debug panel.
var trainerFilter = contracts.MIDIEventFilter{
	Commands: []contracts.MIDICommand{
		contracts.NoteOn,
		contracts.NoteOff,
		contracts.ControlChange,
		contracts.ChannelAftertouch,
		contracts.PitchBend,
	},
}

var rootCmd = &cobra.Command{
	Use:   "ewibreath",
	Short: "Breath control trainer for EWI players",
	Long: `ewibreath reads notes and breath controller data from a MIDI wind
instrument and draws the breath level of every note as a coloured line,
together with running statistics for the note being held.

Keys: ESC quit, D debug panel, C clear, 1-9 select CC, Tab cycle CC, S snapshot.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	f := rootCmd.Flags()
	f.IntVar(&flags.device, "device", app.AutoDevice, "input device index (-1 picks the first input)")
	f.Uint8Var(&flags.cc, "cc", breath.DefaultController, "controller number read as breath")
	f.DurationVar(&flags.window, "window", breath.DefaultWindow, "history shown on the graph")
	f.DurationVar(&flags.gap, "gap", breath.DefaultGapThreshold, "longest silence bridged between notes")
	f.IntVar(&flags.fps, "fps", app.DefaultFPS, "frames and samples per second")
	f.BoolVar(&flags.smooth, "smooth", true, "smooth the trace with a moving average")
	f.StringVar(&flags.snapshotDir, "snapshot-dir", ".", "directory for PNG snapshots")
	f.IntVar(&flags.buffer, "buffer", contracts.DefaultBufferSize, "MIDI event buffer size")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.logFile, "log-file", "ewibreath.log", "log file")
	pf.StringVar(&flags.logLevel, "log-level", "info", "log level: debug, info, warn, error")
}

// Execute runs the command line and exits non-zero on error.
func Execute(ctx context.Context) {
	cobra.CheckErr(rootCmd.ExecuteContext(ctx))
}

func appOptions() []app.Option {
	return []app.Option{
		app.WithDevice(flags.device),
		app.WithController(flags.cc),
		app.WithWindow(flags.window),
		app.WithGapThreshold(flags.gap),
		app.WithFPS(flags.fps),
		app.WithSmoothing(flags.smooth),
		app.WithSnapshotDir(flags.snapshotDir),
		app.WithBufferSize(flags.buffer),
	}
}

func run(ctx context.Context) error {
	level, err := contracts.ParseLogLevel(flags.logLevel)
	if err != nil {
		return err
	}
	// the terminal belongs to the UI, so logs go to a file
	log, err := logger.NewFileLogger(flags.logFile, level)
	if err != nil {
		return err
	}
	defer log.Close()

	client, err := midi.NewMIDIClient(
		contracts.WithLogger(log),
		contracts.WithLogLevel(level),
		contracts.WithMIDIEventFilter(trainerFilter),
	)
	if err != nil {
		log.Error("MIDI unavailable; running without input", log.Field().Error("error", err))
		client = app.NewOfflineClient(err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		_ = client.Stop()
		return fmt.Errorf("create terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		_ = client.Stop()
		return fmt.Errorf("init terminal screen: %w", err)
	}
	defer screen.Fini()

	trainer, err := app.New(client, screen, log, appOptions()...)
	if err != nil {
		_ = client.Stop()
		return err
	}
	return trainer.Run(ctx)
}
