package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/leandrodaf/ewibreath/internal/breath"
	"github.com/leandrodaf/ewibreath/internal/logger"
	"github.com/leandrodaf/ewibreath/sdk/contracts"
	"github.com/leandrodaf/ewibreath/sdk/midi"
)

func main() {
	log := logger.NewZapLogger()

	client, err := midi.NewMIDIClient(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.InfoLevel),
		contracts.WithMIDIEventFilter(contracts.MIDIEventFilter{
			Commands: []contracts.MIDICommand{contracts.NoteOn, contracts.NoteOff, contracts.ControlChange},
		}),
	)
	if err != nil {
		log.Error("Failed to initialize MIDI client", log.Field().Error("error", err))
		return
	}

	devices, err := client.ListDevices()
	if err != nil || len(devices) == 0 {
		log.Error("No MIDI devices found or error listing devices", log.Field().Error("error", err))
		return
	}
	fmt.Println("Available MIDI devices:", devices)

	if err = client.SelectDevice(devices[0].ID); err != nil {
		log.Error("Failed to select MIDI device", log.Field().Error("error", err))
		return
	}

	eventChannel := make(chan contracts.MIDI, contracts.DefaultBufferSize)
	client.StartCapture(eventChannel)
	defer client.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Print the breath statistics of the held note once per second.
	session := breath.NewSession(breath.DefaultConfig())
	sample := time.NewTicker(breath.DefaultSampleInterval)
	defer sample.Stop()
	report := time.NewTicker(time.Second)
	defer report.Stop()

	fmt.Println("Capturing breath data... Press Ctrl+C to exit.")
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-eventChannel:
			session.HandleMIDI(event, time.Now())
		case now := <-sample.C:
			session.Tick(now)
		case now := <-report.C:
			v := session.View(now)
			if !v.Stats.Defined {
				continue
			}
			log.Info("Breath",
				log.Field().String("note", v.NoteName),
				log.Field().Int("level", int(v.Level)),
				log.Field().Float64("mean", v.Stats.Mean),
				log.Field().Float64("stddev", v.Stats.StdDev),
				log.Field().Float64("consistency", v.Stats.Consistency),
			)
		}
	}
}
