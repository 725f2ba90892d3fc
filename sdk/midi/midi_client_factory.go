package midi

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/leandrodaf/ewibreath/internal/midi/mididarwin"
	"github.com/leandrodaf/ewibreath/internal/midi/midirtmidi"
	"github.com/leandrodaf/ewibreath/internal/midi/midiwindows"
	"github.com/leandrodaf/ewibreath/sdk/contracts"
)

// ErrUnsupportedOS is returned when the operating system is not supported by the MIDI client.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// Initializer builds a platform client from finalized options.
type Initializer func(*contracts.ClientOptions) (contracts.ClientMIDI, error)

// clientInitializers maps OS names to corresponding MIDI client initializers.
var clientInitializers = map[string]Initializer{
	"darwin":  mididarwin.NewMIDIClient,  // CoreMIDI
	"windows": midiwindows.NewMIDIClient, // winmm
	"linux":   midirtmidi.NewMIDIClient,  // rtmidi over ALSA
}

// NewClient initializes a MIDI client based on the current operating system.
//
// opts *contracts.ClientOptions: Configuration options for the MIDI client.
//
// Returns:
//   - contracts.ClientMIDI: An instance of the MIDI client.
//   - error: ErrUnsupportedOS if the operating system has no driver, or the driver's initialization error.
func NewClient(opts *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	return newClientFor(runtime.GOOS, opts)
}

func newClientFor(goos string, opts *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	if initializer, exists := clientInitializers[goos]; exists {
		return initializer(opts)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedOS, goos)
}
