package midi

import (
	"fmt"
	"runtime"

	"github.com/leandrodaf/ewibreath/sdk/contracts"
)

// NewMIDIClient creates a new MIDI client with the specified options.
// It applies default options and initializes the client for the running platform.
//
// opts ...contracts.Option: A variadic list of option functions to customize the client configuration.
//
// Returns:
//   - contracts.ClientMIDI: An instance of the MIDI client.
//   - error: An error if the options could not be applied or no driver could be started.
func NewMIDIClient(opts ...contracts.Option) (contracts.ClientMIDI, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("apply client options: %w", err)
	}

	client, err := NewClient(&options)
	if err != nil {
		options.Logger.Error("MIDI client initialization failed",
			options.Logger.Field().String("os", runtime.GOOS),
			options.Logger.Field().Error("error", err))
		return nil, err
	}
	return client, nil
}
