//go:build !windows
// +build !windows

package midiwindows

import (
	"errors"

	"github.com/leandrodaf/ewibreath/sdk/contracts"
)

// ErrUnavailable is returned by every call on non-Windows systems.
var ErrUnavailable = errors.New("winmm MIDI is not available on this platform")

type dummyMIDIClient struct {
	logger contracts.Logger
}

// NewMIDIClient initializes a dummy MIDI client for non-Windows systems.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	options.Logger.Info("Using dummy winmm client for non-Windows system")
	return &dummyMIDIClient{logger: options.Logger}, nil
}

func (m *dummyMIDIClient) ListDevices() ([]contracts.DeviceInfo, error) {
	m.logger.Warn("ListDevices called on dummy winmm client")
	return nil, ErrUnavailable
}

func (m *dummyMIDIClient) SelectDevice(int) error {
	m.logger.Warn("SelectDevice called on dummy winmm client")
	return ErrUnavailable
}

func (m *dummyMIDIClient) StartCapture(chan contracts.MIDI) {
	m.logger.Warn("StartCapture called on dummy winmm client")
}

func (m *dummyMIDIClient) Stop() error {
	return nil
}
