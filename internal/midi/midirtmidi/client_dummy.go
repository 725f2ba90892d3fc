//go:build !linux
// +build !linux

package midirtmidi

import (
	"errors"

	"github.com/leandrodaf/ewibreath/sdk/contracts"
)

// ErrUnavailable is returned by every call on non-Linux systems.
var ErrUnavailable = errors.New("rtmidi input is only wired on Linux")

type dummyMIDIClient struct {
	logger contracts.Logger
}

// NewMIDIClient initializes a dummy MIDI client for non-Linux systems.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	options.Logger.Info("Using dummy rtmidi client for non-Linux system")
	return &dummyMIDIClient{logger: options.Logger}, nil
}

func (m *dummyMIDIClient) ListDevices() ([]contracts.DeviceInfo, error) {
	return nil, ErrUnavailable
}

func (m *dummyMIDIClient) SelectDevice(int) error {
	return ErrUnavailable
}

func (m *dummyMIDIClient) StartCapture(chan contracts.MIDI) {
	m.logger.Warn("StartCapture called on dummy rtmidi client")
}

func (m *dummyMIDIClient) Stop() error {
	return nil
}
