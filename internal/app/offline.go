package app

import (
	"github.com/leandrodaf/ewibreath/sdk/contracts"
)

// offlineClient stands in when no MIDI driver could be created, so the
// trainer still starts and shows why there is no input.
type offlineClient struct {
	reason error
}

// NewOfflineClient returns a client that never has devices; ListDevices
// reports reason.
func NewOfflineClient(reason error) contracts.ClientMIDI {
	return offlineClient{reason: reason}
}

func (c offlineClient) Stop() error { return nil }

func (c offlineClient) ListDevices() ([]contracts.DeviceInfo, error) { return nil, c.reason }

func (c offlineClient) SelectDevice(int) error { return c.reason }

func (c offlineClient) StartCapture(chan contracts.MIDI) {}
