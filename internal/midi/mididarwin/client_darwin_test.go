//go:build darwin

package mididarwin

import (
	"errors"
	"testing"

	"github.com/leandrodaf/ewibreath/internal/logger"
	"github.com/leandrodaf/ewibreath/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/youpy/go-coremidi"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newClient(t *testing.T) *ClientMid {
	t.Helper()
	core, _ := observer.New(zapcore.DebugLevel)
	client, err := NewMIDIClient(&contracts.ClientOptions{
		Logger:       logger.NewZapLoggerWithCore(core),
		DriverConfig: &contracts.DriverConfig{ClientName: "ewibreath-test", PortName: "in"},
	})
	require.NoError(t, err)
	return client.(*ClientMid)
}

func TestPacketsAfterStopAreDropped(t *testing.T) {
	m := newClient(t)
	events := make(chan contracts.MIDI, 4)
	m.StartCapture(events)

	m.handlePacket(coremidi.Source{}, coremidi.Packet{Data: []byte{0xB0, 2, 90}})
	require.Len(t, events, 1)

	require.NoError(t, m.Stop())
	m.handlePacket(coremidi.Source{}, coremidi.Packet{Data: []byte{0xB0, 2, 91}})
	assert.Len(t, events, 1)
}

func TestReselectReusesInputPort(t *testing.T) {
	m := newClient(t)
	if _, err := m.ListDevices(); errors.Is(err, ErrNoMIDIDevices) {
		t.Skip("no CoreMIDI sources")
	}

	require.NoError(t, m.SelectDevice(0))
	port := m.inputPort
	require.NoError(t, m.SelectDevice(0))

	assert.True(t, m.portReady)
	assert.Equal(t, port, m.inputPort)
	require.NoError(t, m.Stop())
}
