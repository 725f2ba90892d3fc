//go:build !darwin

package mididarwin

import (
	"testing"

	"github.com/leandrodaf/ewibreath/internal/logger"
	"github.com/leandrodaf/ewibreath/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDummyClientIsUnavailable(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	client, err := NewMIDIClient(&contracts.ClientOptions{Logger: logger.NewZapLoggerWithCore(core)})
	require.NoError(t, err)

	_, err = client.ListDevices()
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, client.SelectDevice(0), ErrUnavailable)

	client.StartCapture(make(chan contracts.MIDI, 1))
	assert.NoError(t, client.Stop())
	assert.Positive(t, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}
