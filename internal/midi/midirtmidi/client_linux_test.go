//go:build linux

package midirtmidi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExcludedPorts(t *testing.T) {
	for name, want := range map[string]bool{
		"Midi Through:Midi Through Port-0 14:0": true,
		"midi through port":                     true,
		"EWI USB:EWI USB MIDI 1 20:0":           false,
		"Akai EWI5000":                          false,
	} {
		assert.Equal(t, want, excluded(name), name)
	}
}
