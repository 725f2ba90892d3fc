package breath

import (
	"testing"

	"github.com/leandrodaf/ewibreath/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raw(cmd contracts.MIDICommand, ch, d1, d2 byte) contracts.MIDI {
	return contracts.MIDI{Timestamp: uint64(t0.UnixNano()), Command: byte(cmd), Channel: ch, Data1: d1, Data2: d2}
}

func TestInterpretNotes(t *testing.T) {
	in := Interpreter{Controller: 7}

	evs := in.Interpret(raw(contracts.NoteOn, 0, 60, 100))
	require.Len(t, evs, 1)
	assert.Equal(t, NoteStarted, evs[0].Kind)
	assert.Equal(t, uint8(60), evs[0].Note)
	assert.Equal(t, uint8(100), evs[0].Velocity)
	assert.True(t, t0.Equal(evs[0].At))

	evs = in.Interpret(raw(contracts.NoteOn, 0, 60, 0))
	require.Len(t, evs, 1)
	assert.Equal(t, NoteEnded, evs[0].Kind, "note-on with velocity 0 ends the note")

	evs = in.Interpret(raw(contracts.NoteOff, 3, 61, 40))
	require.Len(t, evs, 1)
	assert.Equal(t, NoteEnded, evs[0].Kind)
	assert.Equal(t, uint8(3), evs[0].Channel)
}

func TestInterpretControllers(t *testing.T) {
	in := Interpreter{Controller: 2}

	evs := in.Interpret(raw(contracts.ControlChange, 0, 2, 77))
	require.Len(t, evs, 2)
	assert.Equal(t, ControllerChanged, evs[0].Kind)
	assert.Equal(t, BreathLevelChanged, evs[1].Kind)
	assert.Equal(t, uint8(77), evs[1].Value)

	evs = in.Interpret(raw(contracts.ControlChange, 0, 11, 30))
	require.Len(t, evs, 1)
	assert.Equal(t, ControllerChanged, evs[0].Kind)
}

func TestInterpretOthers(t *testing.T) {
	in := Interpreter{Controller: 7}

	evs := in.Interpret(raw(contracts.PitchBend, 0, 0, 64))
	require.Len(t, evs, 1)
	assert.Equal(t, Unhandled, evs[0].Kind)

	evs = in.Interpret(raw(contracts.ProgramChange, 0, 5, 0))
	require.Len(t, evs, 1)
	assert.Equal(t, Unhandled, evs[0].Kind)

	assert.Empty(t, in.Interpret(raw(contracts.ControlChange, 0, 7, 200)))
}

func TestDescribe(t *testing.T) {
	in := Interpreter{Controller: 7}
	assert.Equal(t, "Note ON: C4 (#60) Vel:100 Ch:1", Describe(in.Interpret(raw(contracts.NoteOn, 0, 60, 100))[0]))
	assert.Equal(t, "CC: Volume (7) = 64 Ch:2", Describe(in.Interpret(raw(contracts.ControlChange, 1, 7, 64))[0]))
	assert.Equal(t, "MIDI: Status:E0 Data:0,64 Ch:1", Describe(in.Interpret(raw(contracts.PitchBend, 0, 0, 64))[0]))
}

func TestNoteName(t *testing.T) {
	assert.Equal(t, "C4", NoteName(60))
	assert.Equal(t, "A4", NoteName(69))
	assert.Equal(t, "C#-1", NoteName(1))
	assert.Equal(t, "G9", NoteName(127))
}
