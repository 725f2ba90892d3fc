package breath

import (
	"fmt"
	"time"

	"github.com/leandrodaf/ewibreath/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
)

// EventKind classifies an interpreted MIDI message.
type EventKind int

const (
	Unhandled EventKind = iota
	NoteStarted
	NoteEnded
	BreathLevelChanged
	ControllerChanged
)

func (k EventKind) String() string {
	switch k {
	case NoteStarted:
		return "NoteStarted"
	case NoteEnded:
		return "NoteEnded"
	case BreathLevelChanged:
		return "BreathLevelChanged"
	case ControllerChanged:
		return "ControllerChanged"
	default:
		return "Unhandled"
	}
}

// Event is a domain event derived from one MIDI message.
type Event struct {
	Kind       EventKind
	At         time.Time
	Channel    uint8
	Note       uint8
	Velocity   uint8
	Controller uint8
	Value      uint8
	Raw        contracts.MIDI
}

// Interpreter maps raw MIDI to domain events. Controller selects which CC
// number carries breath.
type Interpreter struct {
	Controller uint8
}

// Interpret decodes raw. A control change yields a ControllerChanged event and,
// when it is on the breath controller, a BreathLevelChanged event as well.
// Messages with out-of-range data bytes yield nothing.
func (in Interpreter) Interpret(raw contracts.MIDI) []Event {
	if raw.Data1 > MaxLevel || raw.Data2 > MaxLevel {
		return nil
	}

	base := Event{At: raw.Time(), Channel: raw.Channel, Raw: raw}
	msg := toMessage(raw)

	var ch, key, vel, cc, val uint8
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		base.Kind, base.Note, base.Velocity = NoteStarted, key, vel
	case msg.GetNoteEnd(&ch, &key):
		base.Kind, base.Note = NoteEnded, key
	case msg.GetControlChange(&ch, &cc, &val):
		base.Kind, base.Controller, base.Value = ControllerChanged, cc, val
		if cc == in.Controller {
			breath := base
			breath.Kind = BreathLevelChanged
			return []Event{base, breath}
		}
	default:
		base.Kind = Unhandled
	}
	return []Event{base}
}

func toMessage(raw contracts.MIDI) midi.Message {
	switch contracts.MIDICommand(raw.Command) {
	case contracts.ProgramChange, contracts.ChannelAftertouch:
		return midi.Message{raw.Status(), raw.Data1}
	default:
		return midi.Message{raw.Status(), raw.Data1, raw.Data2}
	}
}

// Describe renders an event the way the debug panel lists it.
func Describe(ev Event) string {
	ch := int(ev.Channel) + 1
	switch ev.Kind {
	case NoteStarted:
		return fmt.Sprintf("Note ON: %s (#%d) Vel:%d Ch:%d", NoteName(ev.Note), ev.Note, ev.Velocity, ch)
	case NoteEnded:
		return fmt.Sprintf("Note OFF: %s (#%d) Ch:%d", NoteName(ev.Note), ev.Note, ch)
	case ControllerChanged, BreathLevelChanged:
		return fmt.Sprintf("CC: %s (%d) = %d Ch:%d", ControllerName(ev.Controller), ev.Controller, ev.Value, ch)
	default:
		return fmt.Sprintf("MIDI: Status:%02X Data:%d,%d Ch:%d", ev.Raw.Command, ev.Raw.Data1, ev.Raw.Data2, ch)
	}
}
