// Package midimsg turns raw bytes handed over by the platform drivers into
// contracts.MIDI events.
package midimsg

import (
	"time"

	"github.com/leandrodaf/ewibreath/sdk/contracts"
)

const (
	sysExStart = 0xF0
	sysExEnd   = 0xF7
)

// dataLen returns the number of data bytes that follow a channel status byte.
func dataLen(command byte) int {
	switch contracts.MIDICommand(command) {
	case contracts.ProgramChange, contracts.ChannelAftertouch:
		return 1
	default:
		return 2
	}
}

// Split decodes every channel voice message in a packet. Running status is
// honoured, system exclusive blocks and system messages are skipped, realtime
// bytes are ignored even between data bytes, and a message interrupted by a
// status byte or cut off at the end of the packet is dropped. Messages
// rejected by filter are not returned.
func Split(packet []byte, at time.Time, filter *contracts.MIDIEventFilter) []contracts.MIDI {
	var (
		events  []contracts.MIDI
		running byte
		ts      = uint64(at.UTC().UnixNano())
	)

	for i := 0; i < len(packet); {
		b := packet[i]

		switch {
		case b == sysExStart:
			running = 0
			for i < len(packet) && packet[i] != sysExEnd {
				i++
			}
			i++
			continue
		case b >= 0xF8:
			// realtime bytes may appear anywhere and do not cancel running status
			i++
			continue
		case b >= sysExStart:
			running = 0
			i++
			continue
		case b&0x80 != 0:
			running = b
			i++
		case running == 0:
			// stray data byte
			i++
			continue
		}

		n := dataLen(running & 0xF0)
		var data [2]byte
		got, j := 0, i
		for got < n && j < len(packet) {
			d := packet[j]
			if d >= 0xF8 {
				j++
				continue
			}
			if d&0x80 != 0 {
				break
			}
			data[got] = d
			got++
			j++
		}
		if got < n {
			if j < len(packet) {
				// a status byte cut the message short; it starts the next one
				i = j
				continue
			}
			break
		}
		i = j

		ev := contracts.MIDI{
			Timestamp: ts,
			Command:   running & 0xF0,
			Channel:   running & 0x0F,
			Data1:     data[0],
			Data2:     data[1],
		}

		if filter.Allows(ev.Command) {
			events = append(events, ev)
		}
	}
	return events
}

// Unpack decodes a short message packed little-endian into a 32-bit word, as
// delivered by the Windows multimedia API.
func Unpack(param uint32, at time.Time) (contracts.MIDI, bool) {
	status := byte(param & 0xFF)
	if status&0x80 == 0 || status >= sysExStart {
		return contracts.MIDI{}, false
	}
	return contracts.MIDI{
		Timestamp: uint64(at.UTC().UnixNano()),
		Command:   status & 0xF0,
		Channel:   status & 0x0F,
		Data1:     byte(param>>8) & 0x7F,
		Data2:     byte(param>>16) & 0x7F,
	}, true
}
