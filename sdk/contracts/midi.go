package contracts

import "time"

// MIDI represents a single channel voice message received from an input device.
//
// Command holds the high nibble of the status byte (0x80, 0x90, 0xB0, ...) and
// Channel the low nibble. Data1 and Data2 keep their wire meaning, which
// depends on the command: key/velocity for notes, controller/value for CC.
type MIDI struct {
	Timestamp uint64 // Timestamp is the receive time in Unix nanoseconds (UTC).
	Command   byte   // Command is the message type without the channel bits.
	Channel   byte   // Channel is the zero-based MIDI channel (0-15).
	Data1     byte   // Data1 is the first data byte (note number or controller).
	Data2     byte   // Data2 is the second data byte (velocity or controller value).
}

// Status rebuilds the original status byte.
func (m MIDI) Status() byte {
	return m.Command | (m.Channel & 0x0F)
}

// Time converts Timestamp to a time.Time.
func (m MIDI) Time() time.Time {
	return time.Unix(0, int64(m.Timestamp)).UTC()
}

// ClientMIDI defines an interface for MIDI client operations.
type ClientMIDI interface {
	Stop() error                         // Stops the MIDI client and releases resources.
	ListDevices() ([]DeviceInfo, error)  // Lists all available MIDI input devices.
	SelectDevice(deviceID int) error     // Selects a MIDI device by its ID for communication.
	StartCapture(eventChannel chan MIDI) // Starts capturing MIDI events and sends them to the specified channel.
}
