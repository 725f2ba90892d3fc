package breath

import "fmt"

// MaxLevel is the largest value a 7-bit MIDI data byte can carry.
const MaxLevel = 127

// DefaultController is CC7 (volume), which most EWIs use for breath by default.
const DefaultController uint8 = 7

// CommonControllers are the controllers breath is usually mapped to.
var CommonControllers = []uint8{1, 2, 7, 11, 74}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var controllerNames = map[uint8]string{
	1:  "Modulation",
	2:  "Breath",
	7:  "Volume",
	11: "Expression",
	64: "Sustain",
	74: "Filter Cutoff",
}

// NoteName returns the scientific pitch name of a MIDI note, middle C being C4.
func NoteName(note uint8) string {
	return fmt.Sprintf("%s%d", noteNames[note%12], int(note)/12-1)
}

// ControllerName returns a readable name for a CC number.
func ControllerName(cc uint8) string {
	if name, ok := controllerNames[cc]; ok {
		return name
	}
	return fmt.Sprintf("CC%d", cc)
}
