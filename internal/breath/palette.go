package breath

// Color is an 8-bit RGB triple.
type Color struct {
	R, G, B uint8
}

// Palette holds the colours handed to note segments, in assignment order.
var Palette = [...]Color{
	{65, 156, 255},  // blue
	{255, 100, 100}, // red
	{100, 255, 100}, // green
	{255, 255, 100}, // yellow
	{255, 100, 255}, // magenta
	{100, 255, 255}, // cyan
	{255, 150, 100}, // orange
	{150, 100, 255}, // purple
	{255, 200, 150}, // peach
	{150, 255, 150}, // light green
	{200, 150, 255}, // lavender
	{255, 150, 200}, // pink
}

// ColorOf returns the palette entry for an index, wrapping around.
func ColorOf(index int) Color {
	if index < 0 {
		index = -index
	}
	return Palette[index%len(Palette)]
}

// colorCycle hands out palette indices in insertion order.
type colorCycle struct {
	next int
}

func (c *colorCycle) take() int {
	i := c.next
	c.next = (c.next + 1) % len(Palette)
	return i
}

func (c *colorCycle) reset() {
	c.next = 0
}
