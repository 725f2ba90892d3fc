package render

import (
	"math"
	"time"

	"github.com/leandrodaf/ewibreath/internal/breath"
)

// plot maps graph coordinates (time, level) onto a cell rectangle.
type plot struct {
	x, y          int // top-left cell
	width, height int
	start         time.Time
	span          time.Duration
}

func (p plot) col(at time.Time) int {
	if p.span <= 0 || p.width <= 1 {
		return p.x
	}
	frac := float64(at.Sub(p.start)) / float64(p.span)
	return p.x + int(math.Round(frac*float64(p.width-1)))
}

func (p plot) row(level float64) int {
	if p.height <= 1 {
		return p.y
	}
	frac := level / breath.MaxLevel
	if frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}
	return p.y + (p.height - 1) - int(math.Round(frac*float64(p.height-1)))
}

func (p plot) contains(x, y int) bool {
	return x >= p.x && x < p.x+p.width && y >= p.y && y < p.y+p.height
}

// line walks the cells between two points with Bresenham's algorithm,
// endpoints included.
func line(x0, y0, x1, y1 int, visit func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		visit(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
