// Package layout computes window placements for fanned-out destinations.
// Planning is pure geometry: no I/O, no window-manager interaction.
package layout

import (
	"fmt"
	"math"
)

// Mode selects how windows are arranged on the screen.
type Mode string

const (
	ModeGrid       Mode = "grid"
	ModeHorizontal Mode = "horizontal"
	ModeVertical   Mode = "vertical"
)

// ParseMode normalizes a stored layout mode, defaulting to grid.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeGrid, ModeHorizontal, ModeVertical:
		return Mode(s)
	default:
		return ModeGrid
	}
}

// Rect is a window placement in screen coordinates.
type Rect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d@%d,%d", r.Width, r.Height, r.Left, r.Top)
}

// Plan maps a usable screen area and a destination count to one placement
// per destination, in destination order.
//
// Grid mode with exactly four destinations splits the screen into integer
// quadrants. Every other combination falls back to equal-width vertical
// strips spanning the full screen height, laid left to right with no gaps.
// Count is validated upstream and is always >= 1.
func Plan(screen Rect, count int, mode Mode) []Rect {
	if mode == ModeGrid && count == 4 {
		return quadrants(screen)
	}
	return strips(screen, count)
}

func quadrants(screen Rect) []Rect {
	w := screen.Width / 2
	h := screen.Height / 2
	return []Rect{
		{Left: screen.Left, Top: screen.Top, Width: w, Height: h},
		{Left: screen.Left + w, Top: screen.Top, Width: w, Height: h},
		{Left: screen.Left, Top: screen.Top + h, Width: w, Height: h},
		{Left: screen.Left + w, Top: screen.Top + h, Width: w, Height: h},
	}
}

func strips(screen Rect, count int) []Rect {
	w := screen.Width / count
	rects := make([]Rect, 0, count)
	for i := 0; i < count; i++ {
		rects = append(rects, Rect{
			Left:   int(math.Round(float64(screen.Left) + float64(i)*float64(w))),
			Top:    screen.Top,
			Width:  w,
			Height: screen.Height,
		})
	}
	return rects
}
