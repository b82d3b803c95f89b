package designer

import "math"

// MinSize is the smallest width or height a resize may produce, in
// millimeters.
const MinSize = 5.0

// Grid is the layout grid of the design surface.
type Grid struct {
	Size float64 `json:"size" yaml:"size"` // mm between grid lines
	Snap bool    `json:"snap" yaml:"snap"`
	Show bool    `json:"show" yaml:"show"`
}

// DefaultGrid returns a visible 5 mm grid with snapping enabled.
func DefaultGrid() Grid { return Grid{Size: 5, Snap: true, Show: true} }

// snap rounds v to the nearest grid line, halves to even.
func (g Grid) snap(v float64) float64 {
	if !g.Snap || g.Size <= 0 {
		return v
	}

	return math.RoundToEven(v/g.Size) * g.Size
}

// Move returns the position (x+dx, y+dy), snapped when enabled and clamped
// so that neither coordinate is negative.
func (g Grid) Move(x, y, dx, dy float64) (float64, float64) {
	return max(g.snap(x+dx), 0), max(g.snap(y+dy), 0)
}

// Resize returns the size (w+dw, h+dh), snapped when enabled and clamped
// to at least [MinSize].
func (g Grid) Resize(w, h, dw, dh float64) (float64, float64) {
	return max(g.snap(w+dw), MinSize), max(g.snap(h+dh), MinSize)
}
