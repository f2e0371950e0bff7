package pull

import "math"

// Gesture classifies a drag vector. dx and dy are the cumulative
// displacement since the press; positive dy drags content downward.
type Gesture struct {
	DownPull bool // revealing space above the first row
	UpPull   bool // revealing space below the last row
	Vertical bool
}

// Classify is total over all inputs; NaN components classify as nothing.
func Classify(dx, dy float64) Gesture {
	ax, ay := math.Abs(dx), math.Abs(dy)
	return Gesture{
		DownPull: dy > 0 && dy > ax,
		UpPull:   dy < 0 && ax < ay,
		Vertical: ax < ay,
	}
}

// Captures reports whether the list should own the gesture instead of
// leaving it to whatever sits underneath.
func (g Gesture) Captures() bool { return g.Vertical }
