package pull

import "math"

// Metrics is the tracked geometry of the scroll surface, in units.
// Offset is the position of the viewport's leading edge inside the
// content; it goes negative while pulling down past the top and beyond
// RestEnd while pulling up past the bottom.
type Metrics struct {
	Viewport float64
	Content  float64
	Offset   float64
}

// Range is Content - Viewport. It is negative when the content is
// shorter than the viewport.
func (m Metrics) Range() float64 { return m.Content - m.Viewport }

// RestEnd is the largest offset reachable without overscroll.
func (m Metrics) RestEnd() float64 { return math.Max(0, m.Range()) }

func (m Metrics) OverscrollPastStart() float64 { return math.Max(0, -m.Offset) }

// OverscrollPastEnd never exceeds Content when the content is shorter
// than the viewport, so a short list cannot report more pull than it has
// rows to move.
func (m Metrics) OverscrollPastEnd() float64 {
	over := m.Offset - m.RestEnd()
	if over <= 0 {
		return 0
	}
	if m.Range() < 0 && over > m.Content {
		return m.Content
	}
	return over
}

// Clamp returns offset moved into [0, RestEnd].
func (m Metrics) Clamp(offset float64) float64 {
	return math.Min(math.Max(offset, 0), m.RestEnd())
}

// Tracker owns Metrics and reports every change to its listener before
// the setter returns.
type Tracker struct {
	metrics  Metrics
	listener func(Metrics)
}

func NewTracker(listener func(Metrics)) *Tracker {
	return &Tracker{listener: listener}
}

func (t *Tracker) Metrics() Metrics { return t.metrics }

func (t *Tracker) SetContentExtent(v float64) {
	t.metrics.Content = v
	t.notify()
}

func (t *Tracker) SetViewportExtent(v float64) {
	t.metrics.Viewport = v
	t.notify()
}

func (t *Tracker) ScrollTo(offset float64) {
	t.metrics.Offset = offset
	t.notify()
}

func (t *Tracker) OverscrollPastStart() float64 { return t.metrics.OverscrollPastStart() }
func (t *Tracker) OverscrollPastEnd() float64   { return t.metrics.OverscrollPastEnd() }

func (t *Tracker) notify() {
	if t.listener != nil {
		t.listener(t.metrics)
	}
}
