package pull

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsOverscroll(t *testing.T) {
	m := Metrics{Viewport: 10, Content: 100}

	m.Offset = -12
	assert.Equal(t, 12.0, m.OverscrollPastStart())
	assert.Zero(t, m.OverscrollPastEnd())

	m.Offset = 95
	assert.Zero(t, m.OverscrollPastStart())
	assert.Equal(t, 5.0, m.OverscrollPastEnd())

	m.Offset = 40
	assert.Zero(t, m.OverscrollPastStart())
	assert.Zero(t, m.OverscrollPastEnd())
	assert.Equal(t, 40.0, m.Clamp(m.Offset))
	assert.Equal(t, 90.0, m.Clamp(200))
	assert.Equal(t, 0.0, m.Clamp(-3))
}

func TestMetricsShortContent(t *testing.T) {
	m := Metrics{Viewport: 100, Content: 30}
	assert.Equal(t, -70.0, m.Range())
	assert.Equal(t, 0.0, m.RestEnd())

	for _, off := range []float64{0, 10, 30, 50, 500} {
		m.Offset = off
		over := m.OverscrollPastEnd()
		assert.GreaterOrEqual(t, over, 0.0)
		assert.LessOrEqual(t, over, m.Content, "offset %v", off)
	}
}

func TestTrackerNotifiesSynchronously(t *testing.T) {
	var seen []Metrics
	tr := NewTracker(func(m Metrics) { seen = append(seen, m) })

	tr.SetViewportExtent(10)
	tr.SetContentExtent(100)
	tr.ScrollTo(-4)

	require.Len(t, seen, 3)
	assert.Equal(t, Metrics{Viewport: 10, Content: 100, Offset: -4}, seen[2])
	assert.Equal(t, 4.0, tr.OverscrollPastStart())
	assert.Zero(t, tr.OverscrollPastEnd())
}

func TestTrackerNilListener(t *testing.T) {
	tr := NewTracker(nil)
	tr.ScrollTo(3)
	assert.Equal(t, 3.0, tr.Metrics().Offset)
}
