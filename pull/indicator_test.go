package pull

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestDefaultIndicatorPrompts(t *testing.T) {
	ind := DefaultIndicator()
	tests := []struct {
		state State
		want  string
	}{
		{StateNotExceededTop, "pull down to refresh"},
		{StateExceededTop, "will refresh"},
		{StateRefreshingTop, "refreshing..."},
		{StateNotExceededBottom, "pull up to load more"},
		{StateExceededBottom, "will load more"},
		{StateRefreshingBottom, "loading..."},
	}
	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			p := Projection{State: tt.state, Status: tt.state.Status(), Refreshing: tt.state.Refreshing(), Spinner: "*"}
			out := ind.RenderIndicator(p, 40, 3)
			assert.Contains(t, out, tt.want)
			assert.Equal(t, 3, lipgloss.Height(out))
			if tt.state.Refreshing() {
				assert.Contains(t, out, "*")
			}
		})
	}
}

func TestIndicatorPlacement(t *testing.T) {
	ind := DefaultIndicator()

	top := StateNotExceededTop
	lines := strings.Split(ind.RenderIndicator(Projection{State: top, Status: top.Status()}, 30, 3), "\n")
	assert.Contains(t, lines[2], "pull", "top indicator sits next to the content")

	bottom := StateNotExceededBottom
	lines = strings.Split(ind.RenderIndicator(Projection{State: bottom, Status: bottom.Status()}, 30, 3), "\n")
	assert.Contains(t, lines[0], "pull")
}

func TestIndicatorNeutralIsBlank(t *testing.T) {
	out := DefaultIndicator().RenderIndicator(Projection{}, 10, 2)
	assert.Equal(t, strings.Repeat(" ", 10)+"\n"+strings.Repeat(" ", 10), out)
	assert.Empty(t, DefaultIndicator().RenderIndicator(Projection{}, 0, 2))
}

func TestIndicatorCustomSlots(t *testing.T) {
	ind := DefaultIndicator()
	ind.TopPrompts.Pulling = ViewFunc(func(width int) string { return strings.Repeat("=", width/2) })
	ind.TopIcons.Pulling = nil

	p := Projection{State: StateNotExceededTop, Status: StateNotExceededTop.Status()}
	assert.Contains(t, ind.RenderIndicator(p, 20, 1), "==========")
}
