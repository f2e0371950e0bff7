package pull

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Renderable is anything an indicator slot can show: plain text or an
// arbitrary view. Renderers never look inside it.
type Renderable interface {
	Render(width int) string
}

// Text is a Renderable string.
type Text string

func (t Text) Render(int) string { return string(t) }

// ViewFunc adapts a function to Renderable.
type ViewFunc func(width int) string

func (f ViewFunc) Render(width int) string { return f(width) }

// Projection is the read-only snapshot handed to a Renderer on every
// frame.
type Projection struct {
	State          State
	Status         Status
	Refreshing     bool
	ScrollPosition float64 // tracker offset, in units
	Overscroll     float64 // overscroll on the visible edge, in units
	Edge           Edge    // edge the overscroll is on, which can differ from Status while snapping back
	Rows           int     // rows reserved for the indicator
	Spinner        string  // current spinner frame
}

// Renderer draws the indicator area. The returned string should be
// height lines of width cells; Model pads or trims it otherwise.
type Renderer interface {
	RenderIndicator(p Projection, width, height int) string
}

// Slots holds what one edge shows in each phase of a pull.
type Slots struct {
	Pulling    Renderable
	Holding    Renderable
	Refreshing Renderable
}

func (s Slots) pick(p Projection) Renderable {
	switch {
	case p.Refreshing:
		return s.Refreshing
	case p.Status.Exceeded:
		return s.Holding
	default:
		return s.Pulling
	}
}

// Indicator is the default Renderer: an icon and a prompt centered in the
// revealed rows.
type Indicator struct {
	TopIcons      Slots
	TopPrompts    Slots
	BottomIcons   Slots
	BottomPrompts Slots

	IconStyle   lipgloss.Style
	PromptStyle lipgloss.Style
}

// DefaultIndicator uses arrows that flip once the threshold is passed,
// the spinner frame while the action runs, and the stock prompts.
func DefaultIndicator() Indicator {
	return Indicator{
		TopIcons:      Slots{Pulling: Text("↓"), Holding: Text("↑")},
		TopPrompts:    Slots{Pulling: Text("pull down to refresh"), Holding: Text("will refresh"), Refreshing: Text("refreshing...")},
		BottomIcons:   Slots{Pulling: Text("↑"), Holding: Text("↓")},
		BottomPrompts: Slots{Pulling: Text("pull up to load more"), Holding: Text("will load more"), Refreshing: Text("loading...")},
		IconStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		PromptStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func (ind Indicator) RenderIndicator(p Projection, width, height int) string {
	if height <= 0 || width <= 0 {
		return ""
	}
	if p.Status.Neutral() || (p.Edge != edgeNone && p.Edge != p.Status.Edge) {
		return blankRows(width, height)
	}

	icons, prompts := ind.TopIcons, ind.TopPrompts
	vpos := lipgloss.Bottom // top indicator hugs the content below it
	if p.Status.Edge == Bottom {
		icons, prompts = ind.BottomIcons, ind.BottomPrompts
		vpos = lipgloss.Top
	}

	var parts []string
	if icon := icons.pick(p); icon != nil {
		if s := icon.Render(width); s != "" {
			parts = append(parts, ind.IconStyle.Render(s))
		}
	} else if p.Refreshing && p.Spinner != "" {
		parts = append(parts, p.Spinner)
	}
	if prompt := prompts.pick(p); prompt != nil {
		if s := prompt.Render(width); s != "" {
			parts = append(parts, ind.PromptStyle.Render(s))
		}
	}
	line := strings.Join(parts, " ")
	line = lipgloss.NewStyle().MaxWidth(width).Render(line)
	return lipgloss.Place(width, height, lipgloss.Center, vpos, line)
}

func blankRows(width, height int) string {
	row := strings.Repeat(" ", width)
	rows := make([]string, height)
	for i := range rows {
		rows[i] = row
	}
	return strings.Join(rows, "\n")
}
