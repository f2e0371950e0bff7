package main

import (
	"hash/fnv"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// ─── Rows ────────────────────────────────────────────────────────────────────

var (
	openStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	pinnedStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	archivedStyle = lipgloss.NewStyle().Foreground(colorDim)
	unsetStyle    = lipgloss.NewStyle().Foreground(colorDim)
	dateStyle     = lipgloss.NewStyle().Foreground(colorDim)
	copiedStyle   = lipgloss.NewStyle().Foreground(colorAccent)
	selectedBar   = lipgloss.NewStyle().Foreground(colorAccent).SetString("│ ")
	dimBar        = lipgloss.NewStyle().Foreground(colorDim).SetString("│ ")
	normalBar     = lipgloss.NewStyle().SetString("  ")
)

// labelColors are 256-color palette values with readable contrast on dark
// terminals. Prime length for better hash distribution.
var labelColors = []string{
	"204", "209", "215", "179", "149", "114", "80", "75", "111",
	"147", "183", "176", "168", "131", "173", "137", "109", "73",
	"167", "143", "103", "69", "212",
}

// labelColor is stable per label name (FNV-1a).
func labelColor(name string) lipgloss.Style {
	h := fnv.New32a()
	h.Write([]byte(name))
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(labelColors[h.Sum32()%uint32(len(labelColors))]))
}

func statusStyle(s string) lipgloss.Style {
	switch s {
	case "open":
		return openStyle
	case "pinned":
		return pinnedStyle
	case "archived":
		return archivedStyle
	}
	return unsetStyle
}

// displayDate is MM-DD for the current year and YYYY-MM-DD otherwise.
func displayDate(t, now time.Time) string {
	d := t.Format("2006-01-02")
	if year := strconv.Itoa(now.Year()) + "-"; strings.HasPrefix(d, year) {
		return d[len(year):]
	}
	return d
}

type rowState struct {
	cursor  bool
	focused bool
	copied  bool
}

// renderRow lays out one note as exactly width cells:
// bar, status icon, labels and title on the left, the date on the right.
func renderRow(n note, width int, st rowState, now time.Time) string {
	bar := normalBar.String()
	if st.cursor {
		bar = dimBar.String()
		if st.focused {
			bar = selectedBar.String()
		}
	}
	right := dateStyle.Render(displayDate(n.created, now))
	if st.copied {
		right = copiedStyle.Render("Copied!")
	}

	var b strings.Builder
	b.WriteString(bar)
	b.WriteString(statusStyle(n.status).Render(statusIcon(n.status)))
	b.WriteString(" ")
	for _, l := range n.labels {
		b.WriteString(labelColor(l).Render(l))
		b.WriteString(" ")
	}
	b.WriteString(n.title)
	left := b.String()

	room := width - lipgloss.Width(right) - 1
	if room < 4 {
		return ansi.Truncate(left, width, "…")
	}
	left = ansi.Truncate(left, room, "…")
	return left + strings.Repeat(" ", room-lipgloss.Width(left)+1) + right
}

func (m model) renderRows(width int) string {
	if width <= 0 || len(m.visible) == 0 {
		return ""
	}
	now := time.Now()
	rows := make([]string, len(m.visible))
	for i, n := range m.visible {
		rows[i] = renderRow(n, width, rowState{
			cursor:  i == m.cursor,
			focused: m.focused == listPane,
			copied:  n.path() == m.copied.path,
		}, now)
	}
	return strings.Join(rows, "\n")
}
