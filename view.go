package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// ─── Colors ──────────────────────────────────────────────────────────────────

var (
	colorBlack   = lipgloss.Color("0")
	colorAccent  = lipgloss.Color("5")  // magenta: brand, focused borders, keys
	colorDim     = lipgloss.Color("8")  // gray: secondary text, unfocused borders
	colorFull    = lipgloss.Color("7")  // white: full help descriptions
	colorGreen   = lipgloss.Color("10") // pinned status
	colorYellow  = lipgloss.Color("11") // open status, stale hint
	colorMagenta = lipgloss.Color("13") // status bar messages
)

// ─── Styles ──────────────────────────────────────────────────────────────────

var (
	focusedBorder   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent)
	unfocusedBorder = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	paneTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)
	brandStyle      = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	ghostStyle      = lipgloss.NewStyle().Foreground(colorDim)
	helpTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).MarginBottom(1)
	helpBoxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(1, 3)
	statusTextStyle = lipgloss.NewStyle().Bold(true).Foreground(colorMagenta)
	staleTextStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
)

// layout is the screen geometry for the current terminal size. The list
// pane gets 40% of the width; each pane has a border and a title row.
type layout struct {
	listW         int // outer width of the list pane
	listX, listY  int // screen cell of the first list row
	listInnerW    int
	listH         int
	previewInnerW int
	previewH      int
	innerH        int
}

func (m model) layout() layout {
	listW := m.width * 40 / 100
	innerH := max(m.height-3, 5) // -2 for borders, -1 for the status bar
	return layout{
		listW:         listW,
		listX:         1,
		listY:         2,
		listInnerW:    max(listW-2, 10),
		listH:         innerH - 1,
		previewInnerW: max(m.width-listW-2, 10),
		previewH:      innerH - 1,
		innerH:        innerH,
	}
}

func (m model) listTitle(width int) string {
	left := brandStyle.Render("pullpad")
	if m.demo {
		left += " " + ghostStyle.Render("demo")
	}
	if m.query != "" {
		left += " " + dateStyle.Render("/"+m.query)
	}
	count := ghostStyle.Render(fmt.Sprintf("%d/%d", len(m.notes), len(m.refs)))
	gap := width - 2 - lipgloss.Width(left) - lipgloss.Width(count)
	if gap < 1 {
		return " " + left
	}
	return " " + left + fmt.Sprintf("%*s", gap, "") + count
}

func (m model) emptyHint() string {
	switch {
	case m.query != "":
		return fmt.Sprintf("No notes match /%s\n\nesc  clear search", m.query)
	case m.demo:
		return "Nothing here\n\npull down to refresh\nd  exit demo mode"
	default:
		return fmt.Sprintf("No notes yet\n\n%s\n\npull down to rescan\nd  try demo mode", contractHome(m.cfg.NotesDir))
	}
}

func (m model) statusBar() string {
	switch {
	case m.searching:
		return " " + m.search.View()
	case m.status.text != "":
		return " " + m.status.spinner.View() + " " + statusTextStyle.Render(m.status.text)
	case m.stale:
		return " " + staleTextStyle.Render("files changed · pull to refresh")
	case m.query != "":
		return " " + ghostStyle.Render("filter /"+m.query+" · esc clear")
	}
	return " " + m.help.ShortHelpView(m.keys.ShortHelp())
}

// ─── View ────────────────────────────────────────────────────────────────────

func (m model) View() string {
	if !m.ready {
		return "Loading..."
	}
	l := m.layout()

	leftStyle := unfocusedBorder.Width(l.listW - 2).Height(l.innerH)
	rightStyle := focusedBorder.Width(m.width - l.listW - 2).Height(l.innerH)
	if m.focused == listPane {
		leftStyle = focusedBorder.Width(l.listW - 2).Height(l.innerH)
		rightStyle = unfocusedBorder.Width(m.width - l.listW - 2).Height(l.innerH)
	}

	// An empty list still takes drags so that it can be pulled to refresh.
	body := m.list.View()
	if len(m.visible) == 0 && m.list.Projection().Rows == 0 {
		hint := lipgloss.NewStyle().Foreground(colorDim).
			Width(l.listInnerW - 2).Align(lipgloss.Center).
			Render(m.emptyHint())
		body = lipgloss.Place(l.listInnerW, l.listH, lipgloss.Center, lipgloss.Center, hint)
	}
	leftContent := m.listTitle(l.listInnerW) + "\n" + m.zones.Mark(notesZone, body)

	previewTitle := ""
	if n, ok := m.selectedNote(); ok {
		previewTitle = paneTitleStyle.Render(n.file)
	}
	rightContent := previewTitle + "\n" + m.preview.View()

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		leftStyle.Render(leftContent),
		rightStyle.Render(rightContent),
	)
	statusBar := lipgloss.NewStyle().MaxWidth(m.width).Render(m.statusBar())
	base := panes + "\n" + statusBar

	if m.help.ShowAll {
		content := helpTitleStyle.Render("Keybindings") + "\n" + m.help.FullHelpView(m.keys.FullHelp()) +
			"\n\n" + ghostStyle.Render("Drag the list past either end, or scroll past it,\nto refresh or load the next page.")

		// Comfortably narrow on wide terminals while still fitting on small ones.
		modalMaxW := max(min(m.width-4, 76), 20)
		// helpBoxStyle uses 1-cell borders and 3-cell horizontal padding.
		contentMaxW := max(modalMaxW-8, 12)

		content = lipgloss.NewStyle().MaxWidth(contentMaxW).Render(content)
		overlay := helpBoxStyle.MaxWidth(modalMaxW).Render(content)
		base = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, overlay,
			lipgloss.WithWhitespaceChars(" "),
			lipgloss.WithWhitespaceForeground(colorBlack),
		)
	}

	return m.zones.Scan(base)
}
