package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	zone "github.com/lrstanley/bubblezone"

	"github.com/jakebf/pullpad/pull"
)

// ─── Key Map ─────────────────────────────────────────────────────────────────

type keyMap struct {
	Down        key.Binding
	Up          key.Binding
	Top         key.Binding
	Bottom      key.Binding
	SwitchPane  key.Binding
	Refresh     key.Binding
	LoadMore    key.Binding
	CycleStatus key.Binding
	Editor      key.Binding
	CopyPath    key.Binding
	Search      key.Binding
	ScrollDown  key.Binding
	ScrollUp    key.Binding
	Demo        key.Binding
	Settings    key.Binding
	Help        key.Binding
	Quit        key.Binding
	ForceQuit   key.Binding
}

func newKeyMap(cfg config) keyMap {
	return keyMap{
		Down:        key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/k", "navigate / scroll")),
		Up:          key.NewBinding(key.WithKeys("k", "up")),
		Top:         key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g/G", "first / last")),
		Bottom:      key.NewBinding(key.WithKeys("G", "end")),
		SwitchPane:  key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch pane")),
		Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		LoadMore:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "load more")),
		CycleStatus: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "next status")),
		Editor:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", commandLabel(cfg.Editor))),
		CopyPath:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy path")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		ScrollDown:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "page down")),
		ScrollUp:    key.NewBinding(key.WithKeys("B"), key.WithHelp("B", "page up")),
		Demo:        key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "demo mode")),
		Settings:    key.NewBinding(key.WithKeys(","), key.WithHelp(",", "settings")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:   key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Editor, k.CycleStatus, k.Search, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Actions
		{k.Refresh, k.LoadMore, k.Editor, k.CopyPath, k.CycleStatus, k.Search},
		// Navigation / app
		{k.Down, k.Top, k.SwitchPane, k.ScrollDown, k.ScrollUp, k.Demo, k.Help, k.Settings, k.Quit},
	}
}

// ─── Model ───────────────────────────────────────────────────────────────────

const (
	statusTimeout = 3 * time.Second
	notesZone     = "notes"
)

type statusBarState struct {
	text    string
	id      int
	spinner spinner.Model
}

type copiedState struct {
	path string
	id   int
}

// clickState remembers a left press inside the list. A release at the
// same cell with nothing pulled selects the row.
type clickState struct {
	ok   bool
	x, y int
	row  int // row relative to the top of the list view
}

type model struct {
	// Layout
	list      pull.Model
	preview   viewport.Model
	keys      keyMap
	help      help.Model
	search    textinput.Model
	searching bool
	focused   pane
	width     int
	height    int
	ready     bool // true after first WindowSizeMsg
	zones     *zone.Manager
	press     clickState

	// Preview rendering
	previewCache map[string]string // path → glamour-rendered markdown
	previewWidth int
	glamourStyle string // "dark" or "light" based on terminal background

	// Note data
	refs     []noteRef // full listing, newest first
	notes    []note    // loaded pages
	loaded   int       // refs consumed by notes
	visible  []note    // notes matching query
	cursor   int       // index into visible
	prevPath string    // path the preview was last switched to
	query    string

	cfg     config
	store   noteStore
	gen     int // bumped whenever the store is swapped
	results chan fetchResult
	watcher *fsnotify.Watcher
	watched []string
	stale   bool // notes changed on disk since the last refresh
	demo    bool

	status    statusBarState
	copied    copiedState
	statusTTL time.Duration
	logger    *log.Logger
}

func noteIndicator() pull.Indicator {
	ind := pull.DefaultIndicator()
	ind.TopPrompts.Refreshing = pull.Text("scanning notes...")
	ind.BottomPrompts.Refreshing = pull.Text("loading next page...")
	ind.IconStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	ind.PromptStyle = lipgloss.NewStyle().Foreground(colorDim)
	return ind
}

func newModel(cfg config, watcher *fsnotify.Watcher, logger *log.Logger) (model, error) {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	list, err := pull.New(cfg.Pull.toPull(),
		pull.WithRenderer(noteIndicator()),
		pull.WithLogger(logger.WithPrefix("pull")),
	)
	if err != nil {
		return model{}, fmt.Errorf("pull config: %w", err)
	}

	h := help.New()
	h.ShortSeparator = " | "
	h.Styles.ShortKey = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(colorDim)
	h.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(colorDim)
	h.Styles.FullKey = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Width(10)
	h.Styles.FullDesc = lipgloss.NewStyle().Foreground(colorFull)
	h.Styles.FullSeparator = lipgloss.NewStyle()

	s := spinner.New()
	s.Spinner = spinner.Pulse
	s.Style = lipgloss.NewStyle().Foreground(colorAccent)

	ti := textinput.New()
	ti.Prompt = "/"
	ti.CharLimit = 80
	ti.Width = 30

	style := "dark"
	if !lipgloss.HasDarkBackground() {
		style = "light"
	}

	m := model{
		list:         list,
		preview:      viewport.New(0, 0),
		keys:         newKeyMap(cfg),
		help:         h,
		search:       ti,
		focused:      listPane,
		zones:        zone.New(),
		previewCache: make(map[string]string),
		glamourStyle: style,
		cfg:          cfg,
		store:        diskStore{dir: cfg.NotesDir, glob: cfg.ExtraGlob},
		results:      make(chan fetchResult, 1),
		watcher:      watcher,
		status:       statusBarState{spinner: s},
		statusTTL:    statusTimeout,
		logger:       logger,
	}
	m.rewatch()
	return m, nil
}

func (m model) Init() tea.Cmd {
	if m.watcher != nil {
		return watchDir(m.watcher)
	}
	return nil
}

func (m model) pageSize() int {
	if m.cfg.PageSize > 0 {
		return m.cfg.PageSize
	}
	return defaultPageSize
}

// wireActions points the list's pull actions at the current store and
// paging position. The bottom edge is disabled once every listed note is
// loaded, and while a search narrows the list.
func (m *model) wireActions() {
	start := min(m.loaded, len(m.refs))
	next := m.refs[start:min(start+m.pageSize(), len(m.refs))]
	depth := max(m.loaded, m.pageSize())
	m.list.SetActions(
		refreshAction(m.store, depth, m.gen, m.results),
		loadMoreAction(m.store, next, m.gen, m.results),
	)
	m.list.SetShowTop(m.cfg.Pull.ShowTop)
	m.list.SetShowBottom(m.cfg.Pull.ShowBottom && len(next) > 0 && m.query == "")
}

func (m *model) syncList() { m.syncListAt("") }

// syncListAt refilters, re-renders the rows and keeps the cursor in view.
// A non-empty path moves the cursor to that note when it is still listed.
func (m *model) syncListAt(path string) {
	m.visible = filterNotes(m.notes, m.query)
	if path != "" {
		if i := indexOfPath(m.visible, path); i >= 0 {
			m.cursor = i
		}
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.list.SetContent(m.renderRows(m.list.Viewport.Width))
	m.list.EnsureVisible(m.cursor)
}

func (m model) selectedNote() (note, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return note{}, false
	}
	return m.visible[m.cursor], true
}

func (m model) selectedPath() string {
	if n, ok := m.selectedNote(); ok {
		return n.path()
	}
	return ""
}

func (m *model) moveCursor(delta int) tea.Cmd {
	if len(m.visible) == 0 {
		return nil
	}
	m.cursor = max(0, min(m.cursor+delta, len(m.visible)-1))
	m.syncList()
	return m.selectionChanged()
}

// selectionChanged swaps the preview to the note under the cursor and
// renders it and its neighbors if they are not cached yet.
func (m *model) selectionChanged() tea.Cmd {
	n, ok := m.selectedNote()
	if !ok {
		m.prevPath = ""
		m.preview.SetContent("")
		return nil
	}
	if p := n.path(); p != m.prevPath {
		m.prevPath = p
		m.preview.SetContent(m.previewCache[p])
		m.preview.GotoTop()
	}
	return m.renderWindow()
}

// renderWindow renders the selected note plus two neighbors either side
// if not cached, so they are warm by the time the cursor gets there.
func (m model) renderWindow() tea.Cmd {
	if len(m.visible) == 0 || m.previewWidth == 0 {
		return nil
	}
	var cmds []tea.Cmd
	for i := m.cursor - 2; i <= m.cursor+2; i++ {
		if i < 0 || i >= len(m.visible) {
			continue
		}
		n := m.visible[i]
		if _, cached := m.previewCache[n.path()]; cached {
			continue
		}
		cmds = append(cmds, renderNote(m.store, n, m.glamourStyle, m.previewWidth))
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// setStatus shows a transient message in the status bar with a spinner.
// If duration > 0, the message auto-clears after that time.
func (m *model) setStatus(text string, duration time.Duration) tea.Cmd {
	m.status.id++
	m.status.text = text
	id := m.status.id
	cmds := []tea.Cmd{m.status.spinner.Tick}
	if duration > 0 {
		cmds = append(cmds, tea.Tick(duration, func(time.Time) tea.Msg {
			return statusClearMsg{id: id}
		}))
	}
	return tea.Batch(cmds...)
}

func (m *model) setQuery(q string) {
	path := m.selectedPath()
	m.query = q
	if q != "" {
		path = ""
		m.cursor = 0
		m.list.GotoTop()
	}
	m.syncListAt(path)
	m.wireActions()
}

// noteDirs is the notes directory plus whatever extra_glob matches.
func noteDirs(cfg config) []string {
	return append([]string{cfg.NotesDir}, resolveNoteDirs(cfg.ExtraGlob)...)
}

// rewatch points the watcher at the configured note directories.
func (m *model) rewatch() {
	if m.watcher == nil {
		return
	}
	for _, d := range m.watched {
		_ = m.watcher.Remove(d)
	}
	m.watched = m.watched[:0]
	for _, d := range noteDirs(m.cfg) {
		if err := m.watcher.Add(d); err != nil {
			m.logger.Debug("not watching", "dir", d, "err", err)
			continue
		}
		m.watched = append(m.watched, d)
	}
}

// ─── Pull results ────────────────────────────────────────────────────────────

// drainResults applies whatever the finished action left in the results
// channel. Results wired against an older store are dropped.
func (m *model) drainResults() string {
	var summary string
	for {
		select {
		case res := <-m.results:
			if res.gen != m.gen {
				m.logger.Debug("dropping stale result", "gen", res.gen, "current", m.gen)
				continue
			}
			if res.err == nil {
				summary = m.applyFetch(res)
			}
		default:
			return summary
		}
	}
}

func (m *model) applyFetch(res fetchResult) string {
	switch res.edge {
	case pull.Top:
		known := make(map[string]bool, len(m.refs))
		for _, r := range m.refs {
			known[r.path()] = true
		}
		fresh := 0
		for _, r := range res.refs {
			if !known[r.path()] {
				fresh++
			}
		}
		path := m.selectedPath()
		m.refs, m.notes, m.loaded = res.refs, res.notes, res.consumed
		m.stale = false
		m.previewCache = make(map[string]string)
		m.prevPath = ""
		m.syncListAt(path)
		m.logger.Info("refreshed", "listed", len(m.refs), "loaded", len(m.notes), "new", fresh)
		switch fresh {
		case 0:
			return "Up to date"
		case 1:
			return "1 new note"
		default:
			return fmt.Sprintf("%d new notes", fresh)
		}

	case pull.Bottom:
		m.notes = append(m.notes, res.notes...)
		m.loaded += res.consumed
		m.syncList()
		m.logger.Info("loaded page", "notes", len(res.notes), "loaded", len(m.notes), "listed", len(m.refs))
		return fmt.Sprintf("Loaded %d of %d", len(m.notes), len(m.refs))
	}
	return ""
}

// ─── Key Handling ────────────────────────────────────────────────────────────

func (m model) quit() (tea.Model, tea.Cmd) {
	m.list.Close()
	return m, tea.Quit
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m.quit()
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}

	// Help modal: swallow everything except ?, esc, q
	if m.help.ShowAll {
		switch {
		case key.Matches(msg, m.keys.Help) || msg.Type == tea.KeyEsc:
			m.help.ShowAll = false
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = true
		return m, nil
	case key.Matches(msg, m.keys.SwitchPane):
		if m.focused == listPane {
			m.focused = previewPane
		} else {
			m.focused = listPane
		}
		m.syncList()
		return m, nil
	case key.Matches(msg, m.keys.ScrollDown):
		m.preview.HalfViewDown()
		return m, nil
	case key.Matches(msg, m.keys.ScrollUp):
		m.preview.HalfViewUp()
		return m, nil
	case key.Matches(msg, m.keys.Demo):
		if m.demo {
			m.exitDemoMode()
		} else {
			m.enterDemoMode()
		}
		cmd := m.selectionChanged()
		return m, cmd
	case key.Matches(msg, m.keys.Settings):
		if m.demo {
			return m, nil
		}
		m.help.ShowAll = false
		exe, err := os.Executable()
		if err != nil {
			return m, func() tea.Msg { return errMsg{fmt.Errorf("could not find executable: %w", err)} }
		}
		c := exec.Command(exe, "--setup")
		return m, tea.ExecProcess(c, func(err error) tea.Msg {
			if err != nil {
				return errMsg{fmt.Errorf("setup failed: %w", err)}
			}
			return configUpdatedMsg{}
		})
	}

	if m.focused == previewPane {
		switch {
		case key.Matches(msg, m.keys.Down):
			m.preview.LineDown(1)
		case key.Matches(msg, m.keys.Up):
			m.preview.LineUp(1)
		case key.Matches(msg, m.keys.Top):
			m.preview.GotoTop()
		case key.Matches(msg, m.keys.Bottom):
			m.preview.GotoBottom()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		cmd := m.moveCursor(1)
		return m, cmd
	case key.Matches(msg, m.keys.Up):
		cmd := m.moveCursor(-1)
		return m, cmd
	case key.Matches(msg, m.keys.Top):
		m.list.GotoTop()
		cmd := m.moveCursor(-len(m.visible))
		return m, cmd
	case key.Matches(msg, m.keys.Bottom):
		m.list.GotoBottom()
		cmd := m.moveCursor(len(m.visible))
		return m, cmd
	case key.Matches(msg, m.keys.Refresh):
		cmd := m.list.Refresh()
		return m, cmd
	case key.Matches(msg, m.keys.LoadMore):
		cmd := m.list.LoadMore()
		return m, cmd
	case key.Matches(msg, m.keys.CycleStatus):
		if n, ok := m.selectedNote(); ok {
			return m, m.store.setStatus(n, nextStatus[n.status])
		}
	case key.Matches(msg, m.keys.Editor):
		if n, ok := m.selectedNote(); ok {
			return m, m.openEditor(n)
		}
	case key.Matches(msg, m.keys.CopyPath):
		if n, ok := m.selectedNote(); ok && !m.demo {
			if err := clipboard.WriteAll(n.path()); err != nil {
				return m, func() tea.Msg { return errMsg{fmt.Errorf("clipboard: %w", err)} }
			}
			m.copied.id++
			m.copied.path = n.path()
			m.syncList()
			id := m.copied.id
			return m, tea.Tick(m.statusTTL, func(time.Time) tea.Msg {
				return copiedClearMsg{id: id}
			})
		}
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue(m.query)
		m.search.CursorEnd()
		m.search.Focus()
		return m, textinput.Blink
	case msg.Type == tea.KeyEsc:
		if m.query != "" {
			m.search.SetValue("")
			m.setQuery("")
			cmd := m.selectionChanged()
			return m, cmd
		}
	}
	return m, nil
}

func (m model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.setQuery("")
		cmd := m.selectionChanged()
		return m, cmd
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != m.query {
		m.setQuery(v)
		cmd = tea.Batch(cmd, m.selectionChanged())
	}
	return m, cmd
}

func (m model) openEditor(n note) tea.Cmd {
	if m.demo {
		return func() tea.Msg { return errMsg{fmt.Errorf("editing is disabled in demo mode")} }
	}
	if len(m.cfg.Editor) == 0 {
		return nil
	}
	args := expandCommand(m.cfg.Editor, n.path())
	if effectiveEditorMode(m.cfg) == "background" {
		return runBackgroundEditor(args)
	}
	path := n.path()
	return tea.ExecProcess(shellCommand(args...), func(err error) tea.Msg {
		if err != nil {
			return errMsg{fmt.Errorf("editor: %w", err)}
		}
		return editorClosedMsg{path: path}
	})
}

// replaceNote swaps in an updated copy of a loaded note.
func (m *model) replaceNote(n note) {
	for i := range m.notes {
		if m.notes[i].path() == n.path() {
			m.notes[i] = n
			break
		}
	}
	delete(m.previewCache, n.path())
	if m.prevPath == n.path() {
		m.prevPath = ""
	}
	m.syncList()
}

// ─── Mouse ───────────────────────────────────────────────────────────────────

// listPos maps a mouse event into list coordinates. The zone is only
// known after the first scanned frame; layout geometry covers the gap.
func (m model) listPos(msg tea.MouseMsg) (x, y int, ok bool) {
	if z := m.zones.Get(notesZone); z != nil && !z.IsZero() {
		x, y = z.Pos(msg)
		return x, y, x >= 0 && y >= 0
	}
	l := m.layout()
	x, y = msg.X-l.listX, msg.Y-l.listY
	return x, y, x >= 0 && x < l.listInnerW && y >= 0 && y < l.listH
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.help.ShowAll || !m.ready {
		return m, nil
	}
	_, relY, inList := m.listPos(msg)
	if !inList && !m.list.Dragging() {
		if msg.Action == tea.MouseActionPress && msg.X >= m.layout().listW {
			switch msg.Button {
			case tea.MouseButtonWheelUp:
				m.preview.LineUp(3)
			case tea.MouseButtonWheelDown:
				m.preview.LineDown(3)
			}
		}
		return m, nil
	}

	clicked := false
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.press = clickState{ok: true, x: msg.X, y: msg.Y, row: relY}
		m.focused = listPane
	case msg.Action == tea.MouseActionRelease:
		if m.press.ok && m.press.x == msg.X && m.press.y == msg.Y && m.list.Projection().Rows == 0 {
			if row := m.press.row + m.list.Viewport.YOffset; row >= 0 && row < len(m.visible) {
				m.cursor = row
				clicked = true
			}
		}
		m.press = clickState{}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	if clicked {
		m.syncList()
		cmd = tea.Batch(cmd, m.selectionChanged())
	}
	return m, cmd
}

// ─── Update ──────────────────────────────────────────────────────────────────

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		l := m.layout()
		m.list.SetSize(l.listInnerW, l.listH)
		m.preview.Width = l.previewInnerW
		m.preview.Height = l.previewH
		if m.previewWidth != l.previewInnerW {
			m.previewWidth = l.previewInnerW
			m.previewCache = make(map[string]string)
			m.prevPath = ""
		}
		m.syncList()
		cmd := m.selectionChanged()
		return m, cmd

	case pull.ResolvedMsg:
		summary := m.drainResults()
		m.wireActions()
		var cmds []tea.Cmd
		if o := msg.Outcome; o.Failed() {
			cmds = append(cmds, m.setStatus(fmt.Sprintf("Error: %v", o.Err), m.statusTTL))
		} else if summary != "" {
			cmds = append(cmds, m.setStatus(summary, m.statusTTL))
		}
		cmds = append(cmds, m.selectionChanged())
		return m, tea.Batch(cmds...)

	case noteContentMsg:
		m.previewCache[msg.path] = msg.content
		if msg.path == m.selectedPath() {
			off := m.preview.YOffset
			m.preview.SetContent(msg.content)
			m.preview.SetYOffset(off)
		}
		return m, nil

	case statusUpdatedMsg:
		m.replaceNote(msg.note)
		cmds := []tea.Cmd{
			m.setStatus(fmt.Sprintf("%s → %s", msg.note.file, statusOrUnset(msg.note.status)), m.statusTTL),
			m.selectionChanged(),
		}
		return m, tea.Batch(cmds...)

	case editorClosedMsg:
		i := indexOfPath(m.notes, msg.path)
		if i < 0 || m.demo {
			return m, nil
		}
		n, err := readNote(m.notes[i].noteRef)
		if err != nil {
			cmd := m.setStatus(fmt.Sprintf("Error: %v", err), m.statusTTL)
			return m, cmd
		}
		m.replaceNote(n)
		cmd := m.selectionChanged()
		return m, cmd

	case editorLaunchedMsg:
		cmd := m.setStatus("Opened in "+commandLabel(m.cfg.Editor), m.statusTTL)
		return m, cmd

	case fileChangedMsg:
		var cmds []tea.Cmd
		if !m.demo {
			m.stale = true
			changed := make(map[string]bool, len(msg.files))
			for _, f := range msg.files {
				changed[f] = true
			}
			for p := range m.previewCache {
				if changed[filepath.Base(p)] {
					delete(m.previewCache, p)
				}
			}
			m.logger.Debug("notes changed on disk", "files", msg.files)
			cmds = append(cmds, m.renderWindow())
		}
		if m.watcher != nil {
			cmds = append(cmds, watchDir(m.watcher))
		}
		return m, tea.Batch(cmds...)

	case configUpdatedMsg:
		cfg := loadConfigRaw()
		moved := cfg.NotesDir != m.cfg.NotesDir || cfg.ExtraGlob != m.cfg.ExtraGlob
		m.cfg = cfg
		m.keys = newKeyMap(cfg)
		if moved {
			m.rewatch()
			if !m.demo {
				m.useStore(diskStore{dir: cfg.NotesDir, glob: cfg.ExtraGlob})
			}
		}
		m.wireActions()
		cmds := []tea.Cmd{m.setStatus("Settings saved", m.statusTTL), m.selectionChanged()}
		return m, tea.Batch(cmds...)

	case statusClearMsg:
		if msg.id == m.status.id {
			m.status.text = ""
		}
		return m, nil

	case copiedClearMsg:
		if msg.id == m.copied.id {
			m.copied.path = ""
			m.syncList()
		}
		return m, nil

	case errMsg:
		m.logger.Error("command failed", "err", msg.err)
		cmd := m.setStatus(fmt.Sprintf("Error: %v", msg.err), m.statusTTL)
		return m, cmd

	case spinner.TickMsg:
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
		if m.status.text != "" {
			m.status.spinner, cmd = m.status.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	// Runner signals, animation frames and wheel timers belong to the list.
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}
