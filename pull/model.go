package pull

import (
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// ResolvedMsg is emitted after a session has snapped back. It carries
// the action's outcome, including any error the action reported.
type ResolvedMsg struct {
	Outcome Outcome
}

// frameMsg advances the snap-back animation.
type frameMsg struct {
	id int
}

// wheelIdleMsg fires once the wheel has been still for WheelRelease.
type wheelIdleMsg struct {
	id int
}

type dragState struct {
	active  bool
	claimed bool
	x, y    int
	anchor  float64 // undamped offset at press time
}

type animState struct {
	id     int
	active bool
	target float64
}

// Option configures a Model.
type Option func(*Model)

func WithRefresh(a Action) Option  { return func(m *Model) { m.refresh = a } }
func WithLoadMore(a Action) Option { return func(m *Model) { m.loadMore = a } }

func WithRenderer(r Renderer) Option {
	return func(m *Model) {
		if r != nil {
			m.renderer = r
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// Model is a viewport with pull-to-refresh at the top and pull-to-load-more
// at the bottom. Mouse drags and the wheel past either end pull the
// content; releasing past the threshold runs the edge's action.
//
// Model is a value type like other bubbles components, but its tracker,
// state machine and runner are shared by every copy: keep only the copy
// returned by the latest Update.
type Model struct {
	Viewport viewport.Model
	Spinner  spinner.Model

	cfg      Config
	tracker  *Tracker
	machine  *Machine
	runner   *Runner
	refresh  Action
	loadMore Action
	renderer Renderer
	logger   *log.Logger

	drag    dragState
	wheelID int
	anim    animState
}

// New validates cfg and returns a ready Model.
func New(cfg Config, opts ...Option) (Model, error) {
	if err := cfg.Validate(); err != nil {
		return Model{}, err
	}
	machine := NewMachine(cfg)
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	m := Model{
		Viewport: viewport.New(0, 0),
		Spinner:  s,
		cfg:      cfg,
		machine:  machine,
		tracker: NewTracker(func(mt Metrics) {
			machine.Evaluate(mt.OverscrollPastStart(), mt.OverscrollPastEnd())
		}),
		runner:   NewRunner(cfg.MinDisplayTime),
		renderer: DefaultIndicator(),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(&m)
	}
	logger := m.logger
	machine.OnTransition(func(from, to State) {
		logger.Debug("pull state", "from", from, "to", to)
	})
	return m, nil
}

// ─── Accessors ───────────────────────────────────────────────────────────────

func (m Model) Config() Config   { return m.cfg }
func (m Model) State() State     { return m.machine.State() }
func (m Model) Metrics() Metrics { return m.tracker.Metrics() }
func (m Model) Busy() bool       { return m.runner.Busy() }
func (m Model) Dragging() bool   { return m.drag.active }

// SetActions replaces the refresh and load-more actions. A running
// session keeps the action it started with.
func (m *Model) SetActions(refresh, loadMore Action) {
	m.refresh = refresh
	m.loadMore = loadMore
}

func (m *Model) SetShowTop(on bool)    { m.machine.SetEnabled(Top, on) }
func (m *Model) SetShowBottom(on bool) { m.machine.SetEnabled(Bottom, on) }

func (m *Model) SetSize(width, height int) {
	m.Viewport.Width = width
	m.Viewport.Height = height
	m.tracker.SetViewportExtent(float64(height) * m.cfg.RowUnits)
	m.settleRange()
}

func (m *Model) SetContent(s string) {
	m.Viewport.SetContent(s)
	m.tracker.SetContentExtent(float64(m.Viewport.TotalLineCount()) * m.cfg.RowUnits)
	m.settleRange()
}

// Projection is the snapshot the indicator is rendered from.
func (m Model) Projection() Projection {
	mt := m.tracker.Metrics()
	st := m.machine.State()
	p := Projection{
		State:          st,
		Status:         st.Status(),
		Refreshing:     st.Refreshing(),
		ScrollPosition: mt.Offset,
		Spinner:        m.Spinner.View(),
	}
	if over := mt.OverscrollPastStart(); over > 0 {
		p.Edge, p.Overscroll = Top, over
	} else if over := mt.OverscrollPastEnd(); over > 0 {
		p.Edge, p.Overscroll = Bottom, over
	}
	if p.Overscroll > 0 {
		p.Rows = int(math.Ceil(p.Overscroll / m.cfg.RowUnits))
	}
	if p.Refreshing && p.Rows == 0 {
		p.Edge, p.Rows = st.Edge(), 1
	}
	if p.Rows > m.Viewport.Height {
		p.Rows = m.Viewport.Height
	}
	return p
}

// ─── Scrolling ───────────────────────────────────────────────────────────────

// ScrollToOffset moves the surface to offset (in units). Animated moves
// ease in over FrameInterval ticks; the returned command drives them.
func (m *Model) ScrollToOffset(offset float64, animated bool) tea.Cmd {
	m.anim.id++
	if !animated || m.cfg.FrameInterval <= 0 {
		m.anim.active = false
		m.scrollTo(offset)
		return nil
	}
	m.anim.active = true
	m.anim.target = offset
	return m.frame()
}

// EnsureVisible scrolls the minimum distance that brings row into view.
// It does nothing while the list is pulled or a gesture is in progress.
func (m *Model) EnsureVisible(row int) {
	if m.drag.active || m.anim.active || m.overscroll() > 0 {
		return
	}
	top := m.Viewport.YOffset
	h := m.Viewport.Height
	switch {
	case row < top:
		m.scrollTo(float64(row) * m.cfg.RowUnits)
	case h > 0 && row >= top+h:
		m.scrollTo(float64(row-h+1) * m.cfg.RowUnits)
	}
}

// GotoTop and GotoBottom jump within the natural range.
func (m *Model) GotoTop() {
	if m.overscroll() > 0 {
		return
	}
	m.scrollTo(0)
}

func (m *Model) GotoBottom() {
	if m.overscroll() > 0 {
		return
	}
	m.scrollTo(m.tracker.Metrics().RestEnd())
}

func (m *Model) scrollTo(offset float64) {
	// A list shorter than the viewport pulls up by at most its own extent.
	if mt := m.tracker.Metrics(); mt.Range() < 0 && offset > mt.Content {
		offset = mt.Content
	}
	m.tracker.ScrollTo(offset)
	if m.machine.Passthrough() {
		m.tracker.ScrollTo(m.tracker.Metrics().Clamp(offset))
	}
	m.syncViewport()
}

func (m *Model) syncViewport() {
	mt := m.tracker.Metrics()
	m.Viewport.SetYOffset(int(math.Round(mt.Clamp(mt.Offset) / m.cfg.RowUnits)))
}

// settleRange pulls a resting offset back into range after the content
// or the viewport changed size.
func (m *Model) settleRange() {
	if m.drag.active || m.anim.active || m.machine.State().Refreshing() {
		m.syncViewport()
		return
	}
	mt := m.tracker.Metrics()
	if c := mt.Clamp(mt.Offset); c != mt.Offset {
		m.scrollTo(c)
		return
	}
	m.syncViewport()
}

func (m Model) overscroll() float64 {
	mt := m.tracker.Metrics()
	return mt.OverscrollPastStart() + mt.OverscrollPastEnd()
}

func (m Model) edgeOverscroll(e Edge) float64 {
	if e == Bottom {
		return m.tracker.OverscrollPastEnd()
	}
	return m.tracker.OverscrollPastStart()
}

// damp maps a raw gesture offset to the displayed one: the part beyond
// the natural range is scaled by Resistance.
func (m Model) damp(raw float64) float64 {
	end := m.tracker.Metrics().RestEnd()
	switch {
	case raw < 0:
		return raw * m.cfg.Resistance
	case raw > end:
		return end + (raw-end)*m.cfg.Resistance
	}
	return raw
}

func (m Model) undamp(offset float64) float64 {
	end := m.tracker.Metrics().RestEnd()
	switch {
	case offset < 0:
		return offset / m.cfg.Resistance
	case offset > end:
		return end + (offset-end)/m.cfg.Resistance
	}
	return offset
}

// holdOffset is where the list waits while edge's action runs: pulled
// open by exactly the edge's threshold.
func (m Model) holdOffset(e Edge) float64 {
	mt := m.tracker.Metrics()
	switch e {
	case Top:
		return -m.cfg.MinPullDownDistance
	case Bottom:
		return mt.RestEnd() + m.cfg.MinPullUpDistance
	}
	return mt.Clamp(mt.Offset)
}

func (m *Model) stopAnimation() {
	if m.anim.active {
		m.anim.active = false
		m.anim.id++
	}
}

func (m Model) frame() tea.Cmd {
	id := m.anim.id
	return tea.Tick(m.cfg.FrameInterval, func(time.Time) tea.Msg {
		return frameMsg{id: id}
	})
}

func (m *Model) step(id int) tea.Cmd {
	if id != m.anim.id || !m.anim.active {
		return nil
	}
	cur := m.tracker.Metrics().Offset
	next := cur + (m.anim.target-cur)/2
	if math.Abs(m.anim.target-next) < m.cfg.RowUnits/2 {
		next = m.anim.target
		m.anim.active = false
	}
	m.scrollTo(next)
	if !m.anim.active {
		return nil
	}
	return m.frame()
}

// ─── Sessions ────────────────────────────────────────────────────────────────

// Refresh and LoadMore start an edge's action without a gesture. They
// obey the same enable flags and single-session guard as a release.
func (m *Model) Refresh() tea.Cmd  { return m.trigger(Top) }
func (m *Model) LoadMore() tea.Cmd { return m.trigger(Bottom) }

func (m *Model) trigger(e Edge) tea.Cmd {
	if m.machine.Trigger(e) != DecisionCommit {
		return nil
	}
	return m.begin(e)
}

func (m *Model) release() tea.Cmd {
	decision, edge := m.machine.Release()
	switch decision {
	case DecisionCommit:
		return m.begin(edge)
	case DecisionIgnore:
		running, _, _ := m.runner.Session()
		return m.ScrollToOffset(m.holdOffset(running), true)
	}
	mt := m.tracker.Metrics()
	return m.ScrollToOffset(mt.Clamp(mt.Offset), true)
}

func (m *Model) begin(e Edge) tea.Cmd {
	action := m.refresh
	if e == Bottom {
		action = m.loadMore
	}
	cmd, err := m.runner.Start(e, action)
	if err != nil {
		m.logger.Warn("pull action not started", "edge", e, "err", err)
		m.machine.Settle(e, 0)
		mt := m.tracker.Metrics()
		return m.ScrollToOffset(mt.Clamp(mt.Offset), true)
	}
	_, trace, _ := m.runner.Session()
	m.logger.Info("pull session started", "edge", e, "trace", trace)
	return tea.Batch(cmd, m.ScrollToOffset(m.holdOffset(e), true), m.Spinner.Tick)
}

// resolve runs once per session, after the action finished, the
// refreshing state was applied and the minimum display time passed.
func (m *Model) resolve(o Outcome) tea.Cmd {
	m.runner.Finish()
	m.machine.Settle(o.Edge, m.edgeOverscroll(o.Edge))
	mt := m.tracker.Metrics()
	snap := m.ScrollToOffset(mt.Clamp(mt.Offset), true)

	if o.Failed() {
		m.logger.Warn("pull session failed", "edge", o.Edge, "trace", o.Trace, "elapsed", o.Elapsed, "err", o.Err)
	} else {
		m.logger.Info("pull session resolved", "edge", o.Edge, "trace", o.Trace, "elapsed", o.Elapsed)
	}
	return tea.Batch(snap, func() tea.Msg { return ResolvedMsg{Outcome: o} })
}

// Close tears the component down. A running action's context is
// cancelled and its late completion is ignored.
func (m *Model) Close() {
	m.runner.Close()
	m.stopAnimation()
	m.wheelID++
	m.drag = dragState{}
}

// ─── Update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if o, ok := m.runner.Update(msg); ok {
		cmd := m.resolve(o)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return m.handleMouse(msg)

	case frameMsg:
		cmd := m.step(msg.id)
		return m, cmd

	case wheelIdleMsg:
		if msg.id != m.wheelID || m.drag.active {
			return m, nil
		}
		if m.machine.State() == StateIdle && m.overscroll() == 0 {
			return m, nil
		}
		cmd := m.release()
		return m, cmd

	case spinner.TickMsg:
		if !m.machine.State().Refreshing() {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelUp:
		cmd := m.wheel(-1)
		return m, cmd

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelDown:
		cmd := m.wheel(1)
		return m, cmd

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.drag = dragState{
			active: true,
			x:      msg.X,
			y:      msg.Y,
			anchor: m.undamp(m.tracker.Metrics().Offset),
		}

	case msg.Action == tea.MouseActionMotion && m.drag.active:
		m.dragTo(msg.X, msg.Y)

	case msg.Action == tea.MouseActionRelease && m.drag.active:
		claimed := m.drag.claimed
		m.drag = dragState{}
		if claimed {
			cmd := m.release()
			return m, cmd
		}
	}
	return m, nil
}

// dragTo applies the cumulative drag since the press. The gesture is
// claimed on the first movement that is predominantly vertical; a
// horizontal start leaves it to the host.
func (m *Model) dragTo(x, y int) {
	dx, dy := float64(x-m.drag.x), float64(y-m.drag.y)
	if !m.drag.claimed {
		if dx == 0 && dy == 0 {
			return
		}
		g := Classify(dx, dy)
		if !g.Captures() {
			m.drag = dragState{}
			return
		}
		m.drag.claimed = true
		m.machine.Grab()
		m.logger.Debug("pull drag claimed", "down", g.DownPull, "up", g.UpPull)
	}
	m.stopAnimation()
	m.scrollTo(m.damp(m.drag.anchor - dy*m.cfg.RowUnits))
}

func (m *Model) wheel(dir int) tea.Cmd {
	if m.drag.active || m.cfg.WheelDelta == 0 {
		return nil
	}
	m.machine.Grab()
	m.stopAnimation()
	raw := m.undamp(m.tracker.Metrics().Offset) + float64(dir*m.cfg.WheelDelta)*m.cfg.RowUnits
	m.scrollTo(m.damp(raw))

	m.wheelID++
	id := m.wheelID
	return tea.Tick(m.cfg.WheelRelease, func(time.Time) tea.Msg {
		return wheelIdleMsg{id: id}
	})
}

// ─── View ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	body := m.Viewport.View()
	p := m.Projection()
	if p.Rows == 0 {
		return body
	}
	lines := strings.Split(body, "\n")
	rows := p.Rows
	if rows > len(lines) {
		rows = len(lines)
	}
	ind := fitRows(m.renderer.RenderIndicator(p, m.Viewport.Width, rows), m.Viewport.Width, rows)
	if p.Edge == Bottom {
		lines = append(lines[rows:], ind...)
	} else {
		lines = append(ind, lines[:len(lines)-rows]...)
	}
	return strings.Join(lines, "\n")
}

// fitRows returns exactly n lines, padding with blank rows of width.
func fitRows(s string, width, n int) []string {
	var lines []string
	if s != "" {
		lines = strings.Split(s, "\n")
	}
	if len(lines) > n {
		lines = lines[:n]
	}
	for len(lines) < n {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return lines
}
