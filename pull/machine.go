package pull

// Decision is what a release (or a programmatic trigger) asks the caller
// to do next.
type Decision int

const (
	// DecisionIgnore: a session is already running on one of the edges.
	DecisionIgnore Decision = iota
	// DecisionRelax: snap back to rest with no side effect.
	DecisionRelax
	// DecisionCommit: the machine entered REFRESHING_*; start the action.
	DecisionCommit
)

func (d Decision) String() string {
	switch d {
	case DecisionRelax:
		return "relax"
	case DecisionCommit:
		return "commit"
	default:
		return "ignore"
	}
}

// Machine is the pull state machine. It is the only writer of State.
type Machine struct {
	cfg     Config
	state   State
	enabled [3]bool // indexed by Edge

	// settling is the edge snapping back after a relax or a resolved
	// session. While its overscroll shrinks the state is held instead of
	// re-classified, so the indicator does not flash back to EXCEEDED.
	settling Edge

	passthrough  bool
	onTransition func(from, to State)
}

func NewMachine(cfg Config) *Machine {
	m := &Machine{cfg: cfg}
	m.enabled[Top] = cfg.ShowTopIndicator
	m.enabled[Bottom] = cfg.ShowBottomIndicator
	return m
}

func (m *Machine) State() State { return m.state }

// Passthrough reports whether the last Evaluate saw overscroll on a
// disabled edge. The caller must hand that movement back to the scroll
// surface (clamp the offset) instead of treating it as a pull.
func (m *Machine) Passthrough() bool { return m.passthrough }

func (m *Machine) Enabled(e Edge) bool {
	if e != Top && e != Bottom {
		return false
	}
	return m.enabled[e]
}

// SetEnabled toggles an edge's indicator. Disabling the edge currently
// being pulled drops the machine back to IDLE; a running session is left
// alone.
func (m *Machine) SetEnabled(e Edge, on bool) {
	if e != Top && e != Bottom {
		return
	}
	m.enabled[e] = on
	if !on && m.state.Edge() == e && !m.state.Refreshing() {
		m.settling = edgeNone
		m.set(StateIdle)
	}
}

// OnTransition registers a hook called after every state change.
func (m *Machine) OnTransition(fn func(from, to State)) { m.onTransition = fn }

// Evaluate classifies continuous input. start and end are the current
// overscroll amounts past the top and the bottom. Input is tracked but
// has no effect while a session is running.
func (m *Machine) Evaluate(start, end float64) (passthrough bool) {
	m.passthrough = false
	if m.state.Refreshing() {
		return false
	}

	edge, amount := edgeNone, 0.0
	switch {
	case start > 0: // top wins when both edges report overscroll
		edge, amount = Top, start
	case end > 0:
		edge, amount = Bottom, end
	}

	if edge != edgeNone && !m.enabled[edge] {
		m.settling = edgeNone
		m.set(StateIdle)
		m.passthrough = true
		return true
	}

	if m.settling != edgeNone {
		if edge == m.settling {
			return false
		}
		m.settling = edgeNone
	}

	if edge == edgeNone {
		m.set(StateIdle)
		return false
	}
	m.set(pullingState(edge, amount >= m.threshold(edge)))
	return false
}

// Grab marks the start of a new user gesture. Any snap-back in progress
// stops holding the state.
func (m *Machine) Grab() { m.settling = edgeNone }

// Release handles the end of a gesture.
func (m *Machine) Release() (Decision, Edge) {
	if m.state.Refreshing() {
		return DecisionIgnore, edgeNone
	}
	if m.state == StateExceededTop || m.state == StateExceededBottom {
		edge := m.state.Edge()
		if m.enabled[edge] {
			m.settling = edgeNone
			m.set(refreshingState(edge))
			return DecisionCommit, edge
		}
	}
	m.settling = m.state.Edge()
	m.set(StateIdle)
	return DecisionRelax, edgeNone
}

// Trigger commits an edge without a gesture, e.g. from a key binding.
func (m *Machine) Trigger(e Edge) Decision {
	if m.state.Refreshing() || !m.Enabled(e) {
		return DecisionIgnore
	}
	m.settling = edgeNone
	m.set(refreshingState(e))
	return DecisionCommit
}

// Settle ends a session on edge. overscroll is the edge's current
// overscroll: when it is already zero the machine goes straight to IDLE,
// otherwise it waits in NOT_EXCEEDED until Evaluate sees zero.
func (m *Machine) Settle(e Edge, overscroll float64) {
	if m.state != refreshingState(e) {
		return
	}
	if overscroll <= 0 {
		m.settling = edgeNone
		m.set(StateIdle)
		return
	}
	m.settling = e
	m.set(pullingState(e, false))
}

func (m *Machine) threshold(e Edge) float64 {
	if e == Bottom {
		return m.cfg.MinPullUpDistance
	}
	return m.cfg.MinPullDownDistance
}

func (m *Machine) set(s State) {
	if s == m.state {
		return
	}
	from := m.state
	m.state = s
	if m.onTransition != nil {
		m.onTransition(from, s)
	}
}
