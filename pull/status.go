package pull

import "fmt"

// Edge is the end of the list a pull belongs to.
type Edge int

const (
	edgeNone Edge = iota
	Top
	Bottom
)

func (e Edge) String() string {
	switch e {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	default:
		return "none"
	}
}

// Status is the scroll status shown to indicators: which edge is being
// pulled and whether the pull has passed that edge's threshold. The zero
// value is neutral.
type Status struct {
	Edge     Edge
	Exceeded bool
}

func (s Status) Neutral() bool { return s.Edge == edgeNone }

func (s Status) String() string {
	if s.Neutral() {
		return "NONE"
	}
	prefix := "NOT_EXCEEDED"
	if s.Exceeded {
		prefix = "EXCEEDED"
	}
	dir := "DOWN"
	if s.Edge == Bottom {
		dir = "UP"
	}
	return fmt.Sprintf("%s_PULL_%s_DISTANCE", prefix, dir)
}

// State is the pull state machine's position.
type State int

const (
	StateIdle State = iota
	StateNotExceededTop
	StateExceededTop
	StateRefreshingTop
	StateNotExceededBottom
	StateExceededBottom
	StateRefreshingBottom
)

var stateNames = [...]string{
	StateIdle:              "IDLE",
	StateNotExceededTop:    "NOT_EXCEEDED_TOP",
	StateExceededTop:       "EXCEEDED_TOP",
	StateRefreshingTop:     "REFRESHING_TOP",
	StateNotExceededBottom: "NOT_EXCEEDED_BOTTOM",
	StateExceededBottom:    "EXCEEDED_BOTTOM",
	StateRefreshingBottom:  "REFRESHING_BOTTOM",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

func (s State) Edge() Edge {
	switch s {
	case StateNotExceededTop, StateExceededTop, StateRefreshingTop:
		return Top
	case StateNotExceededBottom, StateExceededBottom, StateRefreshingBottom:
		return Bottom
	}
	return edgeNone
}

func (s State) Refreshing() bool {
	return s == StateRefreshingTop || s == StateRefreshingBottom
}

// Status projects the state onto the four indicator statuses. A refreshing
// edge keeps reporting its exceeded status, as the indicator stays in the
// holding position while the action runs.
func (s State) Status() Status {
	switch s {
	case StateNotExceededTop:
		return Status{Edge: Top}
	case StateExceededTop, StateRefreshingTop:
		return Status{Edge: Top, Exceeded: true}
	case StateNotExceededBottom:
		return Status{Edge: Bottom}
	case StateExceededBottom, StateRefreshingBottom:
		return Status{Edge: Bottom, Exceeded: true}
	}
	return Status{}
}

func pullingState(e Edge, exceeded bool) State {
	switch {
	case e == Top && exceeded:
		return StateExceededTop
	case e == Top:
		return StateNotExceededTop
	case e == Bottom && exceeded:
		return StateExceededBottom
	case e == Bottom:
		return StateNotExceededBottom
	}
	return StateIdle
}

func refreshingState(e Edge) State {
	if e == Bottom {
		return StateRefreshingBottom
	}
	return StateRefreshingTop
}
