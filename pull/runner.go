package pull

import (
	"context"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// Action is a refresh or load-more handler. It runs on its own goroutine.
// It may call done (once or many times, from any goroutine), or return a
// channel that yields an error or is closed when the work is finished, or
// both; whichever signal arrives first completes the action. A non-nil
// error from the channel is reported in the Outcome but still counts as
// completion. ctx is cancelled if the list is torn down mid-session.
type Action func(ctx context.Context, done func()) <-chan error

// Outcome describes a resolved session.
type Outcome struct {
	Edge    Edge
	Trace   string // unique per session, for log correlation
	Err     error
	Elapsed time.Duration
}

// Failed reports whether the action returned an error or panicked. The
// list snaps back either way; surfacing the failure is up to the host.
func (o Outcome) Failed() bool { return o.Err != nil }

// ─── Session messages ────────────────────────────────────────────────────────
//
// Each carries the session id so that messages from an earlier or
// torn-down session are ignored.

type handlerDoneMsg struct {
	id  int
	err error
}

type stateAppliedMsg struct {
	id int
}

type displayTimerMsg struct {
	id int
}

type session struct {
	id        int
	edge      Edge
	trace     string
	startedAt time.Time
	cancel    context.CancelFunc

	handlerDone  bool
	stateApplied bool
	timerExpired bool
	fired        bool
	err          error
}

// Runner executes actions, at most one per list at a time, and holds each
// session open until the action has completed, the refreshing state has
// been rendered and the minimum display time has elapsed.
type Runner struct {
	minDisplay time.Duration
	now        func() time.Time
	gen        int
	active     *session
	closed     bool
}

func NewRunner(minDisplay time.Duration) *Runner {
	return &Runner{minDisplay: minDisplay, now: time.Now}
}

// Busy reports whether a session is open.
func (r *Runner) Busy() bool { return r.active != nil }

// Session returns the edge and trace id of the open session.
func (r *Runner) Session() (Edge, string, bool) {
	if r.active == nil {
		return edgeNone, "", false
	}
	return r.active.edge, r.active.trace, true
}

// Start opens a session for edge and returns the commands that produce
// its three completion signals. A nil action completes immediately.
func (r *Runner) Start(edge Edge, action Action) (tea.Cmd, error) {
	if r.closed {
		return nil, ErrClosed
	}
	if r.active != nil {
		return nil, ErrSessionOpen
	}
	r.gen++
	ctx, cancel := context.WithCancel(context.Background())
	s := &session{
		id:        r.gen,
		edge:      edge,
		trace:     uuid.NewString(),
		startedAt: r.now(),
		cancel:    cancel,
	}
	r.active = s

	id := s.id
	return tea.Batch(
		runAction(ctx, id, action),
		func() tea.Msg { return stateAppliedMsg{id: id} },
		tea.Tick(r.minDisplay, func(time.Time) tea.Msg {
			return displayTimerMsg{id: id}
		}),
	), nil
}

// Update folds a session message into the barrier. It returns the Outcome
// exactly once per session, the moment the last of the three signals
// arrives. The session stays open until Finish so the caller can order
// its snap-back before the session is cleared.
func (r *Runner) Update(msg tea.Msg) (Outcome, bool) {
	s := r.active
	if s == nil || s.fired {
		return Outcome{}, false
	}
	switch msg := msg.(type) {
	case handlerDoneMsg:
		if msg.id != s.id {
			return Outcome{}, false
		}
		s.handlerDone = true
		s.err = msg.err
	case stateAppliedMsg:
		if msg.id != s.id {
			return Outcome{}, false
		}
		s.stateApplied = true
	case displayTimerMsg:
		if msg.id != s.id {
			return Outcome{}, false
		}
		s.timerExpired = true
	default:
		return Outcome{}, false
	}
	if !s.handlerDone || !s.stateApplied || !s.timerExpired {
		return Outcome{}, false
	}
	s.fired = true
	return Outcome{
		Edge:    s.edge,
		Trace:   s.trace,
		Err:     s.err,
		Elapsed: r.now().Sub(s.startedAt),
	}, true
}

// Finish clears a fired session.
func (r *Runner) Finish() {
	if r.active == nil || !r.active.fired {
		return
	}
	r.active.cancel()
	r.active = nil
}

// Close tears the runner down. The open session's context is cancelled
// and any of its messages still in flight become no-ops.
func (r *Runner) Close() {
	if r.active != nil {
		r.active.cancel()
		r.active = nil
	}
	r.closed = true
}

func runAction(ctx context.Context, id int, action Action) tea.Cmd {
	return func() tea.Msg {
		return handlerDoneMsg{id: id, err: await(ctx, action)}
	}
}

// await blocks until action signals completion through either channel.
func await(ctx context.Context, action Action) error {
	if action == nil {
		return nil
	}
	finished := make(chan error, 1)
	var once sync.Once
	signal := func(err error) {
		once.Do(func() { finished <- err })
	}

	var awaited <-chan error
	func() {
		defer func() {
			if r := recover(); r != nil {
				signal(fmt.Errorf("%w: %v", ErrActionPanicked, r))
			}
		}()
		awaited = action(ctx, func() { signal(nil) })
	}()
	if awaited != nil {
		go func() {
			select {
			case err := <-awaited:
				signal(err)
			case <-ctx.Done():
			}
		}()
	}

	select {
	case err := <-finished:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
