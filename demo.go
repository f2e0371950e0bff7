package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const demoDir = "demo"

type demoEntry struct {
	status string
	labels []string
	title  string
	file   string
	age    time.Duration
}

// demoArchive is newest first. The first demoIncoming entries are held
// back and appear one per refresh.
var demoArchive = []demoEntry{
	{"", []string{"inbox"}, "Call the plumber about the upstairs tap", "leaky-tap.md", 0},
	{"open", []string{"garden"}, "Order seed potatoes before March", "seed-potatoes.md", 2 * time.Hour},
	{"", []string{"reading"}, "Notes on The Mythical Man-Month", "mythical-man-month.md", 5 * time.Hour},
	{"pinned", []string{"home"}, "Wifi password and router login", "router.md", 1 * day},
	{"open", []string{"work"}, "Quarterly planning: storage migration", "q3-storage.md", 2 * day},
	{"open", []string{"garden"}, "Raised bed layout", "raised-beds.md", 3 * day},
	{"", []string{"recipes"}, "Grandma's lemon drizzle", "lemon-drizzle.md", 4 * day},
	{"archived", []string{"work"}, "Retro: March incident", "march-retro.md", 6 * day},
	{"open", []string{"travel"}, "Lisbon packing list", "lisbon-packing.md", 8 * day},
	{"", []string{"reading"}, "Highlights from Designing Data-Intensive Applications", "ddia.md", 9 * day},
	{"archived", []string{"home"}, "Boiler service history", "boiler.md", 12 * day},
	{"open", []string{"work"}, "Interview loop feedback template", "interview-template.md", 14 * day},
	{"", []string{"ideas"}, "A terminal app for notes that you pull to refresh", "pull-to-refresh.md", 15 * day},
	{"archived", []string{"travel"}, "Porto restaurant shortlist", "porto-food.md", 19 * day},
	{"open", []string{"recipes"}, "Weeknight dal", "weeknight-dal.md", 22 * day},
	{"archived", []string{"garden"}, "Tomato varieties that worked", "tomatoes.md", 30 * day},
	{"", []string{"ideas"}, "Bike commute route options", "bike-routes.md", 33 * day},
	{"archived", []string{"work"}, "Onboarding checklist", "onboarding.md", 41 * day},
	{"archived", []string{"home"}, "Moving day checklist", "moving-day.md", 60 * day},
	{"archived", []string{"reading"}, "Books finished last year", "books-last-year.md", 90 * day},
}

const (
	day          = 24 * time.Hour
	demoIncoming = 3
)

// demoFeed is shared by every copy of demoStore. Actions call into it
// from their own goroutines.
type demoFeed struct {
	mu       sync.Mutex
	now      time.Time
	revealed int // how many held-back entries have arrived
	status   map[string]string
}

func newDemoFeed() *demoFeed {
	return &demoFeed{now: time.Now(), status: make(map[string]string)}
}

// demoStore implements noteStore in memory. Each list call "discovers"
// one more held-back note so that pulling to refresh visibly does
// something. delay makes the spinner worth looking at.
type demoStore struct {
	feed  *demoFeed
	delay time.Duration
}

func (s demoStore) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return nil
	}
	select {
	case <-time.After(s.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s demoStore) list(ctx context.Context) ([]noteRef, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	f := s.feed
	f.mu.Lock()
	defer f.mu.Unlock()
	first := demoIncoming - f.revealed
	if f.revealed < demoIncoming {
		f.revealed++
	}
	refs := make([]noteRef, 0, len(demoArchive))
	for _, e := range demoArchive[max(first, 0):] {
		at := f.now.Add(-e.age)
		refs = append(refs, noteRef{dir: demoDir, file: e.file, created: at, modified: at})
	}
	return refs, nil
}

func (s demoStore) load(ctx context.Context, refs []noteRef) ([]note, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.feed.mu.Lock()
	defer s.feed.mu.Unlock()
	notes := make([]note, 0, len(refs))
	for _, r := range refs {
		e, ok := demoEntryFor(r.file)
		if !ok {
			continue
		}
		status := e.status
		if st, ok := s.feed.status[r.file]; ok {
			status = st
		}
		notes = append(notes, note{noteRef: r, status: status, labels: e.labels, title: e.title})
	}
	return notes, nil
}

func (s demoStore) body(n note) (string, error) {
	e, ok := demoEntryFor(n.file)
	if !ok {
		return "", fmt.Errorf("no demo note %s", n.file)
	}
	return fmt.Sprintf("# %s\n\n*%s*\n\nThis is a demo note. Pull the list down to refresh, or up at the bottom to load older notes.\n\n- status: `%s`\n- created: %s\n",
		e.title, e.labels[0], statusOrUnset(n.status), n.created.Format("2006-01-02 15:04")), nil
}

func (s demoStore) setStatus(n note, status string) tea.Cmd {
	s.feed.mu.Lock()
	s.feed.status[n.file] = status
	s.feed.mu.Unlock()
	return func() tea.Msg {
		n.status = status
		return statusUpdatedMsg{note: n}
	}
}

func demoEntryFor(file string) (demoEntry, bool) {
	for _, e := range demoArchive {
		if e.file == file {
			return e, true
		}
	}
	return demoEntry{}, false
}

func statusOrUnset(s string) string {
	if s == "" {
		return "unset"
	}
	return s
}

// ─── Demo mode ───────────────────────────────────────────────────────────────

const demoLatency = 600 * time.Millisecond

// enterDemoMode loads the first page instantly; pulls after that pay
// demoLatency.
func (m *model) enterDemoMode() {
	m.demo = true
	feed := newDemoFeed()
	m.useStore(demoStore{feed: feed})
	m.store = demoStore{feed: feed, delay: demoLatency}
	m.wireActions()
}

func (m *model) exitDemoMode() {
	m.demo = false
	m.useStore(diskStore{dir: m.cfg.NotesDir, glob: m.cfg.ExtraGlob})
}

// useStore swaps the note source and loads its first page synchronously.
// Results still in flight from the old store are dropped by generation.
func (m *model) useStore(store noteStore) {
	m.store = store
	m.gen++
	m.query = ""
	m.search.SetValue("")
	m.stale = false
	m.previewCache = make(map[string]string)
	m.preview.SetContent("")

	refs, err := store.list(context.Background())
	var notes []note
	loaded := min(m.pageSize(), len(refs))
	if err == nil {
		notes, err = store.load(context.Background(), refs[:loaded])
	}
	if err != nil {
		m.logger.Error("switch store", "err", err)
		refs, notes, loaded = nil, nil, 0
	}
	m.refs, m.notes, m.loaded = refs, notes, loaded
	m.cursor = 0
	m.prevPath = ""
	m.syncList()
	m.wireActions()
	m.list.GotoTop()
}
