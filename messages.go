package main

import "github.com/jakebf/pullpad/pull"

// ─── Messages ────────────────────────────────────────────────────────────────
//
// All messages are internal to the Update loop. Messages with an `id`
// field use generation counters to ignore stale timers.

// noteContentMsg delivers glamour-rendered markdown for the preview cache.
type noteContentMsg struct {
	path    string
	content string
}

// statusUpdatedMsg carries a note after its status was written.
type statusUpdatedMsg struct {
	note note
}

// fileChangedMsg is sent by the fsnotify watcher after debounce.
type fileChangedMsg struct {
	files []string // base filenames of changed .md files
}

// configUpdatedMsg is sent after the setup wizard completes.
type configUpdatedMsg struct{}

type statusClearMsg struct {
	id int
}

type copiedClearMsg struct {
	id int
}

type editorLaunchedMsg struct{}

// editorClosedMsg follows a foreground editor session on path.
type editorClosedMsg struct {
	path string
}

type errMsg struct {
	err error
}

// fetchResult is what a refresh or load-more action hands back. It is
// written before the action completes, so it is always waiting by the
// time the list reports pull.ResolvedMsg.
type fetchResult struct {
	gen      int // store generation the action was wired against
	edge     pull.Edge
	refs     []noteRef // refresh only: the full listing
	consumed int       // refs covered by notes, counting files that vanished
	notes    []note
	err      error
}
