package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/fsnotify/fsnotify"

	"github.com/jakebf/pullpad/pull"
)

// lastSelfWrite is when we last wrote a note ourselves. The watcher skips
// events caused by our own writes.
var lastSelfWrite atomic.Int64

// Glamour renderers are expensive to build; keep a pool per "style:width".
var (
	rendererPoolMu sync.Mutex
	rendererPools  = make(map[string]*sync.Pool)
)

func getRenderer(style string, width int) (*glamour.TermRenderer, error) {
	key := fmt.Sprintf("%s:%d", style, width)
	rendererPoolMu.Lock()
	pool, ok := rendererPools[key]
	if !ok {
		pool = &sync.Pool{}
		rendererPools[key] = pool
	}
	rendererPoolMu.Unlock()

	if r, _ := pool.Get().(*glamour.TermRenderer); r != nil {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create renderer for %s: %w", key, err)
	}
	return r, nil
}

func putRenderer(style string, width int, r *glamour.TermRenderer) {
	key := fmt.Sprintf("%s:%d", style, width)
	rendererPoolMu.Lock()
	pool := rendererPools[key]
	rendererPoolMu.Unlock()
	if pool != nil {
		pool.Put(r)
	}
}

// ─── Commands ────────────────────────────────────────────────────────────────

func glamourRender(markdown, style string, width int) string {
	pw := width - 4
	if pw < 20 {
		pw = 80
	}
	r, err := getRenderer(style, pw)
	if err != nil {
		return markdown
	}
	rendered, err := r.Render(markdown)
	putRenderer(style, pw, r)
	if err != nil {
		return markdown
	}
	return rendered
}

func renderNote(store noteStore, n note, style string, width int) tea.Cmd {
	return func() tea.Msg {
		body, err := store.body(n)
		if err != nil {
			return noteContentMsg{path: n.path(), content: fmt.Sprintf("Error reading %s: %v", n.file, err)}
		}
		return noteContentMsg{path: n.path(), content: glamourRender(body, style, width)}
	}
}

func setNoteStatus(n note, status string) tea.Cmd {
	return func() tea.Msg {
		if err := setFrontmatter(n.path(), map[string]string{"status": status}); err != nil {
			return errMsg{fmt.Errorf("set status: %w", err)}
		}
		n.status = status
		return statusUpdatedMsg{note: n}
	}
}

// runBackgroundEditor starts a GUI editor and returns immediately. The
// watcher notices whatever the user saves.
func runBackgroundEditor(args []string) tea.Cmd {
	return func() tea.Msg {
		c := shellCommand(args...)
		if err := c.Start(); err != nil {
			return errMsg{fmt.Errorf("editor start: %w", err)}
		}
		go func() { _ = c.Wait() }()
		return editorLaunchedMsg{}
	}
}

// ─── Pull actions ────────────────────────────────────────────────────────────

// refreshAction relists every note directory and reloads the first depth
// notes, so a refresh keeps however many pages were already showing.
func refreshAction(store noteStore, depth, gen int, out chan<- fetchResult) pull.Action {
	return func(ctx context.Context, done func()) <-chan error {
		res := fetchResult{gen: gen, edge: pull.Top}
		res.refs, res.err = store.list(ctx)
		if res.err == nil {
			res.consumed = min(depth, len(res.refs))
			res.notes, res.err = store.load(ctx, res.refs[:res.consumed])
		}
		return deliver(ctx, out, res)
	}
}

// loadMoreAction reads the next page of already-listed notes.
func loadMoreAction(store noteStore, page []noteRef, gen int, out chan<- fetchResult) pull.Action {
	return func(ctx context.Context, done func()) <-chan error {
		res := fetchResult{gen: gen, edge: pull.Bottom, consumed: len(page)}
		res.notes, res.err = store.load(ctx, page)
		return deliver(ctx, out, res)
	}
}

func deliver(ctx context.Context, out chan<- fetchResult, res fetchResult) <-chan error {
	select {
	case out <- res:
	case <-ctx.Done():
	}
	errc := make(chan error, 1)
	errc <- res.err
	return errc
}

// ─── diskStore ───────────────────────────────────────────────────────────────

// diskStore implements noteStore over real markdown files.
type diskStore struct {
	dir  string
	glob string
}

func (s diskStore) list(ctx context.Context) ([]noteRef, error) {
	return listNotes(ctx, s.dir, s.glob)
}

func (s diskStore) load(ctx context.Context, refs []noteRef) ([]note, error) {
	return loadNotes(ctx, refs)
}

func (s diskStore) body(n note) (string, error) {
	data, err := os.ReadFile(n.path())
	if err != nil {
		return "", err
	}
	_, body := parseFrontmatter(string(data))
	return body, nil
}

func (s diskStore) setStatus(n note, status string) tea.Cmd {
	return setNoteStatus(n, status)
}

// watchDir waits for .md changes in the watched directories, coalescing
// bursts, and reports the changed file names.
func watchDir(watcher *fsnotify.Watcher) tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !strings.HasSuffix(ev.Name, ".md") {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
					continue
				}
				changed := map[string]bool{filepath.Base(ev.Name): true}
				time.Sleep(100 * time.Millisecond)
			drain:
				for {
					select {
					case extra, ok := <-watcher.Events:
						if !ok {
							break drain
						}
						if strings.HasSuffix(extra.Name, ".md") {
							changed[filepath.Base(extra.Name)] = true
						}
					default:
						break drain
					}
				}
				if time.Since(time.UnixMilli(lastSelfWrite.Load())) < 500*time.Millisecond {
					continue
				}
				files := make([]string, 0, len(changed))
				for f := range changed {
					files = append(files, f)
				}
				return fileChangedMsg{files: files}
			case _, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}
