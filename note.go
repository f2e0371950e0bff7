package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
	"golang.org/x/sync/errgroup"
)

// ─── Types ───────────────────────────────────────────────────────────────────

// noteStore is where notes come from. diskStore reads a notes directory;
// demoStore serves an in-memory dataset. list and load run inside pull
// actions, off the Update goroutine.
type noteStore interface {
	list(ctx context.Context) ([]noteRef, error)
	load(ctx context.Context, refs []noteRef) ([]note, error)
	body(n note) (string, error)
	setStatus(n note, status string) tea.Cmd
}

type pane int

const (
	listPane pane = iota
	previewPane
)

// noteRef is what a directory listing knows about a note before the file
// is read. Paging works on refs: only loaded pages are parsed.
type noteRef struct {
	dir      string
	file     string
	created  time.Time // file birth time
	modified time.Time
}

func (r noteRef) path() string {
	return filepath.Join(r.dir, r.file)
}

type note struct {
	noteRef
	status string   // from frontmatter, or "" (unset)
	labels []string // from frontmatter
	title  string   // from first # heading, else the file name
}

var nextStatus = map[string]string{
	"":         "open",
	"open":     "pinned",
	"pinned":   "archived",
	"archived": "",
}

func statusIcon(s string) string {
	switch s {
	case "open":
		return "○"
	case "pinned":
		return "●"
	case "archived":
		return "✓"
	default:
		return "·"
	}
}

func (n note) filterValue() string {
	return fmt.Sprintf("%s %s %s %s", n.status, strings.Join(n.labels, " "), n.title, n.file)
}

// ─── Frontmatter ─────────────────────────────────────────────────────────────

// parseFrontmatter splits content into its YAML frontmatter key-value pairs
// and the body after the closing ---.
func parseFrontmatter(content string) (fields map[string]string, body string) {
	fields = make(map[string]string)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(content, "\n")
	if len(lines) < 2 || lines[0] != "---" {
		return fields, content
	}
	closing := -1
	for i := 1; i < len(lines); i++ {
		if lines[i] == "---" {
			closing = i
			break
		}
	}
	if closing < 0 {
		return fields, content
	}
	for _, line := range lines[1:closing] {
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		// empty values are dropped; setFrontmatter deletes keys set to ""
		if k != "" && v != "" {
			fields[k] = v
		}
	}
	return fields, strings.Join(lines[closing+1:], "\n")
}

func headerFromBody(body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}
	return ""
}

// parseLabels splits a comma-separated list, lowercases and sorts it.
func parseLabels(s string) []string {
	if s == "" {
		return nil
	}
	var labels []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			labels = append(labels, p)
		}
	}
	sort.Strings(labels)
	return labels
}

// setFrontmatter merges updates into the file's frontmatter. Keys set to ""
// are removed, unknown keys are kept, and the block is dropped entirely
// once it is empty.
func setFrontmatter(filePath string, updates map[string]string) error {
	info, err := os.Stat(filePath)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	existing, body := parseFrontmatter(string(data))
	for k, v := range updates {
		if v == "" {
			delete(existing, k)
		} else {
			existing[k] = v
		}
	}

	result := body
	if len(existing) > 0 {
		var buf strings.Builder
		buf.WriteString("---\n")
		written := make(map[string]bool)
		for _, k := range []string{"status", "labels"} {
			if v, ok := existing[k]; ok {
				fmt.Fprintf(&buf, "%s: %s\n", k, v)
				written[k] = true
			}
		}
		var extra []string
		for k := range existing {
			if !written[k] {
				extra = append(extra, k)
			}
		}
		sort.Strings(extra)
		for _, k := range extra {
			fmt.Fprintf(&buf, "%s: %s\n", k, existing[k])
		}
		buf.WriteString("---\n")
		result = buf.String() + body
	}
	// Truncate in place rather than rename: a new inode would reset the
	// birth time and move the note to the top of the list.
	lastSelfWrite.Store(time.Now().UnixMilli())
	return os.WriteFile(filePath, []byte(result), info.Mode().Perm())
}

// ─── Listing ─────────────────────────────────────────────────────────────────

// listDir returns the .md files directly inside dir.
func listDir(dir string) ([]noteRef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var refs []noteRef
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		refs = append(refs, noteRef{
			dir:      dir,
			file:     e.Name(),
			created:  fileCreatedTime(filepath.Join(dir, e.Name()), info.ModTime()),
			modified: info.ModTime(),
		})
	}
	return refs, nil
}

// skipDirs are never descended into while resolving extra_glob.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	".hg":          true,
	".svn":         true,
	".venv":        true,
	"venv":         true,
	"__pycache__":  true,
	".cache":       true,
	".next":        true,
	".gradle":      true,
	".cargo":       true,
	".npm":         true,
	"target":       true,
	"dist":         true,
	"build":        true,
}

// resolveNoteDirs expands a doublestar glob into the directories it matches.
func resolveNoteDirs(glob string) []string {
	if glob == "" {
		return nil
	}
	glob = expandHome(glob)
	base := globBase(glob)
	if _, err := os.Stat(base); err != nil {
		return nil
	}

	var dirs []string
	_ = filepath.WalkDir(base, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return filepath.SkipDir
		}
		if !d.IsDir() {
			return nil
		}
		if path != base && skipDirs[d.Name()] {
			return filepath.SkipDir
		}
		if ok, _ := doublestar.PathMatch(glob, path); ok {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs
}

// globBase returns the longest leading directory of pattern that has no
// wildcard in it.
func globBase(pattern string) string {
	for i, c := range pattern {
		if c == '*' || c == '?' || c == '[' || c == '{' {
			dir := pattern[:i]
			if j := strings.LastIndex(dir, string(filepath.Separator)); j >= 0 {
				return pattern[:j]
			}
			return "."
		}
	}
	return pattern
}

// listNotes lists the notes directory and every extra directory
// concurrently. A missing or unreadable extra directory is skipped; the
// main directory is allowed to not exist yet.
func listNotes(ctx context.Context, dir, extraGlob string) ([]noteRef, error) {
	dirs := append([]string{dir}, resolveNoteDirs(extraGlob)...)
	found := make([][]noteRef, len(dirs))

	g, ctx := errgroup.WithContext(ctx)
	for i, d := range dirs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			refs, err := listDir(d)
			switch {
			case err == nil:
				found[i] = refs
			case i == 0 && !os.IsNotExist(err):
				return fmt.Errorf("list %s: %w", d, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var refs []noteRef
	for _, group := range found {
		for _, r := range group {
			if !seen[r.path()] {
				seen[r.path()] = true
				refs = append(refs, r)
			}
		}
	}
	sortRefs(refs)
	return refs, nil
}

func sortRefs(refs []noteRef) {
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].created.After(refs[j].created)
	})
}

// ─── Loading ─────────────────────────────────────────────────────────────────

const loadWorkers = 8

func readNote(ref noteRef) (note, error) {
	data, err := os.ReadFile(ref.path())
	if err != nil {
		return note{}, err
	}
	fm, body := parseFrontmatter(string(data))
	title := headerFromBody(body)
	if title == "" {
		title = strings.TrimSuffix(ref.file, ".md")
	}
	return note{
		noteRef: ref,
		status:  fm["status"],
		labels:  parseLabels(fm["labels"]),
		title:   title,
	}, nil
}

// loadNotes reads refs in parallel and returns them in the same order.
// Files that vanished since the listing are left out.
func loadNotes(ctx context.Context, refs []noteRef) ([]note, error) {
	notes := make([]note, len(refs))
	ok := make([]bool, len(refs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(loadWorkers)
	for i, ref := range refs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := readNote(ref)
			if err != nil {
				if os.IsNotExist(err) {
					return nil
				}
				return fmt.Errorf("read %s: %w", ref.file, err)
			}
			notes[i], ok[i] = n, true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := notes[:0]
	for i, n := range notes {
		if ok[i] {
			out = append(out, n)
		}
	}
	return out, nil
}

// ─── Search ──────────────────────────────────────────────────────────────────

type noteSource []note

func (s noteSource) String(i int) string { return s[i].filterValue() }
func (s noteSource) Len() int            { return len(s) }

// filterNotes returns the notes matching query, best match first.
func filterNotes(notes []note, query string) []note {
	query = strings.TrimSpace(query)
	if query == "" {
		return notes
	}
	matches := fuzzy.FindFrom(query, noteSource(notes))
	out := make([]note, len(matches))
	for i, match := range matches {
		out[i] = notes[match.Index]
	}
	return out
}

func indexOfPath(notes []note, path string) int {
	for i, n := range notes {
		if n.path() == path {
			return i
		}
	}
	return -1
}
