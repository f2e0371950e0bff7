package main

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"
)

// writeFile is a test helper that writes content to a file and fails the test on error.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writeFile(%s): %v", path, err)
	}
}

func TestParseFrontmatter(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		fields map[string]string
		body   string
	}{
		{
			name:   "no frontmatter",
			input:  "# Title\n\nBody text",
			fields: map[string]string{},
			body:   "# Title\n\nBody text",
		},
		{
			name:   "with status and labels",
			input:  "---\nstatus: open\nlabels: home, garden\n---\n# Title\n\nBody",
			fields: map[string]string{"status": "open", "labels": "home, garden"},
			body:   "# Title\n\nBody",
		},
		{
			name:   "empty frontmatter",
			input:  "---\n---\n# Title",
			fields: map[string]string{},
			body:   "# Title",
		},
		{
			name:   "unterminated frontmatter is body",
			input:  "---\nstatus: open\n# Title",
			fields: map[string]string{},
			body:   "---\nstatus: open\n# Title",
		},
		{
			name:   "crlf line endings",
			input:  "---\r\nstatus: pinned\r\n---\r\n# Title",
			fields: map[string]string{"status": "pinned"},
			body:   "# Title",
		},
		{
			name:   "empty values dropped",
			input:  "---\nstatus:\nlabels: work\n---\n",
			fields: map[string]string{"labels": "work"},
			body:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, body := parseFrontmatter(tt.input)
			if len(fields) != len(tt.fields) {
				t.Fatalf("fields = %v, want %v", fields, tt.fields)
			}
			for k, v := range tt.fields {
				if fields[k] != v {
					t.Errorf("fields[%q] = %q, want %q", k, fields[k], v)
				}
			}
			if body != tt.body {
				t.Errorf("body = %q, want %q", body, tt.body)
			}
		})
	}
}

func TestHeaderFromBody(t *testing.T) {
	if got := headerFromBody("intro\n\n#  Spaced Title \n## sub"); got != "Spaced Title" {
		t.Errorf("headerFromBody = %q", got)
	}
	if got := headerFromBody("## only a subheading"); got != "" {
		t.Errorf("headerFromBody without # heading = %q, want empty", got)
	}
}

func TestParseLabels(t *testing.T) {
	got := parseLabels(" Work, home ,,garden")
	want := []string{"garden", "home", "work"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("parseLabels = %v, want %v", got, want)
	}
	if parseLabels("") != nil {
		t.Error("parseLabels(\"\") should be nil")
	}
}

func TestSetFrontmatter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.md")
	writeFile(t, path, "---\nlabels: work\nauthor: me\n---\n# Note\n\nBody\n")

	if err := setFrontmatter(path, map[string]string{"status": "open"}); err != nil {
		t.Fatalf("setFrontmatter: %v", err)
	}
	data, _ := os.ReadFile(path)
	want := "---\nstatus: open\nlabels: work\nauthor: me\n---\n# Note\n\nBody\n"
	if string(data) != want {
		t.Fatalf("content =\n%s\nwant\n%s", data, want)
	}

	// Clearing every key drops the block entirely.
	if err := setFrontmatter(path, map[string]string{"status": "", "labels": "", "author": ""}); err != nil {
		t.Fatalf("setFrontmatter: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "# Note\n\nBody\n" {
		t.Fatalf("content = %q, want body only", data)
	}
}

func TestNextStatusCycles(t *testing.T) {
	s := ""
	var seen []string
	for range 4 {
		s = nextStatus[s]
		seen = append(seen, s+statusIcon(s))
	}
	if got := strings.Join(seen, ","); got != "open○,pinned●,archived✓,·" {
		t.Errorf("cycle = %s", got)
	}
}

func TestGlobBase(t *testing.T) {
	tests := []struct{ in, want string }{
		{"/home/me/code/**/notes", "/home/me/code"},
		{"/srv/notes", "/srv/notes"},
		{"*/notes", "."},
		{"/srv/{a,b}/notes", "/srv"},
	}
	for _, tt := range tests {
		if got := globBase(tt.in); got != tt.want {
			t.Errorf("globBase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestListNotesSkipsNonMarkdown(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "# A")
	writeFile(t, filepath.Join(dir, "b.md"), "# B")
	writeFile(t, filepath.Join(dir, "c.txt"), "not a note")
	writeFile(t, filepath.Join(dir, "sub", "d.md"), "# nested, not listed")

	refs, err := listNotes(context.Background(), dir, "")
	if err != nil {
		t.Fatalf("listNotes: %v", err)
	}
	var files []string
	for _, r := range refs {
		files = append(files, r.file)
		if r.created.IsZero() || r.modified.IsZero() {
			t.Errorf("%s: missing timestamps", r.file)
		}
	}
	sort.Strings(files)
	if strings.Join(files, ",") != "a.md,b.md" {
		t.Errorf("files = %v, want [a.md b.md]", files)
	}
}

func TestListNotesMissingDir(t *testing.T) {
	refs, err := listNotes(context.Background(), filepath.Join(t.TempDir(), "nope"), "")
	if err != nil {
		t.Fatalf("missing notes dir should not be an error: %v", err)
	}
	if len(refs) != 0 {
		t.Fatalf("refs = %v, want none", refs)
	}
}

func TestListNotesExtraGlob(t *testing.T) {
	root := t.TempDir()
	notesDir := filepath.Join(root, "notes")
	writeFile(t, filepath.Join(notesDir, "main.md"), "# Main")
	writeFile(t, filepath.Join(root, "code", "alpha", "notes", "alpha.md"), "# Alpha")
	writeFile(t, filepath.Join(root, "code", "beta", "notes", "beta.md"), "# Beta")
	writeFile(t, filepath.Join(root, "code", "node_modules", "pkg", "notes", "vendored.md"), "# Skipped")

	refs, err := listNotes(context.Background(), notesDir, filepath.Join(root, "code", "**", "notes"))
	if err != nil {
		t.Fatalf("listNotes: %v", err)
	}
	var files []string
	for _, r := range refs {
		files = append(files, r.file)
	}
	sort.Strings(files)
	if strings.Join(files, ",") != "alpha.md,beta.md,main.md" {
		t.Errorf("files = %v, want alpha, beta and main", files)
	}
}

func TestSortRefsNewestFirst(t *testing.T) {
	now := time.Now()
	refs := []noteRef{
		{file: "old.md", created: now.Add(-48 * time.Hour)},
		{file: "new.md", created: now},
		{file: "mid.md", created: now.Add(-time.Hour)},
	}
	sortRefs(refs)
	if refs[0].file != "new.md" || refs[1].file != "mid.md" || refs[2].file != "old.md" {
		t.Errorf("order = %s, %s, %s", refs[0].file, refs[1].file, refs[2].file)
	}
}

func TestLoadNotesKeepsOrderAndSkipsVanished(t *testing.T) {
	dir := t.TempDir()
	var refs []noteRef
	for _, name := range []string{"c", "a", "gone", "b"} {
		if name != "gone" {
			writeFile(t, filepath.Join(dir, name+".md"), "---\nstatus: open\nlabels: x\n---\n# Title "+name+"\n")
		}
		refs = append(refs, noteRef{dir: dir, file: name + ".md"})
	}
	writeFile(t, filepath.Join(dir, "untitled.md"), "no heading here")
	refs = append(refs, noteRef{dir: dir, file: "untitled.md"})

	notes, err := loadNotes(context.Background(), refs)
	if err != nil {
		t.Fatalf("loadNotes: %v", err)
	}
	var titles []string
	for _, n := range notes {
		titles = append(titles, n.title)
	}
	if got := strings.Join(titles, "|"); got != "Title c|Title a|Title b|untitled" {
		t.Errorf("titles = %s", got)
	}
	if notes[0].status != "open" || len(notes[0].labels) != 1 {
		t.Errorf("frontmatter not parsed: %+v", notes[0])
	}
}

func TestLoadNotesCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "# A")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := loadNotes(ctx, []noteRef{{dir: dir, file: "a.md"}}); err == nil {
		t.Fatal("expected an error from a cancelled context")
	}
}

func TestFilterNotes(t *testing.T) {
	notes := []note{
		{noteRef: noteRef{file: "leaky-tap.md"}, title: "Call the plumber"},
		{noteRef: noteRef{file: "lemon.md"}, title: "Lemon drizzle", labels: []string{"recipes"}},
		{noteRef: noteRef{file: "dal.md"}, title: "Weeknight dal", labels: []string{"recipes"}},
	}
	if got := filterNotes(notes, "  "); len(got) != 3 {
		t.Errorf("blank query should keep everything, got %d", len(got))
	}
	got := filterNotes(notes, "lemon")
	if len(got) == 0 || got[0].file != "lemon.md" {
		t.Fatalf("filterNotes(lemon) = %+v", got)
	}
	if got := filterNotes(notes, "recipes"); len(got) != 2 {
		t.Errorf("label search matched %d notes, want 2", len(got))
	}
	if got := filterNotes(notes, "zzzz"); len(got) != 0 {
		t.Errorf("no-match query returned %d notes", len(got))
	}
	if indexOfPath(notes, "dal.md") != 2 || indexOfPath(notes, "missing.md") != -1 {
		t.Error("indexOfPath mismatch")
	}
}
