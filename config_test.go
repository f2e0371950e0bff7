package main

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
)

func TestExpandCommand(t *testing.T) {
	// With {file} placeholder: expands in place, no extra arg
	args := []string{"code", "--goto", "{file}", "--reuse-window"}
	got := expandCommand(args, "/tmp/note.md")
	want := []string{"code", "--goto", "/tmp/note.md", "--reuse-window"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("expandCommand = %v, want %v", got, want)
	}

	// Without placeholder: path appended
	got = expandCommand([]string{"nvim"}, "/tmp/note.md")
	if len(got) != 2 || got[1] != "/tmp/note.md" {
		t.Errorf("expandCommand without placeholder = %v, want [nvim /tmp/note.md]", got)
	}

	// The template itself is never modified
	if args[2] != "{file}" {
		t.Errorf("template modified: %v", args)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	tests := []struct {
		in, want string
	}{
		{"~/foo", filepath.Join(home, "foo")},
		{"~/notes/work", filepath.Join(home, "notes/work")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
		{"~", "~"}, // no slash after ~, not expanded
	}
	for _, tt := range tests {
		if got := expandHome(tt.in); got != tt.want {
			t.Errorf("expandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := contractHome(filepath.Join(home, "notes")); got != "~/notes" {
		t.Errorf("contractHome = %q, want ~/notes", got)
	}
}

func TestSplitShellWords(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"vim", []string{"vim"}},
		{"code --wait", []string{"code", "--wait"}},
		{`bash -c "echo hello"`, []string{"bash", "-c", "echo hello"}},
		{`nvim '+set ft=markdown'`, []string{"nvim", "+set ft=markdown"}},
		{`cmd "arg with spaces" plain`, []string{"cmd", "arg with spaces", "plain"}},
		{`  spaced  `, []string{"spaced"}},
		{"", nil},
		{`a "b \"c\" d" e`, []string{"a", `b "c" d`, "e"}}, // escaped quotes inside double quotes
	}
	for _, tt := range tests {
		got := splitShellWords(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("splitShellWords(%q) = %v (len %d), want %v (len %d)", tt.in, got, len(got), tt.want, len(tt.want))
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("splitShellWords(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestEffectiveEditorMode(t *testing.T) {
	tests := []struct {
		editor []string
		mode   string
		want   string
	}{
		{[]string{"vim"}, "", "foreground"},
		{[]string{"/usr/local/bin/nvim"}, "", "foreground"},
		{[]string{"code", "--wait"}, "", "background"},
		{[]string{"code"}, "foreground", "foreground"},
		{[]string{"vim"}, "background", "background"},
		{nil, "", "background"},
	}
	for _, tt := range tests {
		got := effectiveEditorMode(config{Editor: tt.editor, EditorMode: tt.mode})
		if got != tt.want {
			t.Errorf("effectiveEditorMode(%v, %q) = %q, want %q", tt.editor, tt.mode, got, tt.want)
		}
	}
}

func TestLoadConfigSetsInstalledAndExpandsHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path, err := configPath()
	if err != nil {
		t.Fatalf("configPath: %v", err)
	}
	cfg := newDefaultConfig()
	cfg.NotesDir = "~/notes"
	if err := saveConfig(path, cfg); err != nil {
		t.Fatalf("saveConfig: %v", err)
	}

	loaded := loadConfig()
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("UserHomeDir: %v", err)
	}
	if loaded.NotesDir != filepath.Join(home, "notes") {
		t.Fatalf("NotesDir = %q, want expanded home path", loaded.NotesDir)
	}
	if loaded.Installed == "" {
		t.Fatal("Installed should be set when missing")
	}

	// Installed timestamp should be persisted to disk for future loads.
	var persisted config
	if _, err := toml.DecodeFile(path, &persisted); err != nil {
		t.Fatalf("decode persisted config: %v", err)
	}
	if persisted.Installed == "" {
		t.Fatal("persisted Installed should not be empty")
	}
	if _, err := time.Parse(time.RFC3339, persisted.Installed); err != nil {
		t.Fatalf("Installed = %q is not RFC3339: %v", persisted.Installed, err)
	}
}

func TestReadConfigPullSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `notes_dir = "/srv/notes"
page_size = 10

[pull]
pull_down_distance = 80.0
min_display_ms = 500
show_bottom = false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := readConfig(path)
	if err != nil {
		t.Fatalf("readConfig: %v", err)
	}
	if cfg.NotesDir != "/srv/notes" || cfg.PageSize != 10 {
		t.Fatalf("top level = %q/%d, want /srv/notes/10", cfg.NotesDir, cfg.PageSize)
	}

	pc := cfg.Pull.toPull()
	if pc.MinPullDownDistance != 80 {
		t.Errorf("MinPullDownDistance = %v, want 80", pc.MinPullDownDistance)
	}
	if pc.MinDisplayTime != 500*time.Millisecond {
		t.Errorf("MinDisplayTime = %v, want 500ms", pc.MinDisplayTime)
	}
	if pc.ShowBottomIndicator {
		t.Error("ShowBottomIndicator = true, want false from file")
	}
	// Keys left out of the file keep their defaults.
	def := newDefaultConfig().Pull
	if pc.MinPullUpDistance != def.PullUpDistance || !pc.ShowTopIndicator || pc.RowUnits != def.RowUnits {
		t.Errorf("unset keys lost their defaults: %+v", pc)
	}
	if err := pc.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestReadConfigEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("page_size = 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PULLPAD_PAGE_SIZE", "7")
	t.Setenv("PULLPAD_PULL_RESISTANCE", "0.25")

	cfg, err := readConfig(path)
	if err != nil {
		t.Fatalf("readConfig: %v", err)
	}
	if cfg.PageSize != 7 {
		t.Errorf("PageSize = %d, want 7 from env", cfg.PageSize)
	}
	if cfg.Pull.Resistance != 0.25 {
		t.Errorf("Resistance = %v, want 0.25 from env", cfg.Pull.Resistance)
	}
}

func TestReadConfigMissingFile(t *testing.T) {
	cfg, err := readConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errNoConfig) {
		t.Fatalf("err = %v, want errNoConfig", err)
	}
	if cfg.PageSize != defaultPageSize || cfg.NotesDir != newDefaultConfig().NotesDir {
		t.Fatalf("missing file should yield defaults, got %+v", cfg)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := newDefaultConfig()
	cfg.NotesDir = "/srv/notes"
	cfg.ExtraGlob = "/srv/projects/**/notes"
	cfg.Editor = []string{"code", "--wait", "{file}"}
	cfg.Pull.ShowTop = false
	cfg.Pull.PullUpDistance = 30

	if err := saveConfig(path, cfg); err != nil {
		t.Fatalf("saveConfig: %v", err)
	}
	got, err := readConfig(path)
	if err != nil {
		t.Fatalf("readConfig: %v", err)
	}
	if got.ExtraGlob != cfg.ExtraGlob || strings.Join(got.Editor, " ") != "code --wait {file}" {
		t.Errorf("round trip = %+v", got)
	}
	if got.Pull != cfg.Pull {
		t.Errorf("pull section = %+v, want %+v", got.Pull, cfg.Pull)
	}

	// No temp files left next to the config.
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("config dir has %d entries, want 1", len(entries))
	}
}

func TestLoadConfigRawDoesNotTriggerSetup(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := loadConfigRaw()
	if cfg.Installed != "" {
		t.Fatalf("loadConfigRaw should not set Installed, got %q", cfg.Installed)
	}
	if cfg.NotesDir != newDefaultConfig().NotesDir {
		t.Fatalf("NotesDir = %q, want default %q", cfg.NotesDir, newDefaultConfig().NotesDir)
	}

	path, _ := configPath()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("loadConfigRaw should not create config file, but %s exists", path)
	}
}

func TestLoadConfigInvalidTOMLFallsBackToDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path, err := configPath()
	if err != nil {
		t.Fatalf("configPath: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte("notes_dir = [unterminated"), 0o644); err != nil {
		t.Fatalf("write invalid config: %v", err)
	}

	loaded := loadConfig()
	def := newDefaultConfig()
	if loaded.NotesDir != def.NotesDir {
		t.Fatalf("NotesDir = %q, want default %q", loaded.NotesDir, def.NotesDir)
	}
	if strings.Join(loaded.Editor, " ") != strings.Join(def.Editor, " ") {
		t.Fatalf("Editor = %v, want %v", loaded.Editor, def.Editor)
	}
}

func TestRunSetupReadsAnswers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	answers := strings.Join([]string{
		"/srv/notes",
		"none",
		"code --wait",
		"12",
	}, "\n") + "\n"
	scanner := bufio.NewScanner(strings.NewReader(answers))

	cur := newDefaultConfig()
	cur.ExtraGlob = "/old/**"
	cfg := runSetup(path, cur, scanner)
	if cfg.NotesDir != "/srv/notes" || cfg.ExtraGlob != "" || cfg.PageSize != 12 {
		t.Fatalf("setup result = %+v", cfg)
	}
	if strings.Join(cfg.Editor, " ") != "code --wait" {
		t.Fatalf("Editor = %v", cfg.Editor)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("setup should save the config: %v", err)
	}
}
