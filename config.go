package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"

	"github.com/jakebf/pullpad/pull"
)

// ─── Config ──────────────────────────────────────────────────────────────────

type config struct {
	NotesDir   string     `toml:"notes_dir" mapstructure:"notes_dir"`
	ExtraGlob  string     `toml:"extra_glob,omitempty" mapstructure:"extra_glob"` // more note directories, doublestar syntax
	Editor     []string   `toml:"editor" mapstructure:"editor"`
	EditorMode string     `toml:"editor_mode,omitempty" mapstructure:"editor_mode"` // "background", "foreground", or "" (auto)
	PageSize   int        `toml:"page_size" mapstructure:"page_size"`
	LogLevel   string     `toml:"log_level,omitempty" mapstructure:"log_level"`
	Installed  string     `toml:"installed,omitempty" mapstructure:"installed"` // RFC3339 timestamp of first setup
	Pull       pullConfig `toml:"pull" mapstructure:"pull"`
}

// pullConfig is the [pull] table. Distances are in pull units; row_units
// converts one terminal row into units.
type pullConfig struct {
	PullDownDistance float64 `toml:"pull_down_distance" mapstructure:"pull_down_distance"`
	PullUpDistance   float64 `toml:"pull_up_distance" mapstructure:"pull_up_distance"`
	MinDisplayMs     int     `toml:"min_display_ms" mapstructure:"min_display_ms"`
	ShowTop          bool    `toml:"show_top" mapstructure:"show_top"`
	ShowBottom       bool    `toml:"show_bottom" mapstructure:"show_bottom"`
	RowUnits         float64 `toml:"row_units" mapstructure:"row_units"`
	Resistance       float64 `toml:"resistance" mapstructure:"resistance"`
}

func (p pullConfig) toPull() pull.Config {
	cfg := pull.DefaultConfig()
	cfg.MinPullDownDistance = p.PullDownDistance
	cfg.MinPullUpDistance = p.PullUpDistance
	cfg.MinDisplayTime = time.Duration(p.MinDisplayMs) * time.Millisecond
	cfg.ShowTopIndicator = p.ShowTop
	cfg.ShowBottomIndicator = p.ShowBottom
	cfg.RowUnits = p.RowUnits
	cfg.Resistance = p.Resistance
	return cfg
}

const defaultPageSize = 25

func defaultNotesDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "notes")
}

func newDefaultConfig() config {
	d := pull.DefaultConfig()
	return config{
		NotesDir: defaultNotesDir(),
		Editor:   []string{"vim"},
		PageSize: defaultPageSize,
		LogLevel: "info",
		Pull: pullConfig{
			PullDownDistance: d.MinPullDownDistance,
			PullUpDistance:   d.MinPullUpDistance,
			MinDisplayMs:     int(d.MinDisplayTime / time.Millisecond),
			ShowTop:          d.ShowTopIndicator,
			ShowBottom:       d.ShowBottomIndicator,
			RowUnits:         d.RowUnits,
			Resistance:       d.Resistance,
		},
	}
}

// configPath honors PULLPAD_CONFIG, else <user config dir>/pullpad/config.toml.
func configPath() (string, error) {
	if p := os.Getenv("PULLPAD_CONFIG"); p != "" {
		return p, nil
	}
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(cfgDir, "pullpad", "config.toml"), nil
}

// expandHome expands a leading "~/" to the user's home directory.
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// contractHome replaces the user's home directory prefix with "~/" for display.
func contractHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if rel, ok := strings.CutPrefix(path, home+string(filepath.Separator)); ok {
		return "~/" + rel
	}
	return path
}

var errNoConfig = errors.New("no config file")

// readConfig layers defaults, the TOML file at path and PULLPAD_* env vars.
// It returns errNoConfig (with defaults) when the file does not exist.
func readConfig(path string) (config, error) {
	def := newDefaultConfig()
	v := viper.New()
	v.SetDefault("notes_dir", def.NotesDir)
	v.SetDefault("extra_glob", def.ExtraGlob)
	v.SetDefault("editor", def.Editor)
	v.SetDefault("editor_mode", def.EditorMode)
	v.SetDefault("page_size", def.PageSize)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("installed", "")
	v.SetDefault("pull.pull_down_distance", def.Pull.PullDownDistance)
	v.SetDefault("pull.pull_up_distance", def.Pull.PullUpDistance)
	v.SetDefault("pull.min_display_ms", def.Pull.MinDisplayMs)
	v.SetDefault("pull.show_top", def.Pull.ShowTop)
	v.SetDefault("pull.show_bottom", def.Pull.ShowBottom)
	v.SetDefault("pull.row_units", def.Pull.RowUnits)
	v.SetDefault("pull.resistance", def.Pull.Resistance)

	v.SetConfigType("toml")
	v.SetConfigFile(path)
	v.SetEnvPrefix("PULLPAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var missing bool
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return def, fmt.Errorf("read %s: %w", path, err)
		}
		missing = true
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return def, fmt.Errorf("decode %s: %w", path, err)
	}
	cfg.NotesDir = expandHome(cfg.NotesDir)
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if missing {
		return cfg, errNoConfig
	}
	return cfg, nil
}

// loadConfigRaw reads the config without triggering first-time setup.
func loadConfigRaw() config {
	path, err := configPath()
	if err != nil {
		return newDefaultConfig()
	}
	cfg, _ := readConfig(path)
	return cfg
}

func loadConfig() config {
	path, err := configPath()
	if err != nil {
		return newDefaultConfig()
	}
	cfg, err := readConfig(path)
	switch {
	case errors.Is(err, errNoConfig):
		return setupConfig(path, cfg)
	case err != nil:
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults. Run `pullpad --setup` to fix.\n", err)
		return newDefaultConfig()
	}
	if cfg.Installed == "" {
		cfg.Installed = time.Now().Format(time.RFC3339)
		_ = saveConfig(path, cfg)
	}
	return cfg
}

func saveConfig(path string, cfg config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	// temp file + rename so a crash mid-write never leaves a truncated config
	tmp, err := os.CreateTemp(dir, ".config-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

func setupConfig(path string, cfg config) config {
	cfg.Installed = time.Now().Format(time.RFC3339)
	return runSetup(path, cfg, bufio.NewScanner(os.Stdin))
}

func runSetup(path string, current config, scanner *bufio.Scanner) config {
	promptStyle := lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	dimStyle := lipgloss.NewStyle().Foreground(colorDim)
	if scanner == nil {
		scanner = bufio.NewScanner(os.Stdin)
	}

	fmt.Println(promptStyle.Render("  pullpad setup"))
	fmt.Println(dimStyle.Render("  Press enter to keep the current value."))
	fmt.Println()

	prompt := func(label, defVal string) string {
		fmt.Printf("%s %s: ", promptStyle.Render(label), dimStyle.Render("["+defVal+"]"))
		if scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				return line
			}
		}
		return defVal
	}

	cfg := current

	fmt.Println(dimStyle.Render("  Directory holding your .md notes."))
	cfg.NotesDir = expandHome(prompt("Notes directory     ", contractHome(current.NotesDir)))
	fmt.Println()

	fmt.Println(dimStyle.Render("  More note directories, e.g. ~/code/**/notes. \"none\" clears it."))
	switch glob := prompt("Extra dirs (glob)   ", current.ExtraGlob); {
	case strings.EqualFold(glob, "none"):
		cfg.ExtraGlob = ""
	default:
		cfg.ExtraGlob = glob
	}
	fmt.Println()

	fmt.Println(dimStyle.Render("  Command to open a note (e key). {file} is replaced by the path."))
	cfg.Editor = splitShellWords(prompt("Editor command      ", strings.Join(current.Editor, " ")))
	fmt.Println()

	fmt.Println(dimStyle.Render("  Notes loaded per page; pull up at the bottom for the next page."))
	if n, err := strconv.Atoi(prompt("Page size           ", strconv.Itoa(current.PageSize))); err == nil && n > 0 {
		cfg.PageSize = n
	}
	fmt.Println()

	if err := saveConfig(path, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save config: %v\n", err)
	} else {
		fmt.Printf("%s %s\n\n", dimStyle.Render("Saved to"), path)
	}
	return cfg
}

// splitShellWords splits on unquoted whitespace. Quotes are consumed.
func splitShellWords(s string) []string {
	var words []string
	var cur strings.Builder
	inSingle, inDouble := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'' && !inDouble:
			inSingle = !inSingle
		case c == '"' && !inSingle:
			inDouble = !inDouble
		case c == '\\' && inDouble && i+1 < len(s):
			i++
			cur.WriteByte(s[i])
		case (c == ' ' || c == '\t') && !inSingle && !inDouble:
			if cur.Len() > 0 {
				words = append(words, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteByte(c)
		}
	}
	if cur.Len() > 0 {
		words = append(words, cur.String())
	}
	return words
}

// expandCommand substitutes {file}, or appends the path when the template
// has no placeholder.
func expandCommand(args []string, filePath string) []string {
	hasPlaceholder := false
	out := make([]string, len(args))
	for i, a := range args {
		if strings.Contains(a, "{file}") {
			hasPlaceholder = true
		}
		out[i] = strings.ReplaceAll(a, "{file}", filePath)
	}
	if !hasPlaceholder {
		out = append(out, filePath)
	}
	return out
}

func isTerminalEditor(cmd []string) bool {
	if len(cmd) == 0 {
		return false
	}
	switch filepath.Base(cmd[0]) {
	case "vim", "vi", "nvim", "nano", "emacs", "hx", "micro", "kak":
		return true
	}
	return false
}

// effectiveEditorMode is "foreground" for terminal editors and
// "background" for GUI ones unless the config says otherwise.
func effectiveEditorMode(cfg config) string {
	if cfg.EditorMode == "foreground" || cfg.EditorMode == "background" {
		return cfg.EditorMode
	}
	if isTerminalEditor(cfg.Editor) {
		return "foreground"
	}
	return "background"
}

func commandLabel(cmd []string) string {
	if len(cmd) == 0 {
		return "edit"
	}
	return filepath.Base(cmd[0])
}

func shellQuote(s string) string {
	if runtime.GOOS == "windows" {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return "'" + strings.ReplaceAll(s, "'", "'\"'\"'") + "'"
}

// shellCommand runs args through the user's interactive shell so aliases
// resolve (cmd.exe /C on Windows).
func shellCommand(args ...string) *exec.Cmd {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = shellQuote(a)
	}
	if runtime.GOOS == "windows" {
		return exec.Command("cmd", append([]string{"/C"}, quoted...)...)
	}
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "sh"
	}
	return exec.Command(shell, "-ic", strings.Join(quoted, " "))
}
