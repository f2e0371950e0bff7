package main

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var version = ""

func getVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

type options struct {
	dir      string
	demo     bool
	setup    bool
	logLevel string
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:           "pullpad",
		Short:         "A terminal notes browser you pull to refresh",
		Long:          "pullpad lists the markdown notes in a directory, newest first.\nDrag or scroll the list past its top to rescan, past its bottom to load the next page.",
		Version:       getVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.dir, "dir", "", "notes directory (overrides notes_dir)")
	f.BoolVar(&opts.demo, "demo", false, "launch with demo data")
	f.BoolVar(&opts.setup, "setup", false, "re-run first-time configuration")
	f.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (overrides log_level)")
	return cmd
}

func run(opts options) error {
	if opts.setup {
		path, err := configPath()
		if err != nil {
			return err
		}
		runSetup(path, loadConfigRaw(), nil) // loadConfigRaw avoids triggering first-time setup
		return nil
	}

	cfg := loadConfig()
	if opts.dir != "" {
		cfg.NotesDir = expandHome(opts.dir)
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if cfg.NotesDir == "" {
		return fmt.Errorf("could not determine notes directory (is $HOME set?)")
	}
	if err := os.MkdirAll(cfg.NotesDir, 0o755); err != nil {
		return fmt.Errorf("create notes directory: %w", err)
	}

	logger, closer, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
	defer closer.Close()
	logger.Info("starting", "version", getVersion(), "dir", cfg.NotesDir, "demo", opts.demo)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not start file watcher: %v\n", err)
		watcher = nil
	} else {
		defer watcher.Close()
	}

	m, err := newModel(cfg, watcher, logger)
	if err != nil {
		return err
	}
	if opts.demo {
		m.enterDemoMode()
	} else {
		m.useStore(m.store)
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
