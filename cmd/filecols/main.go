package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/treykane/filecols/internal/app"
	"github.com/treykane/filecols/internal/config"
	"github.com/treykane/filecols/internal/logging"
)

// tagsFileName is read from the settings directory.
const tagsFileName = "tagged"

type rootOptions struct {
	configPath string
	multipane  bool
	logLevel   string
	logDir     string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "filecols [dir...]",
		Short:         "Browse directories in columns",
		Long:          "filecols shows the current directory between its parent and a preview of the selection. Each directory argument opens a tab.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, args)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "settings file (default: $"+config.PathEnv+" or the user config dir)")
	flags.BoolVar(&opts.multipane, "multipane", false, "start with one column per tab")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&opts.logDir, "log-dir", "", "directory for filecols.log")
	return cmd
}

func run(opts *rootOptions, dirs []string) error {
	path := opts.configPath
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	settings, err := config.Load(path)
	if errors.Is(err, config.ErrNotConfigured) {
		settings = config.Default()
	} else if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	logCfg := logging.Config{
		Dir:        settings.Log.Dir,
		Level:      settings.Log.Level,
		Format:     settings.Log.Format,
		MaxSizeMB:  settings.Log.MaxSizeMB,
		MaxBackups: settings.Log.MaxBackups,
	}
	if opts.logLevel != "" {
		logCfg.Level = opts.logLevel
	}
	if opts.logDir != "" {
		logCfg.Dir = opts.logDir
	}
	if logCfg.Dir == "" {
		// Anything written to stderr would tear the full-screen display.
		logCfg.Dir = filepath.Join(filepath.Dir(path), "log")
	}
	if err := logging.Init(logCfg); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logging.Shutdown()

	var viewMode string
	if opts.multipane {
		viewMode = config.ViewMultipane
	}
	m, err := app.New(app.Options{
		StartDirs:  dirs,
		ConfigPath: path,
		Store:      config.NewStore(settings),
		TagsPath:   filepath.Join(filepath.Dir(path), tagsFileName),
		ViewMode:   viewMode,
	})
	if err != nil {
		return err
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
