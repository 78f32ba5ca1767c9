package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	configDirName  = "filecols"
	configFileName = "settings.toml"

	// PathEnv overrides the settings file location.
	PathEnv = "FILECOLS_CONFIG"
)

var ErrNotConfigured = errors.New("filecols settings file does not exist")

// Line numbering modes.
const (
	NumberingOff      = "false"
	NumberingAbsolute = "absolute"
	NumberingRelative = "relative"
)

// View modes.
const (
	ViewMiller    = "miller"
	ViewMultipane = "multipane"
)

// Settings stores every user-tunable option read by the renderer.
type Settings struct {
	LineNumbers         string `toml:"line_numbers"`
	OneIndexed          bool   `toml:"one_indexed"`
	RelativeCurrentZero bool   `toml:"relative_current_zero"`
	ScrollOffset        int    `toml:"scroll_offset"`

	PreviewDirectories bool `toml:"preview_directories"`
	PreviewFiles       bool `toml:"preview_files"`

	DisplaySizeInMainColumn     bool `toml:"display_size_in_main_column"`
	DisplaySizeInStatusBar      bool `toml:"display_size_in_status_bar"`
	DisplayFileSpaceInStatusBar bool `toml:"display_file_space_in_status_bar"`
	DisplayFreeSpaceInStatusBar bool `toml:"display_free_space_in_status_bar"`
	DisplayTimeInStatusBar      bool `toml:"display_time_in_status_bar"`
	DisplayTags                 bool `toml:"display_tags"`
	DisplayTagsInAllColumns     bool `toml:"display_tags_in_all_columns"`
	DisplayRating               bool `toml:"display_rating"`

	UnicodeEllipsis bool   `toml:"unicode_ellipsis"`
	DrawBorders     string `toml:"draw_borders"`
	ShowHidden      bool   `toml:"show_hidden"`
	FreezeFiles     bool   `toml:"freeze_files"`
	TimeFormat      string `toml:"time_format"` // strftime syntax
	SizeInBytes     bool   `toml:"size_in_bytes"`
	SizeZeroPrefix  bool   `toml:"size_zero_prefix"`

	ColumnRatios []int  `toml:"column_ratios"`
	ViewMode     string `toml:"viewmode"`
	Colorscheme  string `toml:"colorscheme"`

	// Keybindings maps action name to key, replacing the defaults for that action.
	Keybindings map[string]string `toml:"keybindings"`

	// Ratings maps absolute paths to a star count shown next to sizes.
	Ratings map[string]int `toml:"ratings"`

	Log LogSettings `toml:"log"`
}

// LogSettings mirrors logging.Config in the settings file.
type LogSettings struct {
	Dir        string `toml:"dir"`
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// Default returns the settings used when no file exists.
func Default() Settings {
	return Settings{
		LineNumbers:                 NumberingOff,
		OneIndexed:                  false,
		RelativeCurrentZero:         false,
		ScrollOffset:                8,
		PreviewDirectories:          true,
		PreviewFiles:                true,
		DisplaySizeInMainColumn:     true,
		DisplaySizeInStatusBar:      true,
		DisplayFileSpaceInStatusBar: false,
		DisplayFreeSpaceInStatusBar: true,
		DisplayTimeInStatusBar:      false,
		DisplayTags:                 false,
		DisplayRating:               true,
		UnicodeEllipsis:             true,
		DrawBorders:                 "separators",
		TimeFormat:                  "%Y-%m-%d %H:%M",
		ColumnRatios:                []int{1, 3, 4},
		ViewMode:                    ViewMiller,
		Colorscheme:                 "default",
	}
}

// ConfigPath returns the settings file path, honoring FILECOLS_CONFIG.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(PathEnv)); p != "" {
		return expandHome(p)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configDirName, configFileName), nil
}

// Exists reports whether the settings file exists.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Load reads and validates the settings at path. Keys absent from the file
// keep their Default values. A missing file returns Default and ErrNotConfigured.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, ErrNotConfigured
		}
		return s, err
	}
	if _, err := toml.Decode(string(data), &s); err != nil {
		return Default(), fmt.Errorf("parse settings: %w", err)
	}
	if err := s.Normalize(); err != nil {
		return Default(), fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// Save writes settings to disk.
func Save(path string, s Settings) error {
	if err := s.Normalize(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o600)
}

// Normalize lower-cases enumerations and rejects values the renderer cannot use.
func (s *Settings) Normalize() error {
	s.LineNumbers = strings.ToLower(strings.TrimSpace(s.LineNumbers))
	switch s.LineNumbers {
	case "", NumberingOff:
		s.LineNumbers = NumberingOff
	case NumberingAbsolute, NumberingRelative:
	default:
		return fmt.Errorf("line_numbers must be false, absolute or relative, got %q", s.LineNumbers)
	}
	if s.ScrollOffset < 0 {
		return fmt.Errorf("scroll_offset must not be negative, got %d", s.ScrollOffset)
	}
	s.ViewMode = strings.ToLower(strings.TrimSpace(s.ViewMode))
	switch s.ViewMode {
	case "":
		s.ViewMode = ViewMiller
	case ViewMiller, ViewMultipane:
	default:
		return fmt.Errorf("viewmode must be miller or multipane, got %q", s.ViewMode)
	}
	s.DrawBorders = strings.ToLower(strings.TrimSpace(s.DrawBorders))
	if strings.TrimSpace(s.TimeFormat) == "" {
		s.TimeFormat = "%Y-%m-%d %H:%M"
	}
	ratios := s.ColumnRatios[:0:0]
	for _, r := range s.ColumnRatios {
		if r > 0 {
			ratios = append(ratios, r)
		}
	}
	if len(ratios) == 0 {
		ratios = []int{1, 3, 4}
	}
	s.ColumnRatios = ratios
	if s.Log.Dir != "" {
		dir, err := expandHome(s.Log.Dir)
		if err != nil {
			return err
		}
		s.Log.Dir = dir
	}
	return nil
}

// NormalizeStartDir expands and normalizes a directory given on the command line.
func NormalizeStartDir(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is required")
	}

	expanded, err := expandHome(trimmed)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", err
	}

	return filepath.Clean(abs), nil
}

func expandHome(path string) (string, error) {
	if path == "~" {
		return os.UserHomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
	}
	return path, nil
}
