package app

import (
	"strings"
	"testing"

	"github.com/treykane/filecols/internal/config"
)

func TestActionForKeySupportsDefaultAliases(t *testing.T) {
	m := &Model{}
	m.loadKeybindings(config.Settings{})

	cases := map[string]string{
		"up":        actionCursorUp,
		"k":         actionCursorUp,
		"down":      actionCursorDown,
		"enter":     actionEnter,
		"right":     actionEnter,
		"l":         actionEnter,
		"left":      actionParent,
		"h":         actionParent,
		"g":         actionJumpTop,
		"G":         actionJumpBottom,
		"H":         actionWindowTop,
		" ":         actionMarkToggle,
		"backspace": actionHiddenToggle,
		"shift+r":   actionRefresh,
		"ctrl+c":    actionQuit,
		"#":         actionNumbersCycle,
	}
	for key, want := range cases {
		if got := m.actionForKey(key); got != want {
			t.Fatalf("actionForKey(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestLoadKeybindingsOverrideReplacesDefaultAliases(t *testing.T) {
	m := &Model{}
	m.loadKeybindings(config.Settings{
		Keybindings: map[string]string{
			actionCursorDown: "alt+j",
			"no.such.action": "x",
		},
	})

	if got := m.actionForKey("alt+j"); got != actionCursorDown {
		t.Fatalf("expected override key to map to cursor down, got %q", got)
	}
	if got := m.actionForKey("down"); got != "" {
		t.Fatalf("expected default alias 'down' to be replaced, got %q", got)
	}
	if got := m.actionForKey("j"); got != "" {
		t.Fatalf("expected default alias 'j' to be replaced, got %q", got)
	}
	if got := m.actionForKey("x"); got != actionCopyCut {
		t.Fatalf("unknown action must not steal 'x', got %q", got)
	}
}

func TestKeybindingConflictKeepsFirstAction(t *testing.T) {
	m := &Model{}
	m.loadKeybindings(config.Settings{
		Keybindings: map[string]string{actionCopyClear: "y"},
	})
	// "copy.clear" sorts before "copy.yank".
	if got := m.actionForKey("y"); got != actionCopyClear {
		t.Fatalf("actionForKey(y) = %q, want %q", got, actionCopyClear)
	}
}

func TestNormalizeKeyString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ctrl+P", "ctrl+p"},
		{" Y ", "shift+y"},
		{" ", " "},
		{"", ""},
		{"#", "#"},
		{"PgDown", "pgdown"},
	}
	for _, tt := range tests {
		if got := normalizeKeyString(tt.in); got != tt.want {
			t.Fatalf("normalizeKeyString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHumanizeKeyLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ctrl+t", "Ctrl+T"},
		{"shift+g", "Shift+G"},
		{"pgdown", "PgDn"},
		{" ", "Space"},
		{"shift+tab", "Shift+Tab"},
		{"#", "#"},
	}
	for _, tt := range tests {
		if got := humanizeKeyLabel(tt.in); got != tt.want {
			t.Fatalf("humanizeKeyLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHelpLinesCoverEveryAction(t *testing.T) {
	m := &Model{}
	m.loadKeybindings(config.Settings{})
	lines := m.helpLines()
	if len(lines) != len(defaultActionKeys) {
		t.Fatalf("help has %d lines, want %d", len(lines), len(defaultActionKeys))
	}
	for action := range defaultActionKeys {
		if actionDescriptions[action] == "" {
			t.Fatalf("action %q has no description", action)
		}
	}
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "Space") || !strings.Contains(joined, "toggle mark") {
		t.Fatalf("help lines missing mark binding:\n%s", joined)
	}
}
