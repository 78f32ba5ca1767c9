package app

import (
	"slices"
	"sort"
	"strings"

	"github.com/treykane/filecols/internal/config"
)

// ---------------------------------------------------------------------------
// Action constants
// ---------------------------------------------------------------------------
//
// Actions are the layer between physical key presses and behavior: a key is
// looked up in keyToAction and the resulting action is dispatched in
// handleBrowseKey. Defaults live in defaultActionKeys; the "keybindings"
// table of settings.toml replaces the keys of any action.
// ---------------------------------------------------------------------------

const (
	actionCursorUp       = "cursor.up"
	actionCursorDown     = "cursor.down"
	actionPageUp         = "cursor.page_up"
	actionPageDown       = "cursor.page_down"
	actionHalfPageUp     = "cursor.half_up"
	actionHalfPageDown   = "cursor.half_down"
	actionJumpTop        = "cursor.top"
	actionJumpBottom     = "cursor.bottom"
	actionWindowTop      = "window.move_top"
	actionWindowMid      = "window.move_mid"
	actionWindowBottom   = "window.move_bottom"
	actionScrollDown     = "window.scroll_down"
	actionScrollUp       = "window.scroll_up"
	actionScrollMid      = "window.scroll_mid"
	actionParent         = "dir.parent"
	actionEnter          = "dir.enter"
	actionParentUp       = "dir.parent_up"
	actionParentDown     = "dir.parent_down"
	actionPreviewDown    = "preview.scroll_down"
	actionPreviewUp      = "preview.scroll_up"
	actionMarkToggle     = "mark.toggle"
	actionMarkClear      = "mark.clear"
	actionCopyYank       = "copy.yank"
	actionCopyCut        = "copy.cut"
	actionCopyClear      = "copy.clear"
	actionCopyPath       = "path.copy"
	actionFilter         = "filter.open"
	actionTabNew         = "tab.new"
	actionTabClose       = "tab.close"
	actionTabNext        = "tab.next"
	actionTabPrev        = "tab.prev"
	actionHiddenToggle   = "hidden.toggle"
	actionLinemodeCycle  = "linemode.cycle"
	actionNumbersCycle   = "line_numbers.cycle"
	actionViewmodeToggle = "viewmode.toggle"
	actionSchemeCycle    = "colorscheme.cycle"
	actionSettingsSave   = "settings.save"
	actionInfo           = "info.toggle"
	actionHelp           = "help.toggle"
	actionRefresh        = "refresh"
	actionQuit           = "app.quit"
)

// defaultActionKeys maps each action to its factory-default keys, in the
// Bubble Tea key notation ("ctrl+", "alt+", "shift+", "pgdown", ...). The
// defaults follow ranger where a single key can express the binding.
var defaultActionKeys = map[string][]string{
	actionCursorUp:       {"up", "k"},
	actionCursorDown:     {"down", "j"},
	actionPageUp:         {"pgup", "ctrl+b"},
	actionPageDown:       {"pgdown", "ctrl+f"},
	actionHalfPageUp:     {"ctrl+u"},
	actionHalfPageDown:   {"ctrl+d"},
	actionJumpTop:        {"g", "home"},
	actionJumpBottom:     {"shift+g", "end"},
	actionWindowTop:      {"shift+h"},
	actionWindowMid:      {"shift+m"},
	actionWindowBottom:   {"shift+l"},
	actionScrollDown:     {"ctrl+e"},
	actionScrollUp:       {"ctrl+y"},
	actionScrollMid:      {"z"},
	actionParent:         {"left", "h"},
	actionEnter:          {"right", "l", "enter"},
	actionParentUp:       {"["},
	actionParentDown:     {"]"},
	actionPreviewDown:    {"shift+j"},
	actionPreviewUp:      {"shift+k"},
	actionMarkToggle:     {" ", "space"},
	actionMarkClear:      {"u"},
	actionCopyYank:       {"y"},
	actionCopyCut:        {"x"},
	actionCopyClear:      {"shift+c"},
	actionCopyPath:       {"shift+y"},
	actionFilter:         {"/"},
	actionTabNew:         {"ctrl+t"},
	actionTabClose:       {"ctrl+w"},
	actionTabNext:        {"tab"},
	actionTabPrev:        {"shift+tab"},
	actionHiddenToggle:   {"ctrl+h", "backspace"},
	actionLinemodeCycle:  {"m"},
	actionNumbersCycle:   {"#"},
	actionViewmodeToggle: {"~"},
	actionSchemeCycle:    {"c"},
	actionSettingsSave:   {"ctrl+s"},
	actionInfo:           {"i"},
	actionHelp:           {"?"},
	actionRefresh:        {"ctrl+r", "shift+r"},
	actionQuit:           {"q", "ctrl+c"},
}

// actionDescriptions labels actions in the help overlay.
var actionDescriptions = map[string]string{
	actionCursorUp:       "move up",
	actionCursorDown:     "move down",
	actionPageUp:         "page up",
	actionPageDown:       "page down",
	actionHalfPageUp:     "half page up",
	actionHalfPageDown:   "half page down",
	actionJumpTop:        "first entry",
	actionJumpBottom:     "last entry",
	actionWindowTop:      "top of window",
	actionWindowMid:      "middle of window",
	actionWindowBottom:   "bottom of window",
	actionScrollDown:     "scroll window down",
	actionScrollUp:       "scroll window up",
	actionScrollMid:      "center selection",
	actionParent:         "parent directory",
	actionEnter:          "enter directory",
	actionParentUp:       "previous sibling directory",
	actionParentDown:     "next sibling directory",
	actionPreviewDown:    "scroll preview down",
	actionPreviewUp:      "scroll preview up",
	actionMarkToggle:     "toggle mark",
	actionMarkClear:      "clear marks",
	actionCopyYank:       "yank marked or selected",
	actionCopyCut:        "cut marked or selected",
	actionCopyClear:      "clear copy buffer",
	actionCopyPath:       "copy path to clipboard",
	actionFilter:         "filter listing",
	actionTabNew:         "new tab",
	actionTabClose:       "close tab",
	actionTabNext:        "next tab",
	actionTabPrev:        "previous tab",
	actionHiddenToggle:   "toggle hidden files",
	actionLinemodeCycle:  "cycle linemode",
	actionNumbersCycle:   "cycle line numbers",
	actionViewmodeToggle: "toggle miller/multipane",
	actionSchemeCycle:    "cycle colorscheme",
	actionSettingsSave:   "save settings",
	actionInfo:           "show log",
	actionHelp:           "show keys",
	actionRefresh:        "reload directories",
	actionQuit:           "quit",
}

// loadKeybindings builds the key maps from the defaults and the settings'
// keybindings table. An override replaces every default key of its action.
func (m *Model) loadKeybindings(s config.Settings) {
	m.keyForAction = map[string][]string{}
	for action, keys := range defaultActionKeys {
		m.keyForAction[action] = append([]string(nil), keys...)
	}
	for action, key := range s.Keybindings {
		m.applyKeybindingOverride(action, key)
	}
	m.rebuildActionKeyIndex()
}

// applyKeybindingOverride rebinds one action. Unknown actions are logged and
// ignored so a typo in the settings file cannot silently unbind anything.
func (m *Model) applyKeybindingOverride(action, key string) {
	action = strings.TrimSpace(action)
	key = normalizeKeyString(key)
	if action == "" || key == "" {
		return
	}
	if _, ok := defaultActionKeys[action]; !ok {
		appLog.Warn("ignore unknown keybinding action", "action", action)
		return
	}
	m.keyForAction[action] = []string{key}
}

// rebuildActionKeyIndex builds keyToAction. When two actions claim one key
// the first in action-name order keeps it and the conflict is logged.
func (m *Model) rebuildActionKeyIndex() {
	m.keyToAction = map[string]string{}
	actions := make([]string, 0, len(m.keyForAction))
	for action := range m.keyForAction {
		actions = append(actions, action)
	}
	sort.Strings(actions)
	for _, action := range actions {
		for _, key := range m.keyForAction[action] {
			if key == "" {
				continue
			}
			if existing, ok := m.keyToAction[key]; ok && existing != action {
				appLog.Warn("keybinding conflict ignored", "key", key, "action", action, "existing_action", existing)
				continue
			}
			m.keyToAction[key] = action
		}
	}
}

// normalizeKeyString lowercases a key and turns a single uppercase letter
// into its "shift+" form, since Bubble Tea reports shifted letters as
// uppercase runes:
//
//	normalizeKeyString("Ctrl+P")  → "ctrl+p"
//	normalizeKeyString(" Y ")     → "shift+y"
//	normalizeKeyString(" ")       → " "
func normalizeKeyString(key string) string {
	if key == " " {
		return key
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if len([]rune(key)) == 1 && strings.ToUpper(key) == key && strings.ToLower(key) != key {
		return "shift+" + strings.ToLower(key)
	}
	return strings.ToLower(key)
}

// actionForKey returns the action bound to key, or "".
func (m *Model) actionForKey(key string) string {
	if m.keyToAction == nil {
		return ""
	}
	return m.keyToAction[normalizeKeyString(key)]
}

// actionKeyLabels returns the display labels of every key bound to action,
// without duplicates.
func (m *Model) actionKeyLabels(action string) []string {
	keys, ok := m.keyForAction[action]
	if !ok || len(keys) == 0 {
		return nil
	}
	labels := make([]string, 0, len(keys))
	for _, key := range keys {
		label := humanizeKeyLabel(key)
		if label == "" || slices.Contains(labels, label) {
			continue
		}
		labels = append(labels, label)
	}
	return labels
}

// helpLines lists every action with its keys, sorted by action name.
func (m *Model) helpLines() []string {
	actions := make([]string, 0, len(m.keyForAction))
	width := 0
	for action := range m.keyForAction {
		actions = append(actions, action)
		width = max(width, len(strings.Join(m.actionKeyLabels(action), ", ")))
	}
	sort.Strings(actions)
	lines := make([]string, 0, len(actions))
	for _, action := range actions {
		keys := strings.Join(m.actionKeyLabels(action), ", ")
		lines = append(lines, keys+strings.Repeat(" ", width-len(keys))+"  "+actionDescriptions[action])
	}
	return lines
}

// humanizeKeyLabel turns a normalized key name into the label shown in the
// help overlay, e.g. "ctrl+t" becomes "Ctrl+T".
func humanizeKeyLabel(key string) string {
	normalized := normalizeKeyString(key)
	if normalized == "" {
		return ""
	}
	special := map[string]string{
		" ":         "Space",
		"up":        "↑",
		"down":      "↓",
		"left":      "←",
		"right":     "→",
		"enter":     "Enter",
		"esc":       "Esc",
		"tab":       "Tab",
		"home":      "Home",
		"end":       "End",
		"pgup":      "PgUp",
		"pgdown":    "PgDn",
		"space":     "Space",
		"backspace": "Backspace",
	}
	if label, ok := special[normalized]; ok {
		return label
	}
	parts := strings.Split(normalized, "+")
	for i, part := range parts {
		switch part {
		case "ctrl":
			parts[i] = "Ctrl"
		case "alt":
			parts[i] = "Alt"
		case "shift":
			parts[i] = "Shift"
		default:
			if label, ok := special[part]; ok {
				parts[i] = label
				continue
			}
			runes := []rune(part)
			if len(runes) == 1 && runes[0] >= 'a' && runes[0] <= 'z' {
				parts[i] = strings.ToUpper(part)
			} else if part != "" {
				parts[i] = strings.ToUpper(part[:1]) + part[1:]
			}
		}
	}
	return strings.Join(parts, "+")
}
