package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Terminals answer background color queries with OSC 11 replies such as
// "\x1b]11;rgb:1e1e/1e1e/2e2e\x1b\\". Bubble Tea can deliver them as runes,
// which would otherwise land in the filter prompt or trigger bindings.
//
// isOSCBackgroundResponse reports whether msg is such a reply. A bare
// "rgb:" is not enough: the sequence must also carry an escape or the
// "11;" parameter, and a full triple of hex components.
func isOSCBackgroundResponse(msg tea.KeyMsg) bool {
	if msg.Type != tea.KeyRunes {
		return false
	}
	sequence := msg.String()
	if sequence == "" {
		return false
	}
	sequence = trimOSCSequenceSuffix(sequence)
	if !strings.Contains(sequence, "rgb:") {
		return false
	}
	if !strings.Contains(sequence, "\x1b") &&
		!strings.Contains(sequence, "11;rgb:") &&
		!strings.Contains(sequence, "1;rgb:") {
		return false
	}
	return hasRGBTriple(sequence)
}

// shouldIgnoreInput drops terminal replies and stray control runes.
func (m *Model) shouldIgnoreInput(msg tea.KeyMsg) bool {
	if msg.Type != tea.KeyRunes {
		return false
	}
	if isOSCBackgroundResponse(msg) || containsControlRunes(msg.String()) {
		if m.debugInput {
			m.notify("Ignored input: "+strings.ToValidUTF8(msg.String(), "?"), false)
		}
		appLog.Debug("ignored input", "sequence", msg.String())
		return true
	}
	return false
}

// trimOSCSequenceSuffix strips one string terminator (ST, BEL or a stray
// escape) from the end of sequence.
func trimOSCSequenceSuffix(sequence string) string {
	for _, suffix := range []string{"\x1b\\", "\a", "\\", "\x1b"} {
		if strings.HasSuffix(sequence, suffix) {
			return strings.TrimSuffix(sequence, suffix)
		}
	}
	return sequence
}

// containsControlRunes reports whether sequence holds a C0 control or DEL
// other than newline and tab.
func containsControlRunes(sequence string) bool {
	for _, r := range sequence {
		switch {
		case r == '\n' || r == '\t':
			continue
		case r < 32 || r == 127:
			return true
		}
	}
	return false
}

func isHex(value string) bool {
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// hasRGBTriple reports whether sequence holds "rgb:" followed by three
// slash-separated components of at least four hex digits.
func hasRGBTriple(sequence string) bool {
	index := strings.Index(sequence, "rgb:")
	if index == -1 {
		return false
	}
	tail := sequence[index+len("rgb:"):]
	for i := 0; i < 3; i++ {
		component, rest, ok := readHexComponent(tail)
		if !ok || len(component) < 4 {
			return false
		}
		if i < 2 {
			if rest == "" || rest[0] != '/' {
				return false
			}
			tail = rest[1:]
		}
	}
	return true
}

// readHexComponent splits the leading run of hex digits off sequence.
func readHexComponent(sequence string) (string, string, bool) {
	end := 0
	for end < len(sequence) && isHex(sequence[end:end+1]) {
		end++
	}
	if end == 0 {
		return "", "", false
	}
	return sequence[:end], sequence[end:], true
}
