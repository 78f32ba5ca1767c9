package linemode

import (
	"path/filepath"
	"strings"

	"github.com/treykane/filecols/internal/view"
)

// Nerd Font code points.
const (
	iconDir     = ""
	iconFile    = ""
	iconLink    = ""
	iconDevice  = ""
	iconPipe    = ""
	iconSocket  = ""
	iconExec    = ""
	iconDefault = iconFile
)

var extIcons = map[string]string{
	".go":   "",
	".md":   "",
	".py":   "",
	".js":   "",
	".ts":   "",
	".rs":   "",
	".c":    "",
	".h":    "",
	".sh":   "",
	".json": "",
	".toml": "",
	".yaml": "",
	".yml":  "",
	".html": "",
	".css":  "",
	".png":  "",
	".jpg":  "",
	".gif":  "",
	".svg":  "",
	".mp3":  "",
	".flac": "",
	".mp4":  "",
	".mkv":  "",
	".pdf":  "",
	".zip":  "",
	".gz":   "",
	".tar":  "",
}

var nameIcons = map[string]string{
	".git":       "",
	"Makefile":   "",
	"Dockerfile": "",
	"go.mod":     "",
	"LICENSE":    "",
}

// Icon returns the glyph shown before an entry's name in the devicons mode.
func Icon(e view.Entry) string {
	if icon, ok := nameIcons[e.Name()]; ok {
		return icon
	}
	switch e.Kind() {
	case view.KindDir:
		return iconDir
	case view.KindDevice:
		return iconDevice
	case view.KindFifo:
		return iconPipe
	case view.KindSocket:
		return iconSocket
	}
	if e.IsLink() {
		return iconLink
	}
	if icon, ok := extIcons[strings.ToLower(filepath.Ext(e.Name()))]; ok {
		return icon
	}
	if st, ok := e.Stat(); ok && st.Mode.Perm()&0o111 != 0 {
		return iconExec
	}
	return iconDefault
}
