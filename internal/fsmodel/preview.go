package fsmodel

import (
	"bytes"
	"container/list"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"

	"github.com/treykane/filecols/internal/view"
)

const (
	// GlamourStyleEnv picks the markdown style: dark, light, notty or auto.
	GlamourStyleEnv = "FILECOLS_GLAMOUR_STYLE"
	// ChromaStyleEnv picks the syntax highlighting style by chroma name.
	ChromaStyleEnv = "FILECOLS_CHROMA_STYLE"

	// DefaultPreviewBytes caps how much of a file is read for its preview.
	DefaultPreviewBytes = 256 * 1024

	binarySniffBytes = 8000
	tabWidth         = 8
)

var (
	maxRenderers = 8

	renderersMu    sync.Mutex
	renderers      = map[int]*glamour.TermRenderer{}
	renderersOrder = list.New()
	renderersNodes = map[int]*list.Element{}
)

// isMarkdown reports whether the file is rendered through glamour instead
// of the syntax highlighter.
func isMarkdown(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown", ".mdown", ".mkd":
		return true
	}
	return false
}

// widthSensitive reports whether the preview of name depends on the column
// width. Only wrapped markdown does.
func widthSensitive(name string) bool { return isMarkdown(name) }

// RenderPreview reads up to limit bytes of path and turns them into preview
// lines. ok is false for content that has no text preview, such as binary
// files. Images produce a Preview with Image set and no lines.
func RenderPreview(path string, width int, limit int64) (p view.Preview, ok bool, err error) {
	if IsImage(path) {
		return view.Preview{Image: true}, true, nil
	}
	if limit <= 0 {
		limit = DefaultPreviewBytes
	}
	f, err := os.Open(path)
	if err != nil {
		return view.Preview{}, false, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, limit))
	if err != nil {
		return view.Preview{}, false, err
	}
	if isBinary(data) {
		return view.Preview{}, false, nil
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")

	var lines []string
	switch {
	case isMarkdown(path):
		lines = splitLines(renderMarkdown(text, width))
	default:
		lines = highlight(expandTabs(text), filepath.Base(path))
	}
	return view.Preview{Lines: lines}, true, nil
}

func isBinary(data []byte) bool {
	return bytes.IndexByte(data[:min(len(data), binarySniffBytes)], 0) >= 0
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var sb strings.Builder
	col := 0
	for _, r := range s {
		switch r {
		case '\t':
			n := tabWidth - col%tabWidth
			sb.WriteString(strings.Repeat(" ", n))
			col += n
		case '\n':
			sb.WriteRune(r)
			col = 0
		default:
			sb.WriteRune(r)
			col++
		}
	}
	return sb.String()
}

// highlight colors each line on its own so a line never inherits an open
// escape sequence from the previous one. Files without a lexer stay plain.
func highlight(content, name string) []string {
	raw := splitLines(content)
	lexer := lexers.Match(name)
	if lexer == nil {
		return raw
	}
	lexer = chroma.Coalesce(lexer)
	style := styles.Get(chromaStyleName())
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	out := make([]string, len(raw))
	for i, line := range raw {
		if strings.TrimSpace(line) == "" {
			out[i] = line
			continue
		}
		it, err := lexer.Tokenise(nil, line)
		if err != nil {
			out[i] = line
			continue
		}
		var buf bytes.Buffer
		if err := formatter.Format(&buf, style, it); err != nil {
			out[i] = line
			continue
		}
		out[i] = strings.ReplaceAll(buf.String(), "\n", "")
	}
	return out
}

func chromaStyleName() string {
	if s := strings.TrimSpace(os.Getenv(ChromaStyleEnv)); s != "" {
		return s
	}
	return "monokai"
}

// renderMarkdown wraps content at width through a cached glamour renderer.
// On failure the raw text is returned.
func renderMarkdown(content string, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := getRenderer(width)
	if err != nil {
		log.Error("create markdown renderer", "width", width, "error", err)
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		log.Error("render markdown", "width", width, "error", err)
		return content
	}
	return out
}

func getRenderer(width int) (*glamour.TermRenderer, error) {
	renderersMu.Lock()
	defer renderersMu.Unlock()
	if r, ok := renderers[width]; ok {
		if node, ok := renderersNodes[width]; ok {
			renderersOrder.MoveToBack(node)
		}
		return r, nil
	}
	r, err := glamour.NewTermRenderer(glamourStyleOption(), glamour.WithWordWrap(width))
	if err != nil {
		return nil, err
	}
	renderers[width] = r
	renderersNodes[width] = renderersOrder.PushBack(width)
	for len(renderers) > maxRenderers && renderersOrder.Len() > 0 {
		oldest := renderersOrder.Front()
		w, _ := oldest.Value.(int)
		renderersOrder.Remove(oldest)
		delete(renderers, w)
		delete(renderersNodes, w)
	}
	return r, nil
}

func cachedRenderers() int {
	renderersMu.Lock()
	defer renderersMu.Unlock()
	return len(renderers)
}

// glamourStyleOption reads FILECOLS_GLAMOUR_STYLE, then GLAMOUR_STYLE.
// "dark" is the default since auto detection queries the terminal.
func glamourStyleOption() glamour.TermRendererOption {
	style := strings.ToLower(strings.TrimSpace(os.Getenv(GlamourStyleEnv)))
	if style == "" {
		style = strings.ToLower(strings.TrimSpace(os.Getenv("GLAMOUR_STYLE")))
	}
	switch style {
	case "auto":
		return glamour.WithAutoStyle()
	case "light", "notty":
		return glamour.WithStandardStyle(style)
	}
	return glamour.WithStandardStyle("dark")
}
