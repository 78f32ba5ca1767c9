package view

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Fragment is one styled run of a row.
type Fragment struct {
	Text string
	Tags []string
	Attr Attr
}

// Ambiguous-width runes count as one cell regardless of locale so that the
// layout math matches what the screen buffer emits.
var cellWidth = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

// TextWidth returns the number of terminal cells s occupies.
func TextWidth(s string) int {
	return cellWidth.StringWidth(s)
}

// RuneWidth returns the number of cells r occupies.
func RuneWidth(r rune) int {
	return cellWidth.RuneWidth(r)
}

// TotalWidth sums the cell width of every fragment.
func TotalWidth(frags []Fragment) int {
	n := 0
	for _, f := range frags {
		n += TextWidth(f.Text)
	}
	return n
}

// SliceWidth returns the leading part of s that fits in n cells. A wide rune
// that would straddle the boundary is replaced by a space so the result is
// exactly n cells whenever s is at least that wide.
func SliceWidth(s string, n int) string {
	if n <= 0 {
		return ""
	}
	var b strings.Builder
	used := 0
	for _, r := range s {
		w := RuneWidth(r)
		if used+w > n {
			if used < n {
				b.WriteString(strings.Repeat(" ", n-used))
			}
			break
		}
		b.WriteRune(r)
		used += w
	}
	return b.String()
}

// splitExt returns the extension of name the way a file manager shows it:
// the final ".suffix", ignoring leading dots so ".bashrc" has none.
func splitExt(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return ""
	}
	if strings.Trim(name[:i], ".") == "" {
		return ""
	}
	return name[i:]
}

// ellipsisFor returns the truncation marker.
func ellipsisFor(unicode bool) string {
	if unicode {
		return "…"
	}
	return "~"
}

// TruncateName fits text into space cells. When it is too long the stem is
// cut and the extension kept behind the ellipsis; if that still does not
// fit, the tail is cut as well.
func TruncateName(text string, space int, ellipsis string) string {
	ext := splitExt(text)
	ellW := TextWidth(ellipsis)
	if TextWidth(text) > space {
		text = SliceWidth(text, max(1, space-TextWidth(ext)-ellW)) + ellipsis + ext
	}
	if TextWidth(text) > space {
		text = SliceWidth(text, max(0, space-ellW)) + ellipsis
	}
	return text
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
