package view

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/treykane/filecols/internal/config"
	"github.com/treykane/filecols/internal/humanize"
)

// Fragment tags understood by the colorscheme.
const (
	tagLineNumber    = "line_number"
	tagLineNumberSep = "line_number_separator"
	tagTagMarker     = "tag_marker"
	tagInfoString    = "infostring"
	tagStars         = "stars"
	tagDate          = "date"
	tagVCSFile       = "vcsfile"
	tagVCSRemote     = "vcsremote"
)

// LayoutOverflowError reports that the row composer handed out more cells
// than the column has. It is raised with panic: it means the width
// accounting is wrong, not that the input is unusual.
type LayoutOverflowError struct {
	Path  string
	Width int
	Space int
}

func (e *LayoutOverflowError) Error() string {
	return fmt.Sprintf("row for %s overflows width %d by %d cells", e.Path, e.Width, -e.Space)
}

// Numbering is the line-number configuration of a column.
type Numbering struct {
	Mode                string
	OneIndexed          bool
	RelativeCurrentZero bool
}

// NumberingFrom extracts the line-number options from settings.
func NumberingFrom(s config.Settings) Numbering {
	return Numbering{
		Mode:                strings.ToLower(s.LineNumbers),
		OneIndexed:          s.OneIndexed,
		RelativeCurrentZero: s.RelativeCurrentZero,
	}
}

// Enabled reports whether line numbers are drawn at all.
func (n Numbering) Enabled() bool {
	return n.Mode != "" && n.Mode != config.NumberingOff
}

func (n Numbering) offset() int {
	if n.OneIndexed {
		return 1
	}
	return 0
}

// Number returns the value shown for row i.
//
// In relative mode the selected row would read 0; unless
// RelativeCurrentZero is set it shows its absolute index instead.
func (n Numbering) Number(i, selected int) int {
	if n.Mode == config.NumberingRelative {
		d := selected - i
		if d < 0 {
			d = -d
		}
		if d == 0 && !n.RelativeCurrentZero {
			return selected + n.offset()
		}
		return d
	}
	return i + n.offset()
}

// Format renders the number for row i padded to width: left aligned on the
// selected row, right aligned elsewhere.
func (n Numbering) Format(i, selected, width int) string {
	s := strconv.Itoa(n.Number(i, selected))
	pad := width - len(s)
	if pad <= 0 {
		return s
	}
	if i == selected {
		return s + strings.Repeat(" ", pad)
	}
	return strings.Repeat(" ", pad) + s
}

// Width returns the field width needed for every number visible in a window
// of height rows starting at scrollBegin.
func (n Numbering) Width(scrollBegin, height, length, selected int) int {
	end := scrollBegin + min(height, length) - 1
	if n.Mode == config.NumberingRelative {
		w := digits(max(selected-scrollBegin, end-selected))
		if !n.RelativeCurrentZero {
			w = max(w, digits(selected+n.offset()))
		}
		return w
	}
	return digits(end + n.offset())
}

func digits(n int) int {
	return len(strconv.Itoa(n))
}

// RowInput is one entry to lay out plus its position and surroundings.
type RowInput struct {
	Entry       Entry
	Index       int
	Selected    int
	Width       int
	NumberWidth int
	Main        bool
	// DisplayInfo enables the default size column.
	DisplayInfo bool
	Linemode    Linemode
	Metadata    Metadata
	Tagged      bool
	TagMarker   string
	Copied      bool
	Cut         bool
	// DirVCSTracked is true when the listing itself is under version control.
	DirVCSTracked bool
	HasVCSChild   bool
	Rating        int
}

// RowComposer lays out directory rows for one settings snapshot.
type RowComposer struct {
	Settings config.Settings
}

// Compose returns the fragments for one row, filling exactly in.Width cells.
// Widths below one produce no fragments.
func (rc RowComposer) Compose(in RowInput) []Fragment {
	if in.Width < 1 {
		return nil
	}
	s := rc.Settings
	num := NumberingFrom(s)
	space := in.Width
	var left, right []Fragment

	if num.Enabled() && in.Main && space-in.NumberWidth > 2 {
		text := num.Format(in.Index, in.Selected, in.NumberWidth)
		left = append(left,
			Fragment{Text: text, Tags: []string{tagLineNumber}},
			Fragment{Text: " ", Tags: []string{tagLineNumberSep}},
		)
		space -= TextWidth(text) + 1
	}

	if s.DisplayTags && (in.Main || s.DisplayTagsInAllColumns) && in.Width > 2 {
		marker := " "
		if in.Tagged && in.TagMarker != "" {
			marker = in.TagMarker
		}
		if w := TextWidth(marker); space-w > 2 {
			left = append(left, Fragment{Text: marker, Tags: []string{tagTagMarker}})
			space -= w
		}
	}

	vcs := vcsFragments(in)
	if w := TotalWidth(vcs); space-w > 2 {
		right = append(right, vcs...)
		space -= w
	}

	info := rc.infoFragments(in, space)
	if len(info) > 0 {
		if w := TotalWidth(info); space-w > 2 {
			var sep []Fragment
			if len(right) > 0 {
				sep = []Fragment{{Text: " "}}
			}
			right = append(append(info, sep...), right...)
			space -= w + len(sep)
		}
	}

	name := TruncateName(in.Linemode.FileTitle(in.Entry, in.Metadata), space, ellipsisFor(s.UnicodeEllipsis))
	left = append(left, Fragment{Text: name})
	space -= TextWidth(name)

	if space < 0 {
		panic(&LayoutOverflowError{Path: in.Entry.Path(), Width: in.Width, Space: space})
	}
	if space > 0 {
		left = append(left, Fragment{Text: strings.Repeat(" ", space)})
	}
	return append(left, right...)
}

func (rc RowComposer) infoFragments(in RowInput, space int) []Fragment {
	data, err := in.Linemode.InfoString(in.Entry, in.Metadata)
	switch {
	case errors.Is(err, ErrNoInfoString):
		return rc.defaultInfo(in, space)
	case err != nil:
		log.Debug("linemode info string", "linemode", in.Linemode.Name(), "path", in.Entry.Path(), "error", err)
		return nil
	case data == "":
		return nil
	}
	return []Fragment{{Text: " " + data, Tags: []string{tagInfoString}}}
}

// defaultInfo shows the loader's size summary, or the rating in its place.
func (rc RowComposer) defaultInfo(in RowInput, space int) []Fragment {
	s := rc.Settings
	e := in.Entry
	info := e.InfoString()
	if !in.DisplayInfo || info == "" || !s.DisplaySizeInMainColumn {
		return nil
	}
	var out []Fragment
	if TextWidth(info) <= space {
		if stars := ratingStars(in.Rating, s.DisplayRating); stars != "" {
			out = append(out, Fragment{Text: stars, Tags: []string{tagStars}})
		} else {
			out = append(out, Fragment{Text: info, Tags: []string{tagInfoString}})
		}
	}
	if in.Linemode.Name() == "devicons" {
		if st, ok := e.Stat(); ok {
			out = append(out,
				Fragment{Text: " | "},
				Fragment{Text: humanize.Strftime(s.TimeFormat, st.ModTime), Tags: []string{tagDate}},
			)
		}
	}
	return out
}

// ratingStars renders n stars right-aligned in seven cells.
func ratingStars(n int, enabled bool) string {
	if !enabled || n <= 0 {
		return ""
	}
	stars := strings.Repeat("★", n)
	if n < 7 {
		stars = strings.Repeat(" ", 7-n) + stars
	}
	return stars
}

func vcsFragments(in RowInput) []Fragment {
	e := in.Entry
	if in.DirVCSTracked || (e.Kind() == KindDir && e.VCSTracked()) {
		var out []Fragment
		if rs := e.VCSRemoteStatus(); rs != "" {
			sym, tags := VCSRemoteSymbol(rs)
			out = append(out, Fragment{Text: sym, Tags: append([]string{tagVCSRemote}, tags...)})
		}
		if st := e.VCSStatus(); st != "" {
			sym, tags := VCSStatusSymbol(st)
			out = append(out, Fragment{Text: sym, Tags: append([]string{tagVCSFile}, tags...)})
		} else if in.HasVCSChild {
			out = append(out, Fragment{Text: " "})
		}
		return out
	}
	if in.HasVCSChild {
		return []Fragment{{Text: " "}}
	}
	return nil
}

// RowTags returns the style tags that apply to a whole row.
func RowTags(in RowInput) []string {
	e := in.Entry
	var tags []string
	if in.Index == in.Selected {
		tags = append(tags, "selected")
	}
	if e.Marked() {
		tags = append(tags, "marked")
	}
	if in.Tagged {
		tags = append(tags, "tagged")
	}
	if e.Kind() == KindDir {
		tags = append(tags, "directory")
	} else {
		tags = append(tags, "file")
	}
	if st, ok := e.Stat(); ok {
		if st.Mode.Perm()&0o100 != 0 {
			tags = append(tags, "executable")
		}
		switch e.Kind() {
		case KindFifo:
			tags = append(tags, "fifo")
		case KindSocket:
			tags = append(tags, "socket")
		case KindDevice:
			tags = append(tags, "device")
		}
	}
	if in.Copied {
		if in.Cut {
			tags = append(tags, "cut")
		} else {
			tags = append(tags, "copied")
		}
	}
	if e.IsLink() {
		tags = append(tags, "link")
		if e.Exists() {
			tags = append(tags, "good")
		} else {
			tags = append(tags, "bad")
		}
	}
	return tags
}

// PermissionString renders the ls-style mode of an entry: a type letter
// followed by the nine rwx bits.
func PermissionString(e Entry, st StatInfo) string {
	var b strings.Builder
	switch {
	case e.Kind() == KindDir:
		b.WriteByte('d')
	case e.IsLink():
		b.WriteByte('l')
	default:
		b.WriteByte('-')
	}
	perm := st.Mode.Perm()
	for i := 0; i < 9; i++ {
		if perm&(fs.FileMode(1)<<uint(8-i)) != 0 {
			b.WriteByte("rwxrwxrwx"[i])
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}
