package view

import (
	"errors"
	"strings"
)

// ErrCannotShrink is returned when fixed parts alone exceed the width.
var ErrCannotShrink = errors.New("cannot shrink bar below its fixed size")

// BarPart is one styled piece of a bar.
type BarPart struct {
	Text  string
	Tags  []string
	Fixed bool
	// MinSize is how far ShrinkFromTheLeft may cut this part.
	MinSize int
}

// Width is the display width of the part.
func (p BarPart) Width() int { return TextWidth(p.Text) }

func (p *BarPart) cutOff(n int) {
	if n < 1 {
		return
	}
	p.Text = SliceWidth(p.Text, max(0, p.Width()-n))
}

func (p *BarPart) cutOffTo(n int) {
	if n < p.MinSize {
		p.Text = SliceWidth(p.Text, p.MinSize)
	} else if n < p.Width() {
		p.Text = SliceWidth(p.Text, n)
	}
}

// BarSide is an ordered list of parts sharing a base style tag.
type BarSide struct {
	base  string
	Parts []BarPart
}

// Add appends text styled with the base tag plus tags.
func (s *BarSide) Add(text string, tags ...string) {
	all := make([]string, 0, len(tags)+1)
	all = append(all, s.base)
	all = append(all, tags...)
	minSize := 0
	for _, r := range text {
		minSize = RuneWidth(r)
		break
	}
	s.Parts = append(s.Parts, BarPart{Text: text, Tags: all, MinSize: minSize})
}

// AddFixed is Add for a part that ShrinkFromTheLeft must not cut.
func (s *BarSide) AddFixed(text string, tags ...string) {
	s.Add(text, tags...)
	s.Parts[len(s.Parts)-1].Fixed = true
}

// AddSpace appends n blank cells.
func (s *BarSide) AddSpace(n int) {
	s.Add(strings.Repeat(" ", n), "space")
}

// Width sums the width of every part.
func (s *BarSide) Width() int {
	n := 0
	for _, p := range s.Parts {
		n += p.Width()
	}
	return n
}

func (s *BarSide) fixedWidth() int {
	n := 0
	for _, p := range s.Parts {
		if p.Fixed {
			n += p.Width()
		} else {
			n += p.MinSize
		}
	}
	return n
}

// Bar is a line with a left-aligned and a right-aligned side and a gap
// between them.
type Bar struct {
	Left  BarSide
	Right BarSide
	gap   BarSide
}

// NewBar returns a bar whose parts all carry the base tag.
func NewBar(base string) *Bar {
	return &Bar{
		Left:  BarSide{base: base},
		Right: BarSide{base: base},
		gap:   BarSide{base: base},
	}
}

// Width is the combined width of both sides, excluding the gap.
func (b *Bar) Width() int { return b.Left.Width() + b.Right.Width() }

// ShrinkByRemoving drops whole parts until the bar fits in width: first from
// the end of the left side, then from the start of the right side. Any
// leftover room becomes the gap.
func (b *Bar) ShrinkByRemoving(width int) {
	leftW := b.Left.Width()
	rightW := b.Right.Width()

	if leftW+rightW > width {
		for len(b.Left.Parts) > 0 {
			last := b.Left.Parts[len(b.Left.Parts)-1]
			b.Left.Parts = b.Left.Parts[:len(b.Left.Parts)-1]
			leftW -= last.Width()
			if leftW+rightW <= width {
				break
			}
		}
		if leftW+rightW > width {
			for len(b.Right.Parts) > 0 {
				first := b.Right.Parts[0]
				b.Right.Parts = b.Right.Parts[1:]
				rightW -= first.Width()
				if leftW+rightW <= width {
					break
				}
			}
		}
	}
	if sum := leftW + rightW; sum < width {
		b.fillGap(width - sum)
	} else {
		b.gap.Parts = nil
	}
}

// ShrinkFromTheLeft cuts parts of the left side down to their minimum size,
// leftmost first, until the bar fits.
func (b *Bar) ShrinkFromTheLeft(width int) error {
	if width < b.Left.fixedWidth()+b.Right.fixedWidth() {
		return ErrCannotShrink
	}
	over := b.Width() - width
	if over <= 0 {
		b.fillGap(width - b.Width())
		return nil
	}
	for i := range b.Left.Parts {
		p := &b.Left.Parts[i]
		if p.Fixed {
			continue
		}
		w := p.Width()
		if over > w-p.MinSize {
			p.cutOffTo(p.MinSize)
			over -= w - p.MinSize
		} else {
			p.cutOff(over)
			break
		}
	}
	b.gap.Parts = nil
	return nil
}

func (b *Bar) fillGap(n int) {
	b.gap.Parts = nil
	if n > 0 {
		b.gap.Add(strings.Repeat(" ", n), "space")
	}
}

// Combine returns left, gap and right parts in display order.
func (b *Bar) Combine() []BarPart {
	out := make([]BarPart, 0, len(b.Left.Parts)+len(b.gap.Parts)+len(b.Right.Parts))
	out = append(out, b.Left.Parts...)
	out = append(out, b.gap.Parts...)
	out = append(out, b.Right.Parts...)
	return out
}
