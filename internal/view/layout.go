package view

import "strings"

// Layout arranges columns on the canvas. MultiPane and Miller implement it.
type Layout interface {
	Resize(y, x, height, width int)
	// Poke refreshes every column's target; call it before Draw.
	Poke()
	Draw()
	MainColumn() *Column
	Columns() []*Column
	Click(ev MouseEvent) bool
	SetOverlay(fn func(Surface))
	Close()
}

// PaneWidths splits width among n columns separated by one cell each. Every
// column gets at least one cell; the last one takes what the even split
// leaves over so the row is filled exactly.
func PaneWidths(width, n int) []int {
	if n <= 0 {
		return nil
	}
	each := (width - (n - 1)) / n
	out := make([]int, n)
	for i := range out {
		out[i] = max(1, each)
	}
	if each >= 1 {
		out[n-1] += width - (n - 1) - each*n
	}
	return out
}

// RatioWidths splits width among columns in proportion to ratios, with one
// separator cell between neighbours. The last column takes the rounding
// remainder.
func RatioWidths(width int, ratios []int) []int {
	n := len(ratios)
	if n == 0 {
		return nil
	}
	sum := 0
	for _, r := range ratios {
		sum += r
	}
	avail := max(0, width-(n-1))
	out := make([]int, n)
	used := 0
	for i, r := range ratios {
		if i == n-1 {
			out[i] = max(1, avail-used)
			break
		}
		out[i] = max(1, avail*r/sum)
		used += out[i]
	}
	return out
}

// separatorsEnabled reports whether vertical lines are drawn between columns
// for a draw_borders value.
func separatorsEnabled(drawBorders string) bool {
	switch strings.ToLower(drawBorders) {
	case "separators", "outline", "both", "true":
		return true
	}
	return false
}

func drawSeparators(env *Env, surface Surface, originX int, columns []*Column) {
	if len(columns) < 2 {
		return
	}
	attr := env.colors([]string{"in_browser", "border"})
	for _, c := range columns[:len(columns)-1] {
		_, x, _, w := c.Bounds()
		surface.VLine(x-originX+w, "|", attr)
	}
}

func clickColumns(columns []*Column, ev MouseEvent) bool {
	for _, c := range columns {
		if c.Contains(ev.Y, ev.X) {
			return c.Click(ev)
		}
	}
	return false
}
