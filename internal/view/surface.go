package view

// Attr is a resolved display attribute. Colors are lipgloss color strings
// ("1", "#ff8700"); empty means the terminal default.
type Attr struct {
	Fg        string
	Bg        string
	Bold      bool
	Reverse   bool
	Underline bool
	Dim       bool
}

// ColorResolver maps semantic style tags ("in_browser", "selected", ...) to
// an attribute.
type ColorResolver func(tags []string) Attr

// Surface is a rectangular cell area. Coordinates are relative to the
// surface and writes past its edge are clipped.
type Surface interface {
	Size() (height, width int)
	Erase()
	Write(row, col int, text string, attr Attr)
	// WriteANSI writes text that already carries escape sequences.
	WriteANSI(row, col int, text string)
	VLine(col int, glyph string, attr Attr)
}

// Canvas is a Surface that can be split into sub-regions.
type Canvas interface {
	Surface
	Sub(y, x, height, width int) Surface
}
