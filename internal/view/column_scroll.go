package view

// Scrolling helpers for the main column. They move the window and the
// selection the way vi moves its viewport: Scroll* keep the selection where
// it is on screen when possible, Move* keep the window and move the
// selection within it.

func (c *Column) directory() (Directory, bool) {
	d, ok := c.target.(Directory)
	return d, ok && d != nil
}

// Scroll moves the window down by n rows (up when n < 0).
func (c *Column) Scroll(n int) {
	d, ok := c.directory()
	if !ok || n == 0 {
		return
	}
	length := len(d.Entries())
	cur := d.Pointer()
	top := d.ScrollBegin()
	hei := c.height
	if length <= hei {
		return
	}
	if n > 0 && length <= top+hei {
		return
	}
	if n < 0 && top == 0 {
		return
	}
	c.needRedraw = true
	d.Move(cur + n)
	d.SetScrollBegin(top + n)
	if (n > 0 && cur > top) || (n < 0 && cur < top+hei-1) {
		d.Move(cur)
	}
}

// ScrollTop scrolls so the selection becomes the first visible row.
func (c *Column) ScrollTop() {
	d, ok := c.directory()
	if !ok {
		return
	}
	if offset := d.Pointer() - d.ScrollBegin(); offset > 0 {
		c.Scroll(offset)
	}
}

// ScrollMid scrolls so the selection sits in the middle of the window.
func (c *Column) ScrollMid() {
	d, ok := c.directory()
	if !ok {
		return
	}
	mid := d.ScrollBegin() + c.height/2 - 1
	c.Scroll(d.Pointer() - mid)
}

// ScrollBot scrolls so the selection becomes the last visible row.
func (c *Column) ScrollBot() {
	d, ok := c.directory()
	if !ok {
		return
	}
	bot := d.ScrollBegin() + c.height - 1
	if offset := d.Pointer() - bot; offset < 0 {
		c.Scroll(offset)
	}
}

// MoveTop selects the first visible row.
func (c *Column) MoveTop() {
	d, ok := c.directory()
	if !ok {
		return
	}
	c.needRedraw = true
	d.Move(d.ScrollBegin())
}

// Middle targets for MoveMid.
const (
	MidWindow = iota
	MidBelow
	MidAbove
	MidListing
)

// MoveMid selects a middle row: of the window, of the part below or above
// the selection, or of the whole listing.
func (c *Column) MoveMid(mode int) {
	d, ok := c.directory()
	if !ok {
		return
	}
	c.needRedraw = true
	length := len(d.Entries())
	cur := d.Pointer()
	top := d.ScrollBegin()
	bot := length - 1
	if length >= c.height {
		bot = top + c.height - 1
	}

	var mid int
	switch mode {
	case MidWindow:
		mid = (top + bot) / 2
	case MidBelow:
		mid = (cur + bot + 1) / 2
	case MidAbove:
		mid = (top + cur) / 2
	default:
		mid = (length - 1) / 2
	}
	if mid != cur {
		d.Move(mid)
	}
}

// MoveBot selects the last visible row.
func (c *Column) MoveBot() {
	d, ok := c.directory()
	if !ok {
		return
	}
	c.needRedraw = true
	d.Move(d.ScrollBegin() + c.height - 1)
}
