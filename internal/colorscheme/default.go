package colorscheme

import "github.com/treykane/filecols/internal/view"

type defaultScheme struct{}

func (defaultScheme) Name() string { return "default" }

func (defaultScheme) Use(ctx Context) view.Attr {
	var a view.Attr
	if ctx["reset"] {
		return a
	}

	switch {
	case ctx["in_browser"]:
		browser(ctx, &a)
	case ctx["in_titlebar"]:
		titlebar(ctx, &a)
	case ctx["in_statusbar"]:
		statusbar(ctx, &a)
	}

	if ctx["text"] && ctx["highlight"] {
		a.Reverse = true
	}
	vcs(ctx, &a)
	return a
}

func browser(ctx Context, a *view.Attr) {
	a.Reverse = ctx["selected"]
	if ctx.Any("empty", "error") {
		a.Bg = Red
	}
	if ctx["border"] {
		a.Fg = Default
	}
	if ctx["media"] {
		if ctx["image"] {
			a.Fg = Yellow
		} else {
			a.Fg = Magenta
		}
	}
	if ctx["container"] {
		a.Fg = Red
	}
	if ctx["directory"] {
		a.Bold = true
		a.Fg = Blue
	} else if ctx["executable"] && !ctx.Any("media", "container", "fifo", "socket") {
		a.Bold = true
		a.Fg = Green
	}
	if ctx["socket"] {
		a.Bold = true
		a.Fg = Magenta
	}
	if ctx.Any("fifo", "device") {
		a.Fg = Yellow
		if ctx["device"] {
			a.Bold = true
		}
	}
	if ctx["link"] {
		if ctx["good"] {
			a.Fg = Cyan
		} else {
			a.Fg = Magenta
		}
	}
	if ctx["tag_marker"] && !ctx["selected"] {
		a.Bold = true
		if a.Fg == Red || a.Fg == Magenta {
			a.Fg = White
		} else {
			a.Fg = Red
		}
	}
	if ctx["line_number"] && !ctx["selected"] {
		a.Fg = Default
		a.Bold = false
	}
	if !ctx["selected"] && ctx.Any("cut", "copied") {
		a.Bold = true
		a.Fg = "8"
	}
	if ctx["main_column"] {
		if ctx["selected"] {
			a.Bold = true
		}
		if ctx["marked"] {
			a.Bold = true
			a.Fg = Yellow
		}
	}
	if ctx["badinfo"] {
		if a.Reverse {
			a.Bg = Magenta
		} else {
			a.Fg = Magenta
		}
	}
	if ctx["inactive_pane"] {
		a.Fg = Cyan
	}
}

func titlebar(ctx Context, a *view.Attr) {
	switch {
	case ctx["hostname"]:
		if ctx["bad"] {
			a.Fg = Red
		} else {
			a.Fg = Green
		}
	case ctx["directory"]:
		a.Fg = Blue
	case ctx["tab"]:
		if ctx["good"] {
			a.Bg = Green
		}
	case ctx["link"]:
		a.Fg = Cyan
	}
	a.Bold = true
}

func statusbar(ctx Context, a *view.Attr) {
	if ctx["permissions"] {
		if ctx["good"] {
			a.Fg = Cyan
		} else if ctx["bad"] {
			a.Fg = Magenta
		}
	}
	if ctx["marked"] {
		a.Bold = true
		a.Reverse = true
		a.Fg = Yellow
	}
	if ctx["frozen"] {
		a.Bold = true
		a.Reverse = true
		a.Fg = Cyan
	}
	if ctx["message"] && ctx["bad"] {
		a.Bold = true
		a.Fg = Red
	}
	if ctx["vcsinfo"] {
		a.Fg = Blue
		a.Bold = false
	}
}

func vcs(ctx Context, a *view.Attr) {
	if ctx["selected"] {
		return
	}
	switch {
	case ctx["vcsfile"]:
		a.Bold = false
		switch {
		case ctx["vcsconflict"]:
			a.Fg = Magenta
		case ctx["vcsuntracked"]:
			a.Fg = Cyan
		case ctx.Any("vcschanged", "vcsunknown"):
			a.Fg = Red
		case ctx.Any("vcsstaged", "vcssync"):
			a.Fg = Green
		case ctx["vcsignored"]:
			a.Fg = Default
		}
	case ctx["vcsremote"]:
		a.Bold = false
		switch {
		case ctx.Any("vcssync", "vcsnone"):
			a.Fg = Green
		case ctx.Any("vcsbehind", "vcsunknown"):
			a.Fg = Red
		case ctx["vcsahead"]:
			a.Fg = Blue
		case ctx["vcsdiverged"]:
			a.Fg = Magenta
		}
	}
}

// jungleScheme is the default scheme with green directories.
type jungleScheme struct{ defaultScheme }

func (jungleScheme) Name() string { return "jungle" }

func (j jungleScheme) Use(ctx Context) view.Attr {
	a := j.defaultScheme.Use(ctx)
	if ctx["in_browser"] && ctx["directory"] && !ctx["inactive_pane"] && !ctx["marked"] {
		a.Fg = Green
	}
	return a
}

// snowScheme is monochrome: only weight and reverse video.
type snowScheme struct{}

func (snowScheme) Name() string { return "snow" }

func (snowScheme) Use(ctx Context) view.Attr {
	var a view.Attr
	if ctx["reset"] {
		return a
	}
	switch {
	case ctx["in_browser"]:
		a.Reverse = ctx["selected"]
		a.Bold = ctx.Any("directory", "marked")
		a.Underline = ctx["link"]
		a.Dim = ctx.Any("cut", "copied") && !ctx["selected"]
	case ctx["in_titlebar"]:
		a.Bold = true
	case ctx["in_statusbar"]:
		a.Reverse = ctx.Any("marked", "frozen")
		a.Bold = ctx["message"] && ctx["bad"]
	}
	if ctx["text"] && ctx["highlight"] {
		a.Reverse = true
	}
	return a
}
