// Package humanize formats byte counts and timestamps for narrow columns.
package humanize

import (
	"fmt"
	"time"

	gohumanize "github.com/dustin/go-humanize"
	"github.com/ncruces/go-strftime"
)

// Options select among the size formats.
type Options struct {
	// InBytes prints the exact count with thousands separators.
	InBytes bool
	// ZeroPrefix pads the integral part to three digits ("001.5 K").
	ZeroPrefix bool
}

type unit struct {
	limit  int64
	div    float64
	suffix string
}

// Thresholds switch to the next unit at 999 of the current one so the
// integral part never exceeds three digits.
var units = []unit{
	{limit: 1 << 10 * 999, div: 1 << 10, suffix: "K"},
	{limit: 1 << 20 * 999, div: 1 << 20, suffix: "M"},
	{limit: 1 << 30 * 999, div: 1 << 30, suffix: "G"},
	{limit: 1 << 40 * 999, div: 1 << 40, suffix: "T"},
	{limit: 1 << 50 * 999, div: 1 << 50, suffix: "P"},
}

// Bytes renders n as "54.0 B", "1.5 K", "1023.0 M". A zero or negative count
// renders as "0". Counts of 2^60 and above render as ">9000". An empty sep
// joins number and unit directly.
func Bytes(n int64, sep string, opts Options) string {
	if opts.InBytes {
		return gohumanize.Comma(n)
	}
	if n <= 0 {
		return "0"
	}
	if n < 1<<10 {
		if opts.ZeroPrefix {
			return fmt.Sprintf("%03d.0%sB", n, sep)
		}
		return fmt.Sprintf("%d.0%sB", n, sep)
	}
	if n >= 1<<60 {
		return ">9000"
	}
	for _, u := range units {
		// Between 999 and 1024 of a unit there is no promotion yet.
		next := int64(u.div) << 10
		if n < u.limit || n < next {
			if opts.ZeroPrefix {
				return fmt.Sprintf("%05.1f%s%s", float64(n)/u.div, sep, u.suffix)
			}
			return fmt.Sprintf("%.1f%s%s", float64(n)/u.div, sep, u.suffix)
		}
	}
	return ">9000"
}

// Time renders t relative to now: a clock time today, a weekday within the
// week, day and month within the year, and a full date beyond that.
func Time(t, now time.Time) string {
	t = t.In(now.Location())
	y1, m1, d1 := t.Date()
	y2, m2, d2 := now.Date()
	days := int(time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC).Sub(time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)).Hours() / 24)
	switch {
	case days >= 365:
		return t.Format("2 Jan 2006")
	case days >= 7:
		return t.Format("2 Jan")
	case days >= 1:
		return t.Format("Mon")
	default:
		return t.Format("15:04")
	}
}

// Strftime formats t with a C strftime pattern such as "%Y-%m-%d %H:%M".
func Strftime(pattern string, t time.Time) string {
	return strftime.Format(pattern, t)
}
