package humanize

import (
	"testing"
	"time"
)

func TestBytes(t *testing.T) {
	tests := []struct {
		name string
		n    int64
		opts Options
		want string
	}{
		{name: "zero", n: 0, want: "0"},
		{name: "negative", n: -5, want: "0"},
		{name: "bytes", n: 54, want: "54.0 B"},
		{name: "kilo", n: 1500, want: "1.5 K"},
		{name: "mega below promotion", n: 1 << 20 * 1023, want: "1023.0 M"},
		{name: "giga", n: 3 << 30, want: "3.0 G"},
		{name: "huge", n: 1 << 60, want: ">9000"},
		{name: "zero prefix bytes", n: 7, opts: Options{ZeroPrefix: true}, want: "007.0 B"},
		{name: "zero prefix kilo", n: 1536, opts: Options{ZeroPrefix: true}, want: "001.5 K"},
		{name: "in bytes", n: 1234567, opts: Options{InBytes: true}, want: "1,234,567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Bytes(tt.n, " ", tt.opts); got != tt.want {
				t.Fatalf("Bytes(%d): got %q, want %q", tt.n, got, tt.want)
			}
		})
	}
}

func TestBytesWithoutSeparator(t *testing.T) {
	if got := Bytes(2048, "", Options{}); got != "2.0K" {
		t.Fatalf("got %q, want %q", got, "2.0K")
	}
}

func TestTime(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{name: "today", t: time.Date(2024, 6, 15, 9, 5, 0, 0, time.UTC), want: "09:05"},
		{name: "yesterday", t: time.Date(2024, 6, 14, 23, 0, 0, 0, time.UTC), want: "Fri"},
		{name: "this year", t: time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC), want: "2 Mar"},
		{name: "old", t: time.Date(2021, 11, 30, 8, 0, 0, 0, time.UTC), want: "30 Nov 2021"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Time(tt.t, now); got != tt.want {
				t.Fatalf("Time(%v): got %q, want %q", tt.t, got, tt.want)
			}
		})
	}
}

func TestStrftime(t *testing.T) {
	ts := time.Date(2024, 6, 5, 7, 8, 0, 0, time.UTC)
	if got := Strftime("%Y-%m-%d %H:%M", ts); got != "2024-06-05 07:08" {
		t.Fatalf("got %q", got)
	}
}
