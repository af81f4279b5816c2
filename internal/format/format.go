// Package format builds the status lines ssamgit prints and sends to the
// browser.
package format

import (
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/fatih/color"
)

// Tag identifies ssamgit output in a shared dev-server console.
const Tag = "[ssam-git]"

// Layouts used by the formatter.
const (
	// DatetimeLayout renders as YYYY.MM.DD-HH.MM.SS, sortable and safe in
	// file names and commit messages.
	DatetimeLayout = "2006.01.02-15.04.05"

	// ClockLayout mirrors a browser's en-US toLocaleTimeString.
	ClockLayout = "3:04:05 PM"
)

// Style is a terminal color used by the formatter.
type Style int

const (
	Gray Style = iota
	Green
	Yellow
)

// attribute maps a Style to its escape attribute. It is a pure lookup with no
// shared mutable state.
func (s Style) attribute() color.Attribute {
	switch s {
	case Green:
		return color.FgGreen
	case Yellow:
		return color.FgYellow
	default:
		return color.FgHiBlack
	}
}

// Formatter renders prefixed status lines. The zero value is not usable; use New.
type Formatter struct {
	now   func() time.Time
	color bool
}

// Option configures a Formatter
type Option func(*Formatter)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(f *Formatter) {
		f.now = now
	}
}

// WithColor forces colored output on or off.
func WithColor(enabled bool) Option {
	return func(f *Formatter) {
		f.color = enabled
	}
}

// New creates a Formatter. Color defaults to on when stdout is a terminal.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		now:   time.Now,
		color: !color.NoColor,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Paint wraps s in the escape codes for style, or returns it unchanged when
// color is off.
func (f *Formatter) Paint(s string, style Style) string {
	c := color.New(style.attribute())
	if f.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(s)
}

// Prefix renders "<local time> [ssam-git]" with the time in gray and the tag
// in green.
func (f *Formatter) Prefix() string {
	return f.Paint(f.now().Local().Format(ClockLayout), Gray) + " " + f.Paint(Tag, Green)
}

// Compose prefixes body with the timestamp and tag.
func (f *Formatter) Compose(body string) string {
	return f.Prefix() + " " + body
}

// Highlight renders s in yellow, used for diagnostics on the console.
func (f *Formatter) Highlight(s string) string {
	return f.Paint(s, Yellow)
}

// Datetime renders t as YYYY.MM.DD-HH.MM.SS in local time.
func (f *Formatter) Datetime() string {
	return Datetime(f.now())
}

// Datetime renders t as YYYY.MM.DD-HH.MM.SS using local-time fields.
func Datetime(t time.Time) string {
	return DatetimeIn(t, time.Local)
}

// DatetimeIn renders t as YYYY.MM.DD-HH.MM.SS in loc.
func DatetimeIn(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DatetimeLayout)
}

// StripANSI removes every escape sequence from s, 7-bit and C1 alike. The
// result contains no escape introducers, so stripping again is a no-op.
func StripANSI(s string) string {
	return ansi.Strip(s)
}
