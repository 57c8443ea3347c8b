// Package progress wraps the terminal progress bar behind a small interface
// so quiet runs and tests can use a no-op reporter.
package progress

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Reporter receives progress updates from a filter run. Add is called with
// each partition's matched-line count as it completes; Finish forces the
// indicator to its total exactly once, reconciling any undercount. Updates
// only ever move the indicator forward.
type Reporter interface {
	Add(n int)
	Finish()
}

// Factory builds a Reporter once the line total is known.
type Factory func(total int) Reporter

// BarFactory returns a Factory producing terminal bars with the given
// description.
func BarFactory(description string) Factory {
	return func(total int) Reporter {
		return NewBar(total, description)
	}
}

// Discard is a Factory for quiet runs and tests.
func Discard(int) Reporter {
	return Noop{}
}

// Bar renders a terminal progress bar on stderr for a fixed line total,
// keeping stdout free for command payloads.
type Bar struct {
	bar       *progressbar.ProgressBar
	total     int
	processed int
}

// NewBar creates a progress bar spanning total lines.
func NewBar(total int, description string) *Bar {
	return newBar(total, description, os.Stderr)
}

func newBar(total int, description string, w io.Writer) *Bar {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
	)
	return &Bar{bar: bar, total: total}
}

// Add advances the bar by n lines.
func (b *Bar) Add(n int) {
	b.processed += n
	_ = b.bar.Add(n)
}

// Finish jumps the bar to 100%, covering the gap between matched-line
// updates and the full line count.
func (b *Bar) Finish() {
	if remaining := b.total - b.processed; remaining > 0 {
		b.processed = b.total
		_ = b.bar.Add(remaining)
	}
	_ = b.bar.Finish()
}

// Noop discards progress updates. Used in quiet mode and tests.
type Noop struct{}

func (Noop) Add(int) {}

func (Noop) Finish() {}
