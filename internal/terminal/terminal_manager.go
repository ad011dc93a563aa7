package terminal

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

const default_width = 80

// IsTerminal reports whether f is attached to an interactive terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Width is the column count of the terminal behind f, or 80 when f is not a terminal.
func Width(f *os.File) int {
	if !IsTerminal(f) {
		return default_width
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return default_width
	}
	return w
}

// Progress counts finished inputs on a single redrawn line. A nil *Progress is valid and draws nothing.
type Progress struct {
	bar *progressbar.ProgressBar
}

func NewProgress(total int, description string, out io.Writer) *Progress {
	return &Progress{
		bar: progressbar.NewOptions(total,
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetDescription(description),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		),
	}
}

// Step is safe to call from several goroutines.
func (p *Progress) Step() {
	if p == nil {
		return
	}
	p.bar.Add(1)
}

func (p *Progress) Close() {
	if p == nil {
		return
	}
	p.bar.Finish()
}
