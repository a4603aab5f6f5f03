/* pkg/console/console.go */

package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	ColorSuccess = lipgloss.Color("#00ff00") // Green
	ColorWarning = lipgloss.Color("#ffaa00") // Yellow/orange
	ColorError   = lipgloss.Color("#ff0000") // Red
)

// Reporter prints human-facing progress lines. Success, warning and plain
// lines go to Out; errors go to Err. Colour is dropped automatically when the
// writer is not a terminal.
type Reporter struct {
	mu      sync.Mutex
	out     io.Writer
	err     io.Writer
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
}

// New returns a Reporter writing to out and err.
func New(out, err io.Writer) *Reporter {
	outR := lipgloss.NewRenderer(out)
	errR := lipgloss.NewRenderer(err)
	return &Reporter{
		out:     out,
		err:     err,
		success: outR.NewStyle().Foreground(ColorSuccess),
		warning: outR.NewStyle().Foreground(ColorWarning).Bold(true),
		failure: errR.NewStyle().Foreground(ColorError),
	}
}

// Discard returns a Reporter that prints nothing.
func Discard() *Reporter {
	return New(io.Discard, io.Discard)
}

func (r *Reporter) Success(format string, args ...any) {
	r.write(r.out, r.success.Render(fmt.Sprintf(format, args...)))
}

func (r *Reporter) Warning(format string, args ...any) {
	r.write(r.out, r.warning.Render(fmt.Sprintf(format, args...)))
}

func (r *Reporter) Error(format string, args ...any) {
	r.write(r.err, r.failure.Render(fmt.Sprintf(format, args...)))
}

// Line prints an unstyled line.
func (r *Reporter) Line(format string, args ...any) {
	r.write(r.out, fmt.Sprintf(format, args...))
}

// Blank prints an empty line.
func (r *Reporter) Blank() {
	r.write(r.out, "")
}

func (r *Reporter) write(w io.Writer, s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintln(w, s)
}
