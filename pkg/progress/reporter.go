// Package progress renders the human-readable status of a run.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Reporter receives an ordered sequence of status updates. Each phase is
// opened with Start, refined with Update and closed with Success or Fail.
type Reporter interface {
	Start(text string)
	Update(text string)
	Success(text string)
	Fail(text string)
}

const clearLine = "\r\x1b[2K"

// Spinner is a Reporter that draws a spinner line. On a terminal the line is
// redrawn in place and the frame advances with every update; on any other
// writer each status is printed on its own line.
type Spinner struct {
	out    io.Writer
	inline bool
	frames []string
	frame  int
	active bool

	frameStyle   lipgloss.Style
	successStyle lipgloss.Style
	failStyle    lipgloss.Style
}

// Option configures a Spinner.
type Option func(*Spinner)

// WithInline forces in-place redrawing on or off.
func WithInline(inline bool) Option {
	return func(s *Spinner) {
		s.inline = inline
	}
}

// NewSpinner creates a spinner writing to out.
func NewSpinner(out io.Writer, opts ...Option) *Spinner {
	renderer := lipgloss.NewRenderer(out)

	s := &Spinner{
		out:          out,
		inline:       isTerminal(out),
		frames:       spinner.Dot.Frames,
		frameStyle:   renderer.NewStyle().Foreground(lipgloss.Color("12")),
		successStyle: renderer.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		failStyle:    renderer.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start opens a phase with text.
func (s *Spinner) Start(text string) {
	s.frame = 0
	s.active = true
	s.draw(text)
}

// Update replaces the current status text.
func (s *Spinner) Update(text string) {
	if !s.active {
		s.Start(text)
		return
	}
	s.frame++
	s.draw(text)
}

// Success closes the phase with a check mark.
func (s *Spinner) Success(text string) {
	s.finish(s.successStyle.Render("✔"), text)
}

// Fail closes the phase with a cross.
func (s *Spinner) Fail(text string) {
	s.finish(s.failStyle.Render("✖"), text)
}

func (s *Spinner) draw(text string) {
	frame := s.frameStyle.Render(strings.TrimSpace(s.frames[s.frame%len(s.frames)]))
	if s.inline {
		fmt.Fprintf(s.out, "%s%s %s", clearLine, frame, text)
		return
	}
	fmt.Fprintf(s.out, "%s %s\n", frame, text)
}

func (s *Spinner) finish(mark, text string) {
	if s.inline && s.active {
		fmt.Fprint(s.out, clearLine)
	}
	s.active = false
	fmt.Fprintf(s.out, "%s %s\n", mark, text)
}

// Discard is a Reporter that drops everything.
type Discard struct{}

func (Discard) Start(string)   {}
func (Discard) Update(string)  {}
func (Discard) Success(string) {}
func (Discard) Fail(string)    {}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
