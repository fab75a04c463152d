package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates an indeterminate operation on a single terminal line
type Spinner struct {
	w        io.Writer
	message  string
	interval time.Duration
	noColor  bool

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	stopped chan struct{}
}

// SpinnerOptions configures a Spinner
type SpinnerOptions struct {
	Message  string
	NoColor  bool
	Interval time.Duration
}

// NewSpinner creates a spinner; Interval defaults to 100ms
func NewSpinner(w io.Writer, opts SpinnerOptions) *Spinner {
	if opts.Interval == 0 {
		opts.Interval = 100 * time.Millisecond
	}
	return &Spinner{
		w:        w,
		message:  opts.Message,
		interval: opts.Interval,
		noColor:  opts.NoColor,
	}
}

// Start begins the animation. Starting a running spinner does nothing.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.stopped = make(chan struct{})
	go s.animate(s.stop, s.stopped)
}

// Stop ends the animation and clears the line
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	stopped := s.stopped
	s.mu.Unlock()

	<-stopped
	s.mu.Lock()
	fmt.Fprint(s.w, "\r\033[K")
	s.mu.Unlock()
}

// Success stops the spinner and prints a success line
func (s *Spinner) Success(message string) {
	s.finish(color.New(color.FgGreen, color.Bold), "✓", message)
}

// Error stops the spinner and prints a failure line
func (s *Spinner) Error(message string) {
	s.finish(color.New(color.FgRed, color.Bold), "✗", message)
}

func (s *Spinner) finish(c *color.Color, symbol, message string) {
	s.Stop()
	if s.noColor {
		c.DisableColor()
	}
	s.mu.Lock()
	c.Fprintf(s.w, "%s %s\n", symbol, message)
	s.mu.Unlock()
}

// UpdateMessage changes the text shown next to the spinner
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

func (s *Spinner) animate(stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	cyan := color.New(color.FgCyan)
	if s.noColor {
		cyan.DisableColor()
	}

	for frame := 0; ; frame = (frame + 1) % len(spinnerFrames) {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			cyan.Fprintf(s.w, "\r%s %s", spinnerFrames[frame], s.message)
			s.mu.Unlock()
		}
	}
}

// WithSpinner runs fn while a spinner shows message
func WithSpinner(w io.Writer, message string, noColor bool, fn func() error) error {
	spinner := NewSpinner(w, SpinnerOptions{Message: message, NoColor: noColor})
	spinner.Start()

	if err := fn(); err != nil {
		spinner.Error(message + " failed")
		return err
	}

	spinner.Success(message)
	return nil
}

// Progress renders a determinate progress bar, one step per file
type Progress struct {
	w       io.Writer
	total   int
	current int
	width   int
	noColor bool
	mu      sync.Mutex
}

// NewProgress creates a progress bar of total steps
func NewProgress(w io.Writer, total int, noColor bool) *Progress {
	return &Progress{w: w, total: total, width: 30, noColor: noColor}
}

// Step advances the bar by one and labels it with name
func (p *Progress) Step(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current < p.total {
		p.current++
	}
	p.render(name)
}

// Done finishes the bar with a newline
func (p *Progress) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w)
}

func (p *Progress) render(label string) {
	if p.total == 0 {
		return
	}

	filled := p.width * p.current / p.total
	bar := color.New(color.FgCyan)
	rest := color.New(color.FgHiBlack)
	if p.noColor {
		bar.DisableColor()
		rest.DisableColor()
	}

	fmt.Fprintf(p.w, "\r[%s%s] %d/%d %s",
		bar.Sprint(strings.Repeat("█", filled)),
		rest.Sprint(strings.Repeat("░", p.width-filled)),
		p.current, p.total, label)
}
