package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// Spinner animates a one-line status on a terminal while a plan is being
// generated. It is for plain CLI output; the TUI draws its own.
type Spinner struct {
	out   io.Writer
	label string
	style spinner.Spinner

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewSpinner returns a spinner writing to stderr.
func NewSpinner(label string) *Spinner {
	return NewSpinnerTo(os.Stderr, label)
}

// NewSpinnerTo returns a spinner writing to w.
func NewSpinnerTo(w io.Writer, label string) *Spinner {
	return &Spinner{out: w, label: label, style: spinner.Dot}
}

// Start begins animating. Calling Start on a running spinner does nothing.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(s.stop, s.done)
}

func (s *Spinner) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	started := time.Now()
	ticker := time.NewTicker(s.style.FPS)
	defer ticker.Stop()

	for frame := 0; ; frame++ {
		elapsed := time.Since(started).Truncate(time.Second)
		fmt.Fprintf(s.out, "\r%s %s %s", StylePrimary.Render(s.style.Frames[frame%len(s.style.Frames)]),
			s.label, StyleSubtle.Render(elapsed.String()))
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

// Stop halts the animation and clears the line. It is safe to call more than once.
func (s *Spinner) Stop() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
	fmt.Fprint(s.out, "\r\033[K")
}
