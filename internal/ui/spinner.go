package ui

import (
	"fmt"
	"io"
	"os"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner animates a loading indicator for non-TUI commands (catalog sync,
// definition resolution during open). The builder TUI uses the bubbles
// spinner model instead.
type Spinner struct {
	msg      string
	out      io.Writer
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// NewSpinner creates a spinner writing to stdout.
func NewSpinner(msg string) *Spinner {
	return &Spinner{
		msg:      msg,
		out:      os.Stdout,
		interval: spinnerInterval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins the animation. The line is redrawn in place until Stop and
// cleared on the way out.
func (s *Spinner) Start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		frame := 0
		s.draw(frame)
		for {
			select {
			case <-s.stop:
				fmt.Fprintf(s.out, "\r%-60s\r", "")
				return
			case <-ticker.C:
				frame++
				s.draw(frame)
			}
		}
	}()
}

func (s *Spinner) draw(frame int) {
	glyph := StyleNetwork.Render(spinnerFrames[frame%len(spinnerFrames)])
	fmt.Fprintf(s.out, "\r%s  %s", glyph, s.msg)
}

// Stop halts the spinner and waits for the line to be cleared.
func (s *Spinner) Stop() {
	close(s.stop)
	<-s.done
}
