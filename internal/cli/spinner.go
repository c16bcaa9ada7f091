package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner draws a progress line on w while a Graphviz preview renders.
// Nothing is drawn before showAfter, so fast (or cached) renders leave
// the terminal untouched.
type spinner struct {
	w         io.Writer
	message   string
	showAfter time.Duration
	interval  time.Duration

	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
	start   time.Time
	elapsed time.Duration

	mu    sync.Mutex
	width int // columns written by the last frame; 0 if nothing is shown
}

func newSpinner(parent context.Context, w io.Writer, message string) *spinner {
	ctx, cancel := context.WithCancel(parent)
	return &spinner{
		parent:    parent,
		w:         w,
		message:   message,
		showAfter: 250 * time.Millisecond,
		interval:  80 * time.Millisecond,
		ctx:       ctx,
		cancel:    cancel,
		stopped:   make(chan struct{}),
	}
}

// Start begins the animation in a goroutine.
func (s *spinner) Start() {
	s.start = time.Now()
	go func() {
		defer close(s.stopped)

		select {
		case <-s.ctx.Done():
			return
		case <-time.After(s.showAfter):
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for i := 0; ; i++ {
			s.draw(spinnerFrames[i%len(spinnerFrames)])
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func (s *spinner) draw(frame string) {
	secs := fmt.Sprintf("%.1fs", time.Since(s.start).Seconds())

	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s %s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message), StyleDim.Render(secs))
	s.width = len([]rune(frame)) + len([]rune(s.message)) + len(secs) + 2
}

// Stop ends the animation, clears the line and returns the time since
// Start. It is safe to call more than once.
func (s *spinner) Stop() time.Duration {
	s.once.Do(func() {
		s.elapsed = time.Since(s.start)
		s.cancel()
		<-s.stopped

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.width > 0 {
			fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
			s.width = 0
		}
	})
	return s.elapsed
}

// Cancelled reports whether the parent context ended the spinner.
func (s *spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
