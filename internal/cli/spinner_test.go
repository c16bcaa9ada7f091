package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinner_QuietWhenFast(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Rendering preview")
	s.Start()
	if elapsed := s.Stop(); elapsed <= 0 {
		t.Errorf("elapsed = %v, want > 0", elapsed)
	}
	if buf.Len() != 0 {
		t.Errorf("fast spinner wrote %q", buf.String())
	}
}

func TestSpinner_DrawsAndClears(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Rendering preview")
	s.showAfter = 0
	s.interval = 5 * time.Millisecond
	s.Start()
	time.Sleep(30 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Rendering preview") {
		t.Errorf("spinner never drew its message: %q", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("spinner did not clear its line: %q", out)
	}
}

func TestSpinner_StopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), &bytes.Buffer{}, "x")
	s.Start()
	first := s.Stop()
	if second := s.Stop(); second != first {
		t.Errorf("second Stop = %v, want %v", second, first)
	}
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinner_ParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, &bytes.Buffer{}, "x")
	s.Start()
	cancel()
	s.Stop()
	if !s.Cancelled() {
		t.Error("spinner should report cancellation by its parent context")
	}
}
