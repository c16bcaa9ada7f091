package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/texgraph/pkg/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, exitOK},
		{"interrupted", fmt.Errorf("build: %w", context.Canceled), exitCanceled},
		{"bad scene", fmt.Errorf("build: %w", errors.New(errors.ErrCodeInvalidScene, "unknown key")), exitRejected},
		{"bad style", errors.New(errors.ErrCodeInvalidStyle, "glow"), exitRejected},
		{"limit", errors.New(errors.ErrCodeLimitExceeded, "too many"), exitFailure},
		{"plain", stderrors.New("boom"), exitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRun_RejectedScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[[graph]]\ncolour = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var stderr strings.Builder
	if got := run(context.Background(), []string{"render", "--no-cache", "-q", path}, &stderr); got != exitRejected {
		t.Errorf("run() = %d, want %d (stderr %s)", got, exitRejected, stderr.String())
	}
	if !strings.Contains(stderr.String(), "colour") {
		t.Errorf("stderr does not name the bad key:\n%s", stderr.String())
	}
}

func TestRun_VerboseAndQuietConflict(t *testing.T) {
	var stderr strings.Builder
	if got := run(context.Background(), []string{"-v", "-q", "styles"}, &stderr); got != exitFailure {
		t.Errorf("run() = %d, want %d", got, exitFailure)
	}
}
