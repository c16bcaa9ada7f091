package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeVertexNotFound, "vertex %q not found", "a")

	if err.Code != ErrCodeVertexNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeVertexNotFound)
	}

	if err.Message != `vertex "a" not found` {
		t.Errorf("Message = %v, want %v", err.Message, `vertex "a" not found`)
	}

	expected := `VERTEX_NOT_FOUND: vertex "a" not found`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("broken pipe")
	err := Wrap(ErrCodeIO, cause, "write picture")

	if err.Code != ErrCodeIO {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeIO)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	if err.Error() != "IO_ERROR: write picture: broken pipe" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestSentinelMatchesByCode(t *testing.T) {
	sentinel := Sentinel(ErrCodeDuplicateVertex)
	err := fmt.Errorf("add vertex: %w", New(ErrCodeDuplicateVertex, "vertex %q already exists", "0"))

	if !errors.Is(err, sentinel) {
		t.Error("errors.Is should match a sentinel with the same code")
	}
	if errors.Is(err, Sentinel(ErrCodeVertexNotFound)) {
		t.Error("errors.Is should not match a sentinel with a different code")
	}
	if sentinel.Error() != "DUPLICATE_VERTEX" {
		t.Errorf("sentinel Error() = %q", sentinel.Error())
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeIO,
			expected: false,
		},
		{
			name:     "outer code",
			err:      Wrap(ErrCodeInvalidScene, New(ErrCodeInvalidBasis, "inner"), "outer"),
			code:     ErrCodeInvalidScene,
			expected: true,
		},
		{
			name:     "inner code",
			err:      Wrap(ErrCodeInvalidScene, New(ErrCodeInvalidBasis, "inner"), "outer"),
			code:     ErrCodeInvalidBasis,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidShape, "test"),
			expected: ErrCodeInvalidShape,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDetails(t *testing.T) {
	err := New(ErrCodeInvalidShape, "circle needs a radius").
		With("kind", "circle").
		With("radius", -1.0)

	d := Details(fmt.Errorf("decorate: %w", err))
	if d["kind"] != "circle" {
		t.Errorf("kind = %v, want circle", d["kind"])
	}

	kv := err.KeyVals()
	if len(kv) != 4 || kv[0] != "kind" || kv[2] != "radius" {
		t.Errorf("KeyVals() = %v, want sorted pairs", kv)
	}

	if Details(errors.New("plain")) != nil {
		t.Error("Details of a plain error should be nil")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "sentinel",
			err:      Sentinel(ErrCodeLimitExceeded),
			expected: "LIMIT_EXCEEDED",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}
