package errors

import (
	"strings"
	"testing"
)

func TestValidateVertexID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"numeric", "0", false},
		{"suffixed", "3XX", false},
		{"signed axis", "-X", false},
		{"ruling", "Rlx10", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"parenthesis", "a(b)", true},
		{"brace", "a{b}", true},
		{"semicolon", "a;b", true},
		{"comma", "1,2", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVertexID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateVertexID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateVertexID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateStyleToken(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty inherits", "", false},
		{"named", "blstyle", false},
		{"with options", "red, opacity = 0.5", false},
		{"dash pattern", "blue, line width = 2, dash pattern=on 8pt off 4pt", false},
		{"nested braces", "decoration={markings,mark=at position .5 with {\\draw (0,-0.1) -- (0,0.1);}}", true},
		{"balanced braces", "label={[blue]above:x}", false},

		{"newline", "red\n", true},
		{"unbalanced close", "red]", true},
		{"unbalanced open", "red[", true},
		{"semicolon", "red; \\draw", true},
		{"too long", strings.Repeat("x", 300), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStyleToken(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStyleToken(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	allowed := []string{"tikz", "tex", "dot"}

	if err := ValidateFormat("tikz", allowed); err != nil {
		t.Errorf("ValidateFormat(tikz) = %v, want nil", err)
	}

	err := ValidateFormat("pdf", allowed)
	if err == nil {
		t.Fatal("ValidateFormat(pdf) should fail")
	}
	if !Is(err, ErrCodeInvalidFormat) {
		t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidFormat)
	}
	if !strings.Contains(err.Error(), "tikz, tex, dot") {
		t.Errorf("message should list allowed formats: %v", err)
	}
}

func TestValidateLabel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"math", `$\mathcal{P}(\mathcal{B})$`, false},
		{"nested", `$x^{y_{2}}$`, false},
		{"escaped open", `$\{1,2$`, false},
		{"escaped pair", `\{a\}`, false},

		{"unclosed", `$x^{2$`, true},
		{"stray close", `a}b{`, true},
		{"escaped backslash then brace", `\\}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLabel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLabel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateLabel(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}
