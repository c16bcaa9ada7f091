package errors

import (
	"strings"
	"unicode"
)

// maxTokenLength bounds vertex ids and style tokens.
const maxTokenLength = 256

// ValidateVertexID validates a vertex id for use as a TikZ node name.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - No control characters
//   - No characters that terminate a node name in TikZ: ( ) { } ; and
//     the coordinate separator ","
//   - Maximum length of 256 characters
func ValidateVertexID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "vertex id cannot be empty")
	}

	if len(id) > maxTokenLength {
		return New(ErrCodeInvalidInput, "vertex id too long (max %d characters)", maxTokenLength).With("id", id)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "vertex id contains control characters").With("id", id)
		}
	}

	if strings.ContainsAny(id, "(){};,") {
		return New(ErrCodeInvalidInput, "vertex id %q contains reserved characters", id).With("id", id)
	}

	return nil
}

// ValidateStyleToken validates a style token before it is spliced into an
// option list such as [style=...]. Tokens are otherwise free-form: the
// document template decides which names exist.
func ValidateStyleToken(style string) error {
	if len(style) > maxTokenLength {
		return New(ErrCodeInvalidStyle, "style too long (max %d characters)", maxTokenLength).With("style", style)
	}

	for _, r := range style {
		if r == '\n' || r == '\r' || unicode.IsControl(r) {
			return New(ErrCodeInvalidStyle, "style contains control characters").With("style", style)
		}
	}

	depth := 0
	for _, r := range style {
		switch r {
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth < 0 {
				return New(ErrCodeInvalidStyle, "style %q has unbalanced brackets", style).With("style", style)
			}
		case ';':
			return New(ErrCodeInvalidStyle, "style %q contains ';'", style).With("style", style)
		}
	}
	if depth != 0 {
		return New(ErrCodeInvalidStyle, "style %q has unbalanced brackets", style).With("style", style)
	}

	return nil
}

// ValidateFormat checks a requested output format against the allowed set.
func ValidateFormat(format string, allowed []string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "invalid format: %s (must be one of %s)", format, strings.Join(allowed, ", ")).
		With("format", format)
}

// ValidateLabel validates node text before it is placed between the braces
// of \node ... {label}. Braces must balance, ignoring the escapes \{ and \}.
func ValidateLabel(label string) error {
	depth := 0
	escaped := false
	for _, r := range label {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '{':
			depth++
		case r == '}':
			depth--
			if depth < 0 {
				return New(ErrCodeInvalidInput, "label %q closes a brace it never opened", label).With("label", label)
			}
		}
	}
	if depth != 0 {
		return New(ErrCodeInvalidInput, "label %q leaves %d brace(s) open", label, depth).With("label", label)
	}
	return nil
}
