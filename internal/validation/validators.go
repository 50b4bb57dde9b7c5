// Package validation holds field-level sanitizing and bound-checking
// helpers used by the domain constructors (participant and institution
// free-text fields), generalized from the teacher's Kubernetes-resource validators to
// OlympiadQR's free-text and numeric fields.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/olympiadqr/olympiadqr/internal/opwrap"
)

var (
	unsafePattern = regexp.MustCompile(`(?i)(union\s+select|--|<script|;\s*drop\s+table|'\s*or\s*'1'\s*=\s*'1)`)
	emailPattern  = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)
)

// ValidateStringInput rejects overlong input, SQL/script-injection
// patterns, and non-whitespace control characters. Tab/newline/CR are
// allowed since free-text fields (audit details, institution names) may
// legitimately contain them.
func ValidateStringInput(field, value string, maxLen int) error {
	if len(value) > maxLen {
		return fmt.Errorf("%s must be %d characters or less", field, maxLen)
	}
	if unsafePattern.MatchString(value) {
		return fmt.Errorf("%s contains potentially unsafe characters", field)
	}
	for _, r := range value {
		if unicode.IsControl(r) && r != '\t' && r != '\n' && r != '\r' {
			return fmt.Errorf("%s contains invalid control characters", field)
		}
	}
	return nil
}

// ValidateNonEmpty enforces a minimum length after trimming whitespace.
func ValidateNonEmpty(field, value string, minLen int) error {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) < minLen {
		return fmt.Errorf("%s must be at least %d characters", field, minLen)
	}
	return nil
}

// ValidateEmail requires exactly one "@" with non-empty, whitespace-free
// text on either side of it (emailPattern). It does not attempt full
// RFC 5322 validation.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("email must contain a valid address with '@'")
	}
	return nil
}

// ValidateRange checks an integer lies within [min, max] inclusive.
func ValidateRange(field string, value, min, max int) error {
	if value < min || value > max {
		return fmt.Errorf("%s must be between %d and %d", field, min, max)
	}
	return nil
}

// ValidatePositive checks an integer is strictly greater than zero.
func ValidatePositive(field string, value int) error {
	if value <= 0 {
		return fmt.Errorf("%s must be greater than 0", field)
	}
	return nil
}

// ValidateScore checks a non-negative score against a competition's max.
func ValidateScore(score, maxScore int) error {
	if score < 0 {
		return fmt.Errorf("score must be non-negative")
	}
	if maxScore > 0 && score > maxScore {
		return fmt.Errorf("score must not exceed max_score (%d)", maxScore)
	}
	return nil
}

// ValidateConfidence checks a float lies in [0, 1].
func ValidateConfidence(confidence float64) error {
	if confidence < 0 || confidence > 1 {
		return fmt.Errorf("confidence must be between 0.0 and 1.0")
	}
	return nil
}

// SanitizeForLogging replaces control characters with '?' so free-text
// fields can't inject newlines or escape sequences into log output.
func SanitizeForLogging(input string) string {
	var b strings.Builder
	for _, r := range input {
		if unicode.IsControl(r) {
			b.WriteRune('?')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Combine runs the given validators and joins any failures with opwrap.Chain.
func Combine(errs ...error) error {
	return opwrap.Chain(errs...)
}
