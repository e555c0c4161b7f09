// Package validate accumulates field-level validation errors for form input.
package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// EmailRX is a basic email shape check; the login handle is email-shaped
// but we do not verify deliverability.
var EmailRX = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

// Validator collects per-field error messages. An empty Errors map means the
// input is valid. The first error recorded for a field wins.
type Validator struct {
	Errors map[string]string
}

func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

func (v *Validator) Valid() bool { return len(v.Errors) == 0 }

func (v *Validator) AddError(field, message string) {
	if _, exists := v.Errors[field]; !exists {
		v.Errors[field] = message
	}
}

// Check records message for field when ok is false.
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// NotBlank reports whether s contains at least one non-space character.
func NotBlank(s string) bool { return strings.TrimSpace(s) != "" }

// MaxRunes reports whether s is at most n runes long.
func MaxRunes(s string, n int) bool { return utf8.RuneCountInString(s) <= n }

// MinRunes reports whether s is at least n runes long.
func MinRunes(s string, n int) bool { return utf8.RuneCountInString(s) >= n }

// In reports whether value equals one of list.
func In(value string, list ...string) bool {
	for _, item := range list {
		if value == item {
			return true
		}
	}
	return false
}

// Matches reports whether value matches rx.
func Matches(value string, rx *regexp.Regexp) bool { return rx.MatchString(value) }
