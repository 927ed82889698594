// Package validation wraps go-playground/validator for the handful of input
// shapes the service layer checks: email addresses, URLs, and topic names.
package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// topicNameRe permits letters, digits, and single internal spaces. The
// validator library has no tag for this, so it stays a plain regexp.
var topicNameRe = regexp.MustCompile(`^[\p{L}\p{N}]+( [\p{L}\p{N}]+)*$`)

// Validator bundles the validator instance so services can share one
// configured copy instead of re-building tag caches per call.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator.
func New() *Validator {
	return &Validator{v: validator.New()}
}

// Email reports whether s is a plausible email address.
func (va *Validator) Email(s string) bool {
	return va.v.Var(s, "required,email") == nil
}

// URL reports whether s passes URL-shape validation. Empty strings are not
// valid — callers treat an absent URL as "no URL", not as a bad one.
func (va *Validator) URL(s string) bool {
	return va.v.Var(s, "required,http_url") == nil
}

// Empty reports whether s is empty after trimming whitespace.
func (va *Validator) Empty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// TopicName reports whether s is an acceptable topic name.
func (va *Validator) TopicName(s string) bool {
	return topicNameRe.MatchString(s)
}
