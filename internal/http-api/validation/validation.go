package validation

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidationError reports caller input that can be fixed by resubmitting.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Fields, ", "))
}

func NewValidationError(message string, fields ...string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

// RequireFields fails when any of names is missing or blank in fields.
// Missing names are reported in the order given.
func RequireFields(fields map[string]string, names ...string) error {
	var missing []string
	for _, name := range names {
		if strings.TrimSpace(fields[name]) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return NewValidationError("missing required fields", missing...)
	}
	return nil
}

// IsValidEmail is a syntactic check only: local@domain.tld, no whitespace,
// a single @ and at least one dot in the domain with non-empty labels around it.
func IsValidEmail(s string) bool {
	if s == "" || strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return false
	}

	local, domain, ok := strings.Cut(s, "@")
	if !ok || local == "" || strings.Contains(domain, "@") {
		return false
	}

	dot := strings.LastIndex(domain, ".")
	if dot <= 0 || dot == len(domain)-1 {
		return false
	}
	return true
}
