package domainerrors

import (
	"errors"
	"strings"
)

// FieldError reports one input field that failed a rule.
type FieldError struct {
	FieldPath string `json:"field"`
	Message   string `json:"message"`
}

func (e FieldError) Error() string {
	return e.FieldPath + ": " + e.Message
}

// FieldErrors is a complete list of field failures from one validation pass.
// An empty list means the input is valid.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Error()
	}
	return strings.Join(parts, "; ")
}

// Has reports whether any error targets fieldPath.
func (e FieldErrors) Has(fieldPath string) bool {
	for _, fe := range e {
		if fe.FieldPath == fieldPath {
			return true
		}
	}
	return false
}

// Paths lists the failing field paths in order.
func (e FieldErrors) Paths() []string {
	out := make([]string, len(e))
	for i, fe := range e {
		out[i] = fe.FieldPath
	}
	return out
}

// FieldsOf extracts the FieldErrors carried anywhere in err's chain.
func FieldsOf(err error) FieldErrors {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe
	}
	return nil
}
