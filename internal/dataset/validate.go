package dataset

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("dataset not found")

// ValidationError marks user-input precondition failures so the API layer can
// answer with a 4xx instead of a 5xx.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError from a format string.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// RequireColumns checks that every named column is present.
func RequireColumns(f *Frame, names ...string) error {
	var missing []string
	for _, name := range names {
		if !f.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return NewValidationError("missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ValidateProtectedAttribute checks the three preconditions a protected
// attribute must satisfy before any metric is computed: the column exists, it
// has at least one present value, and it has at least two distinct values.
func ValidateProtectedAttribute(f *Frame, attr string) error {
	col, ok := f.Column(attr)
	if !ok {
		return NewValidationError("protected attribute '%s' not found in dataset", attr)
	}

	distinct := make(map[string]struct{})
	for r := 0; r < f.rows; r++ {
		if col.Missing[r] {
			continue
		}
		distinct[col.Values[r]] = struct{}{}
	}

	if len(distinct) == 0 {
		return NewValidationError("protected attribute '%s' has no valid values", attr)
	}
	if len(distinct) < 2 {
		return NewValidationError("protected attribute '%s' must have at least 2 unique values", attr)
	}
	return nil
}
