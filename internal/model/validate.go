package model

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// ValidationError rejects a record before any store is touched.
// These are the only errors surfaced synchronously to callers; storage
// failures degrade instead (see the engine package).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// FoldName canonicalizes an exercise name for case-insensitive comparison:
// NFC normalization followed by Unicode case folding, so "Squat", "squat"
// and decomposed forms all collide.
func FoldName(name string) string {
	return cases.Fold().String(norm.NFC.String(name))
}

// ValidateExercise checks a new exercise against the current set.
func ValidateExercise(e Exercise, existing []Exercise) error {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return &ValidationError{Field: "name", Message: "exercise name is required"}
	}
	folded := FoldName(name)
	for _, ex := range existing {
		if FoldName(ex.Name) == folded {
			return &ValidationError{Field: "name", Message: fmt.Sprintf("exercise %q already exists", ex.Name)}
		}
	}
	return nil
}

// ValidatePREntry checks required fields and value ranges.
func ValidatePREntry(e PREntry) error {
	if strings.TrimSpace(e.Exercise) == "" {
		return &ValidationError{Field: "exercise", Message: "exercise is required"}
	}
	if e.Date.IsZero() {
		return &ValidationError{Field: "date", Message: "date is required"}
	}
	if e.Weight <= 0 {
		return &ValidationError{Field: "weight", Message: "weight must be positive"}
	}
	if e.Reps < 0 {
		return &ValidationError{Field: "reps", Message: "reps must be positive when given"}
	}
	return nil
}

// ValidateWeightEntry checks required fields and value ranges.
func ValidateWeightEntry(e WeightEntry) error {
	if e.Date.IsZero() {
		return &ValidationError{Field: "date", Message: "date is required"}
	}
	if e.Weight <= 0 {
		return &ValidationError{Field: "weight", Message: "weight must be positive"}
	}
	return nil
}
