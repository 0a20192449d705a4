package dataset

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationError is one record field that failed a load-boundary check.
type ValidationError struct {
	File  string
	Index int
	Field string
	Rule  string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s[%d]: field '%s' failed '%s'", e.File, e.Index, e.Field, e.Rule)
}

// ValidationErrors collects every failed check of one file.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	switch len(ve) {
	case 0:
		return "validation failed"
	case 1:
		return "validation failed: " + ve[0].Error()
	default:
		return fmt.Sprintf("validation failed: %s (and %d more)", ve[0].Error(), len(ve)-1)
	}
}

func toValidationErrors(file string, index int, err error) ValidationErrors {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{File: file, Index: index, Field: "", Rule: err.Error()}}
	}
	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			File:  file,
			Index: index,
			Field: fe.Namespace(),
			Rule:  fe.Tag(),
		})
	}
	return out
}
