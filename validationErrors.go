package apicontract

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ValidationErrors is a map of field paths to their validation errors.
// It is an alias for [validation.Errors] from ozzo-validation and implements
// the error interface with a JSON-friendly string representation.
type ValidationErrors = validation.Errors

// ValidationError is returned for input that does not satisfy a schema.
type ValidationError struct {
	Schema     string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	prefix := "validation failed"
	if e.Schema != "" {
		prefix += " for " + e.Schema
	}
	return prefix + ": " + e.Errors().Error()
}

// Errors groups the violations by path. Several messages on one path are
// joined with "; ".
func (e *ValidationError) Errors() ValidationErrors {
	msgs := map[string][]string{}
	for _, v := range e.Violations {
		msgs[v.Path] = append(msgs[v.Path], v.Message)
	}
	errs := make(ValidationErrors, len(msgs))
	for path, m := range msgs {
		errs[path] = errors.New(strings.Join(m, "; "))
	}
	return errs
}
