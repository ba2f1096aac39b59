package apicontract

import (
	"unicode/utf8"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type lengthRule struct {
	validation.LengthRule
	min, max int
	err      validation.Error
}

// Length returns a rule that checks a string's rune length is within [lo, hi].
// A zero hi means no upper bound. Unlike the ozzo rule, the empty string is
// measured too.
func Length(lo, hi int) Rule {
	return &lengthRule{
		validation.RuneLength(lo, hi),
		lo,
		hi,
		lengthError(lo, hi),
	}
}

// MinLength is Length(n, 0).
func MinLength(n int) Rule { return Length(n, 0) }

// MaxLength is Length(0, n).
func MaxLength(n int) Rule { return Length(0, n) }

func lengthError(lo, hi int) validation.Error {
	var err validation.Error
	switch {
	case lo > 0 && lo == hi:
		err = validation.ErrLengthInvalid
	case lo > 0 && hi > 0:
		err = validation.ErrLengthOutOfRange
	case lo > 0:
		err = validation.ErrLengthTooShort
	default:
		err = validation.ErrLengthTooLong
	}
	return err.SetParams(map[string]any{"min": lo, "max": hi})
}

func (r *lengthRule) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return r.LengthRule.Validate(value)
	}
	l := utf8.RuneCountInString(s)
	if l < r.min || r.max > 0 && l > r.max {
		return r.err
	}
	return nil
}

// Describe narrows the documented bounds. Several length rules on one node
// combine to the tightest range, as they do when validating.
func (r *lengthRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	if lo := uint64(r.min); lo > ref.Value.MinLength {
		ref.Value.MinLength = lo
	}
	if r.max > 0 {
		hi := uint64(r.max)
		if ref.Value.MaxLength == nil || hi < *ref.Value.MaxLength {
			ref.Value.MaxLength = &hi
		}
	}
	return nil
}
