package apicontract

import (
	"regexp"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const cardNumberLength = 16

var (
	// ErrNoAlphabetic is reported by [HasAlphabetic].
	ErrNoAlphabetic = validation.NewError("validation_has_alphabetic", "must contain at least one alphabetic character")
	// ErrCardNumber is reported by [NonCardNumber].
	ErrCardNumber = validation.NewError("validation_card_number", "must not be a credit card number")

	nonAlpha = regexp.MustCompile(`[^[:alpha:]]`)
	nonDigit = regexp.MustCompile(`\D`)
)

type alphabeticRule struct {
	cardCheck bool
}

// HasAlphabetic requires at least one letter in a non-blank string.
func HasAlphabetic() Rule {
	return alphabeticRule{}
}

// NonCardNumber rejects letter-free strings holding exactly sixteen digits,
// so free-text fields cannot carry a pasted card number.
func NonCardNumber() Rule {
	return alphabeticRule{cardCheck: true}
}

func (r alphabeticRule) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_string_required", "must be a string")
	}
	s = strings.TrimSpace(s)
	if s == "" || nonAlpha.ReplaceAllString(s, "") != "" {
		return nil
	}
	if !r.cardCheck {
		return ErrNoAlphabetic
	}
	if len(nonDigit.ReplaceAllString(s, "")) == cardNumberLength {
		return ErrCardNumber
	}
	return nil
}

func (r alphabeticRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	if r.cardCheck {
		appendDescription(ref.Value, "must not be a credit card number")
		return nil
	}
	appendDescription(ref.Value, "must contain at least one alphabetic character")
	return nil
}
