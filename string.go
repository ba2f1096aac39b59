package apicontract

import (
	"regexp"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// stringRule checks a string with a predicate. The empty string is checked
// like any other value.
type stringRule struct {
	validate func(string) bool
	err      validation.Error
	desc     string
	format   string
	pattern  string
}

var (
	// Email checks a string is an email address.
	Email Rule = stringRule{validate: govalidator.IsEmail, err: is.ErrEmail, format: "email"}
	// UUID checks a string is a UUID of any version.
	UUID Rule = stringRule{validate: isUUID, err: is.ErrUUID, format: "uuid"}
)

func isUUID(s string) bool {
	return govalidator.IsUUID(strings.ToLower(s))
}

// NewStringRuleWithError returns a string validation rule with a custom error and schema description.
func NewStringRuleWithError(validator func(string) bool, err validation.Error, desc string) Rule {
	return stringRule{validate: validator, err: err, desc: desc}
}

// NewStringRule returns a string validation rule using desc as both the error message and schema description.
func NewStringRule(validator func(string) bool, desc string) Rule {
	return stringRule{
		validate: validator,
		err:      validation.NewError("validation_string_invalid", desc),
		desc:     desc,
	}
}

// Match returns a rule that checks a string contains a match of re.
func Match(re *regexp.Regexp) Rule {
	return stringRule{
		validate: re.MatchString,
		err:      validation.ErrMatchInvalid,
		pattern:  re.String(),
	}
}

func (r stringRule) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_string_required", "must be a string")
	}
	if r.validate(s) {
		return nil
	}
	return r.err
}

func (r stringRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	if r.format != "" {
		ref.Value.Format = r.format
	}
	// OpenAPI 3.0 allows one pattern per schema.
	switch {
	case r.pattern == "":
	case ref.Value.Pattern == "":
		ref.Value.Pattern = r.pattern
	default:
		appendDescription(ref.Value, "pattern "+r.pattern)
	}
	if r.desc != "" {
		appendDescription(ref.Value, r.desc)
	}
	return nil
}

func appendDescription(s *openapi3.Schema, desc string) {
	if s.Description != "" && !strings.HasSuffix(s.Description, " ") {
		s.Description += " "
	}
	s.Description += desc
}
