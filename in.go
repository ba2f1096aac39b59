package apicontract

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// In returns a validation rule that checks if a value is one of the allowed values.
func In(values ...any) Rule {
	want := make([]string, len(values))
	for i := range values {
		want[i] = fmt.Sprintf("'%v'", values[i])
	}
	return &inRule{
		validation.ErrInInvalid.SetMessage(fmt.Sprintf("must be one of %s", strings.Join(want, ", "))),
		values,
	}
}

// inRule is a validation rule that validates if a value can be found in the given list of values.
type inRule struct {
	err    validation.Error
	values []any
}

func (r *inRule) Validate(value any) error {
	for _, v := range r.values {
		if reflect.DeepEqual(v, value) {
			return nil
		}
	}
	return r.err.SetMessage(fmt.Sprintf("%s got '%v'", r.err.Message(), value))
}

func (r *inRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.Enum = r.values
	return nil
}
