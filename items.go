package apicontract

import (
	"reflect"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	// ErrTooFewItems is returned by [MinItems].
	ErrTooFewItems = validation.NewError("validation_min_items", "must contain at least {{.min}} item(s)")
	// ErrTooManyItems is returned by [MaxItems].
	ErrTooManyItems = validation.NewError("validation_max_items", "must contain no more than {{.max}} item(s)")
)

type itemsRule struct {
	n   int
	min bool
}

// MinItems checks a collection holds at least n elements.
func MinItems(n int) Rule { return itemsRule{n: n, min: true} }

// MaxItems checks a collection holds at most n elements.
func MaxItems(n int) Rule { return itemsRule{n: n} }

func (r itemsRule) Validate(value any) error {
	rv := reflect.Indirect(reflect.ValueOf(value))
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
	default:
		return validation.NewError("validation_collection_required", "must be a collection")
	}
	l := rv.Len()
	if r.min && l < r.n {
		return ErrTooFewItems.SetParams(map[string]any{"min": r.n})
	}
	if !r.min && l > r.n {
		return ErrTooManyItems.SetParams(map[string]any{"max": r.n})
	}
	return nil
}

func (r itemsRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	if r.min {
		ref.Value.MinItems = uint64(r.n)
	} else {
		n := uint64(r.n)
		ref.Value.MaxItems = &n
	}
	return nil
}

// isCardinality reports whether r (or the rule it wraps) is a MinItems or
// MaxItems rule.
func isCardinality(r Rule) bool {
	for {
		switch v := r.(type) {
		case itemsRule:
			return true
		case interface{ unwrap() Rule }:
			r = v.unwrap()
		default:
			return false
		}
	}
}
