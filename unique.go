package apicontract

import (
	"fmt"
	"reflect"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrNotUnique is returned by [Unique] when two elements share a key.
var ErrNotUnique = validation.NewError("validation_not_unique", "not unique")

type uniqueRule struct {
	f    func(elem any) any
	desc string
}

func (r uniqueRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.UniqueItems = true
	if r.desc != "" {
		appendDescription(ref.Value, r.desc)
	}
	return nil
}

// Unique returns a validation rule that checks if all elements in a slice are
// unique according to f. Elements whose key is nil are not compared.
func Unique(f func(elem any) any, desc string) Rule {
	return uniqueRule{
		desc: desc,
		f:    f,
	}
}

// UniqueBy is Unique keyed by the named property of object elements.
func UniqueBy(prop string) Rule {
	return Unique(func(elem any) any {
		if m, ok := elem.(map[string]any); ok {
			return m[prop]
		}
		return nil
	}, "unique by "+prop)
}

// Validate checks if the given value is valid or not.
func (r uniqueRule) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) && rv.IsNil() {
		return nil
	}

	rv = reflect.Indirect(rv)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		seen := make(map[any]struct{}, rv.Len())
		for i := range rv.Len() {
			k := r.f(rv.Index(i).Interface())
			if k == nil {
				continue
			}
			if !reflect.TypeOf(k).Comparable() {
				k = fmt.Sprint(k)
			}
			if _, dup := seen[k]; dup {
				return ErrNotUnique
			}
			seen[k] = struct{}{}
		}
	default:
		return validation.NewError("validation_slice_required", "must be slice")
	}
	return nil
}
