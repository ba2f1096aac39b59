package apicontract

import (
	"reflect"
	"slices"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrKeyNotAllowed is reported by [KeyIn] for the first disallowed key.
var ErrKeyNotAllowed = validation.NewError("validation_key_in_invalid", "key '{{.key}}' not allowed")

type keyInRule struct {
	values []string
}

// KeyIn restricts the keys of a record to values. Keys are checked in
// sorted order so the reported key is stable.
func KeyIn(values ...string) Rule {
	return &keyInRule{values: values}
}

func (r *keyInRule) Validate(value any) error {
	keys, ok := mapKeys(value)
	if !ok {
		return validation.NewError("validation_map_required", "must be a map")
	}
	slices.Sort(keys)
	for _, k := range keys {
		if !slices.Contains(r.values, k) {
			return ErrKeyNotAllowed.SetParams(map[string]any{"key": k})
		}
	}
	return nil
}

func (r *keyInRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	appendDescription(ref.Value, "keys must be in ("+strings.Join(r.values, ",")+")")
	return nil
}

func mapKeys(value any) ([]string, bool) {
	if m, ok := value.(map[string]any); ok {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		return keys, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	return keys, true
}
