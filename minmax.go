package apicontract

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type thresholdRule struct {
	threshold float64
	min       bool
	exclusive bool
	err       validation.Error
}

// Min returns a rule that checks a number is greater than or equal to threshold.
// The threshold may be any numeric type; anything else panics.
func Min(threshold any) Rule {
	return thresholdRule{
		threshold: mustFloat(threshold),
		min:       true,
		err:       validation.ErrMinGreaterEqualThanRequired,
	}
}

// Max returns a rule that checks a number is less than or equal to threshold.
func Max(threshold any) Rule {
	return thresholdRule{
		threshold: mustFloat(threshold),
		err:       validation.ErrMaxLessEqualThanRequired,
	}
}

// Positive checks a number is strictly greater than zero.
var Positive Rule = thresholdRule{
	min:       true,
	exclusive: true,
	err:       validation.ErrMinGreaterThanRequired,
}

func (r thresholdRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	f := r.threshold
	if r.min {
		ref.Value.Min = &f
		ref.Value.ExclusiveMin = r.exclusive
	} else {
		ref.Value.Max = &f
		ref.Value.ExclusiveMax = r.exclusive
	}
	return nil
}

// Validate checks if the given value is valid or not.
func (r thresholdRule) Validate(value any) error {
	f, err := getFloat(value)
	if err != nil {
		return err
	}
	var ok bool
	switch {
	case r.min && r.exclusive:
		ok = f > r.threshold
	case r.min:
		ok = f >= r.threshold
	case r.exclusive:
		ok = f < r.threshold
	default:
		ok = f <= r.threshold
	}
	if ok {
		return nil
	}
	return r.err.SetParams(map[string]any{"threshold": r.threshold})
}

var floatType = reflect.TypeOf(float64(0))

func getFloat(unk any) (float64, error) {
	if n, ok := unk.(json.Number); ok {
		return n.Float64()
	}
	v := reflect.Indirect(reflect.ValueOf(unk))
	if !v.IsValid() {
		return 0, fmt.Errorf("cannot convert %T to float64", unk)
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return v.Convert(floatType).Float(), nil
	}
	return 0, fmt.Errorf("cannot convert %v to float64", v.Type())
}

func mustFloat(unk any) float64 {
	f, err := getFloat(unk)
	if err != nil {
		panic("apicontract: threshold: " + err.Error())
	}
	return f
}
