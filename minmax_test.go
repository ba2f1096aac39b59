package apicontract

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMinMax(t *testing.T) {
	minTests := []struct {
		min         any
		value       any
		expectError bool
	}{
		{min: 0, value: 1.0, expectError: false},
		{min: 0, value: 0.0, expectError: false},
		{min: 1, value: 0.0, expectError: true}, // zero is checked, not skipped
		{min: 0, value: -1.0, expectError: true},
		{min: 0.5, value: 1, expectError: false},
		{min: 0, value: "1", expectError: true},
		{min: 0, value: json.Number("1"), expectError: false},
	}
	for _, tt := range minTests {
		t.Run(fmt.Sprintf("min:%v,v:%v", tt.min, tt.value), func(t *testing.T) {
			r := Min(tt.min)
			err := r.Validate(tt.value)
			if tt.expectError {
				require.NotNil(t, err)
			} else {
				require.Nil(t, err)
			}
		})
	}

	maxTests := []struct {
		max         any
		value       any
		expectError bool
	}{
		{max: 2, value: 2.0, expectError: false},
		{max: 2, value: 3.0, expectError: true},
		{max: 5.5, value: 5.6, expectError: true},
		{max: 5.5, value: 5.5, expectError: false},
	}
	for _, tt := range maxTests {
		t.Run(fmt.Sprintf("max:%v,v:%v", tt.max, tt.value), func(t *testing.T) {
			r := Max(tt.max)
			err := r.Validate(tt.value)
			if tt.expectError {
				require.NotNil(t, err)
			} else {
				require.Nil(t, err)
			}
		})
	}
}

func TestPositive(t *testing.T) {
	require.Nil(t, Positive.Validate(0.01))

	err := Positive.Validate(0.0)
	require.NotNil(t, err)
	require.Equal(t, "must be greater than 0", err.Error())

	require.NotNil(t, Positive.Validate(-3))
}

func TestMinMessage(t *testing.T) {
	err := Min(0).Validate(-1.0)
	require.Equal(t, "must be no less than 0", err.Error())

	err = Max(100).Validate(101.0)
	require.Equal(t, "must be no greater than 100", err.Error())
}

func TestMinPanicsOnNonNumericThreshold(t *testing.T) {
	require.Panics(t, func() { Min("1") })
}
