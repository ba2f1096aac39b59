package apicontract_test

import (
	"sync"
	"testing"

	v "github.com/Gobd/apicontract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegister(t *testing.T) {
	reg := v.NewRegistry()
	user := reg.Register("CreateUserInput", testUser)
	reg.Register("Address", testAddress)

	assert.Equal(t, "CreateUserInput", user.Name())
	assert.Empty(t, testUser.Name(), "source node is not renamed")
	assert.Equal(t, []string{"CreateUserInput", "Address"}, reg.Names())

	got, err := reg.Get("CreateUserInput")
	require.NoError(t, err)
	assert.Same(t, user, got)
}

func TestRegistryPanics(t *testing.T) {
	reg := v.NewRegistry()
	reg.Register("Address", testAddress)

	assert.Panics(t, func() { reg.Register("Address", testAddress) })
	assert.Panics(t, func() { reg.Register("", testAddress) })
	assert.Panics(t, func() { reg.Register("Nil", nil) })
	assert.Panics(t, func() { reg.MustGet("Missing") })

	reg.Seal()
	assert.Panics(t, func() { reg.Register("Late", testUser) })
}

func TestRegistryUndefined(t *testing.T) {
	reg := v.NewRegistry()

	_, err := reg.Get("Missing")
	require.ErrorIs(t, err, v.ErrUndefinedSchema)
	assert.Equal(t, "undefined schema: Missing", err.Error())

	_, err = reg.Contract("Missing")
	require.ErrorIs(t, err, v.ErrUndefinedSchema)
}

func TestRegistryValidate(t *testing.T) {
	reg := v.NewRegistry()
	reg.Register("Address", testAddress)

	res := reg.Validate("Address", map[string]any{"street": "1 Main St", "city": "X", "country": "USA"})
	require.False(t, res.OK())
	assert.Equal(t, "Address", res.Schema())

	err := res.Err()
	require.Error(t, err)
	assert.Equal(t, "validation failed for Address: country: Use 2-letter country code.", err.Error())

	c, err := reg.Contract("Address")
	require.NoError(t, err)
	assert.Equal(t, "Address", c.Name)
	assert.Len(t, c.Fields, 3)
}

func TestRegistryConcurrentReads(t *testing.T) {
	reg := v.NewRegistry()
	reg.Register("Address", testAddress)
	reg.Seal()

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				assert.True(t, reg.Validate("Address", validAddress()).OK())
			}
		}()
	}
	wg.Wait()
}
