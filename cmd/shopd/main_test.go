package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Gobd/apicontract/internal/config"
	"github.com/Gobd/apicontract/internal/pricing"
	"github.com/Gobd/apicontract/internal/store"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "shopd version 0.1.0 (build: dev)\n", out)
}

func TestSchemasListsCatalog(t *testing.T) {
	out, err := execute(t, "schemas")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "PaginationQuery", lines[0])
	assert.Contains(t, lines, "CreateOrderInput")
	assert.Contains(t, lines, "PaginatedUsers")
}

func TestContract(t *testing.T) {
	out, err := execute(t, "contract", "LoginInput")
	require.NoError(t, err)
	assert.Contains(t, out, "name: LoginInput")
	assert.Contains(t, out, "name: password")

	_, err = execute(t, "contract", "Nope")
	require.Error(t, err)
	assert.Equal(t, "undefined schema: Nope", err.Error())

	_, err = execute(t, "contract")
	assert.Error(t, err)
}

func TestGenTypes(t *testing.T) {
	out, err := execute(t, "gen-types", "--package", "shop", "Address")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "// Code generated by shopd gen-types. DO NOT EDIT."))
	assert.Contains(t, out, "package shop")
	assert.Contains(t, out, "type Address struct {")
	assert.Contains(t, out, "PostalCode string `json:\"postalCode\"`")
}

func TestOpenAPI(t *testing.T) {
	out, err := execute(t, "openapi")
	require.NoError(t, err)
	doc, err := openapi3.NewLoader().LoadFromData([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "Shop API", doc.Info.Title)

	path := filepath.Join(t.TempDir(), "openapi.yaml")
	_, err = execute(t, "openapi", "-o", path)
	require.NoError(t, err)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "openapi: 3.0.3")
}

func TestServeRejectsMissingConfig(t *testing.T) {
	err := serve(context.Background(), &rootOptions{configPath: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPricingPolicy(t *testing.T) {
	st := store.NewMemory()
	cfg := config.Default()

	p, err := pricingPolicy(cfg, st)
	require.NoError(t, err)
	assert.Equal(t, pricing.NoDiscount{}, p.Discounter)
	assert.True(t, decimal.RequireFromString("0.1").Equal(p.TaxRate))

	cfg.Coupons = map[string]float64{"SAVE10": 10}
	p, err = pricingPolicy(cfg, st)
	require.NoError(t, err)
	got := p.Discounter.Discount("save10", decimal.NewFromInt(200))
	assert.True(t, decimal.NewFromInt(20).Equal(got), got.String())

	cfg.Coupons = map[string]float64{"SAVE10": 10, "Save10": 15}
	_, err = pricingPolicy(cfg, st)
	assert.ErrorIs(t, err, pricing.ErrDuplicateCoupon)
}
