package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	v "github.com/Gobd/apicontract"
	"github.com/Gobd/apicontract/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shopd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	c := config.Default()
	assert.Equal(t, ":3001", c.Addr)
	assert.Equal(t, "development", c.Env)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, config.DB{Driver: "memory", DSN: "shop.db"}, c.DB)
	assert.Equal(t, []string{"http://localhost:3000"}, c.CORSOrigins)
	assert.InDelta(t, 0.1, c.TaxRate, 1e-9)
	assert.Equal(t, 10*time.Second, c.Shutdown())
	assert.False(t, c.Production())
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
addr: ":8080"
env: production
db:
  driver: sqlite
  dsn: /var/lib/shop/shop.db
taxRate: 0.2
coupons:
  SAVE10: 10
shutdownTimeout: 30s
`)
	c, err := config.Load(path, env(nil))
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.Addr)
	assert.True(t, c.Production())
	assert.Equal(t, config.DB{Driver: "sqlite", DSN: "/var/lib/shop/shop.db"}, c.DB)
	assert.InDelta(t, 0.2, c.TaxRate, 1e-9)
	assert.Equal(t, map[string]float64{"SAVE10": 10}, c.Coupons)
	assert.Equal(t, 30*time.Second, c.Shutdown())
}

func TestEnvironmentOverrides(t *testing.T) {
	path := writeFile(t, "db:\n  driver: sqlite\n  dsn: file.db\n")
	c, err := config.Load(path, env(map[string]string{
		"PORT":              "9000",
		"SHOP_DB_DSN":       "env.db",
		"SHOP_CORS_ORIGINS": "https://a.example, https://b.example,",
		"SHOP_LOG_LEVEL":    "debug",
		"SHOP_TAX_RATE":     "0.07",
		"APP_ENV":           "test",
	}))
	require.NoError(t, err)
	assert.Equal(t, ":9000", c.Addr)
	assert.Equal(t, config.DB{Driver: "sqlite", DSN: "env.db"}, c.DB)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.CORSOrigins)
	assert.Equal(t, "debug", c.LogLevel)
	assert.InDelta(t, 0.07, c.TaxRate, 1e-9)
	assert.Equal(t, "test", c.Env)

	c, err = config.Load("", env(map[string]string{"PORT": "9000", "SHOP_ADDR": "127.0.0.1:7000"}))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", c.Addr)
}

func TestInvalidConfig(t *testing.T) {
	path := writeFile(t, `
db:
  driver: postgres
  host: localhost
taxRate: 1.5
shutdownTimeout: soon
verbose: true
`)
	_, err := config.Load(path, env(nil))
	require.Error(t, err)

	var ve *v.ValidationError
	require.True(t, errors.As(err, &ve))
	var got []string
	for _, vio := range ve.Violations {
		got = append(got, vio.String())
	}
	assert.Equal(t, []string{
		"db.driver: must be one of 'memory', 'sqlite' got 'postgres'",
		"db.host: unknown field",
		"taxRate: must be no greater than 1",
		"shutdownTimeout: must be a positive duration such as 10s",
		"verbose: unknown field",
	}, got)

	_, err = config.Load("", env(map[string]string{"SHOP_TAX_RATE": "lots"}))
	assert.ErrorContains(t, err, "taxRate: expected number got string")
}

func TestMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"), env(nil))
	require.ErrorIs(t, err, os.ErrNotExist)
}
