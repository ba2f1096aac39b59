// Package config loads the shopd configuration from an optional YAML file
// and the environment. The merged document is validated with the same
// schema kernel that guards the API, so a bad setting fails start-up with a
// path and a message.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	v "github.com/Gobd/apicontract"
	"gopkg.in/yaml.v3"
)

// Config is the validated configuration.
type Config struct {
	Addr            string             `json:"addr"`
	Env             string             `json:"env"`
	LogLevel        string             `json:"logLevel"`
	DB              DB                 `json:"db"`
	CORSOrigins     []string           `json:"corsOrigins"`
	TaxRate         float64            `json:"taxRate"`
	Coupons         map[string]float64 `json:"coupons,omitempty"`
	ShutdownTimeout string             `json:"shutdownTimeout"`
}

// DB selects the storage backend.
type DB struct {
	Driver string `json:"driver"`
	DSN    string `json:"dsn"`
}

// Production reports whether the service runs in production mode.
func (c Config) Production() bool { return c.Env == "production" }

// Shutdown is the graceful shutdown timeout.
func (c Config) Shutdown() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

func duration(value any) error {
	s, _ := value.(string)
	if d, err := time.ParseDuration(s); err != nil || d <= 0 {
		return errors.New("must be a positive duration such as 10s")
	}
	return nil
}

// Schema describes the configuration document.
var Schema = v.Object(
	v.Field("addr", v.String(v.MinLength(1))).Default(":3001"),
	v.Field("env", v.Enum("development", "test", "production")).Default("development"),
	v.Field("logLevel", v.Enum("debug", "info", "warn", "error")).Default("info"),
	v.Field("db", v.Object(
		v.Field("driver", v.Enum("memory", "sqlite")).Default("memory"),
		v.Field("dsn", v.String()).Default("shop.db"),
	).Strict()).Default(map[string]any{}),
	v.Field("corsOrigins", v.Array(v.String(v.MinLength(1)))).Default([]any{"http://localhost:3000"}),
	v.Field("taxRate", v.Number(v.Min(0), v.Max(1)).Coerce()).Default(0.1),
	v.Field("coupons", v.Record(v.Number(v.Positive, v.Max(100)))).Optional(),
	v.Field("shutdownTimeout", v.String(v.By(duration, "duration"))).Default("10s"),
).Strict()

// Load reads the YAML file at path, if any, applies environment overrides
// from getenv and validates the result.
func Load(path string, getenv func(string) string) (Config, error) {
	doc := map[string]any{}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &doc); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
	}
	applyEnv(doc, getenv)

	res := v.Validate(Schema, doc)
	if err := res.Err(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return v.Bind[Config](res)
}

// Default is the configuration with no file and no environment.
func Default() Config {
	c, err := Load("", func(string) string { return "" })
	if err != nil {
		panic(err)
	}
	return c
}

// applyEnv overrides file settings. SHOP_ADDR wins over PORT.
func applyEnv(doc map[string]any, getenv func(string) string) {
	if port := getenv("PORT"); port != "" {
		doc["addr"] = ":" + port
	}
	set := func(key, env string) {
		if val := getenv(env); val != "" {
			doc[key] = val
		}
	}
	set("addr", "SHOP_ADDR")
	set("env", "APP_ENV")
	set("logLevel", "SHOP_LOG_LEVEL")
	set("taxRate", "SHOP_TAX_RATE")

	if origins := getenv("SHOP_CORS_ORIGINS"); origins != "" {
		var list []any
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				list = append(list, o)
			}
		}
		doc["corsOrigins"] = list
	}

	driver, dsn := getenv("SHOP_DB_DRIVER"), getenv("SHOP_DB_DSN")
	if driver == "" && dsn == "" {
		return
	}
	db, ok := doc["db"].(map[string]any)
	if !ok {
		db = map[string]any{}
	}
	if driver != "" {
		db["driver"] = driver
	}
	if dsn != "" {
		db["dsn"] = dsn
	}
	doc["db"] = db
}
