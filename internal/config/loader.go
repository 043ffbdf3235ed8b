package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Load builds a Config from the process environment. Fields are filled
// from their env tag, then the envAlt tag, then the default tag.
func Load() (*Config, error) {
	var cfg Config
	if err := loadStruct(reflect.ValueOf(&cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return &cfg, nil
}

// lookupFunc resolves one variable name. os.LookupEnv in production.
type lookupFunc func(string) (string, bool)

func loadStruct(v reflect.Value) error {
	return loadFrom(v, os.LookupEnv)
}

var durationType = reflect.TypeOf(time.Duration(0))

func loadFrom(v reflect.Value, lookup lookupFunc) error {
	for i := 0; i < v.NumField(); i++ {
		sf, fv := v.Type().Field(i), v.Field(i)
		if !fv.CanSet() {
			continue
		}
		if sf.Type.Kind() == reflect.Struct {
			if err := loadFrom(fv, lookup); err != nil {
				return err
			}
			continue
		}

		name := sf.Tag.Get("env")
		if name == "" {
			continue
		}
		raw, ok := firstSet(lookup, name, sf.Tag.Get("envAlt"))
		if !ok {
			if sf.Tag.Get("required") == "true" {
				return fmt.Errorf("%s must be set", name)
			}
			raw = sf.Tag.Get("default")
		}
		if raw == "" {
			continue
		}
		if err := assign(fv, raw); err != nil {
			return fmt.Errorf("%s=%q: %w", name, raw, err)
		}
	}
	return nil
}

// firstSet returns the first non-empty value among names.
func firstSet(lookup lookupFunc, names ...string) (string, bool) {
	for _, n := range names {
		if n == "" {
			continue
		}
		if s, ok := lookup(n); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

func assign(fv reflect.Value, raw string) error {
	if fv.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		fv.SetInt(int64(d))
		return nil
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		fv.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		fv.SetBool(b)
	case reflect.Slice:
		if fv.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("cannot load []%s", fv.Type().Elem().Kind())
		}
		fv.Set(reflect.ValueOf(splitList(raw)))
	default:
		return fmt.Errorf("cannot load %s", fv.Kind())
	}
	return nil
}

// splitList parses "a, b,,c" as [a b c].
func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}

// Validate reports every problem at once, one per line.
func (c *Config) Validate() error {
	var errs []string
	check := func(bad bool, format string, args ...any) {
		if bad {
			errs = append(errs, fmt.Sprintf(format, args...))
		}
	}
	badPort := func(p int) bool { return p < 1 || p > 65535 }

	check(c.Database.URL == "" && c.Database.Host == "", "DATABASE_URL or DB_HOST is required")
	check(badPort(c.Database.Port), "DB_PORT (%d) must be 1-65535", c.Database.Port)
	check(c.Database.ConnectTimeout < 0, "DB_CONNECT_TIMEOUT must be non-negative")

	check(badPort(c.Server.Port), "SERVER_PORT (%d) must be 1-65535", c.Server.Port)
	check(c.Server.ReadTimeout < 0, "SERVER_READ_TIMEOUT must be non-negative")
	check(c.Server.ShutdownTimeout <= 0, "SERVER_SHUTDOWN_TIMEOUT must be positive")

	check(c.Rate.Enabled && c.Rate.RequestsPerMinute <= 0,
		"RATE_LIMIT_REQUESTS_PER_MINUTE must be positive while RATE_LIMIT_ENABLED is on")
	check(c.Security.RequireAPIKey && len(c.Security.APIKeys) == 0,
		"REQUIRE_API_KEY is on but API_KEYS is empty")

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		check(true, "LOG_LEVEL (%q) must be debug, info, warn or error", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		check(true, "LOG_FORMAT (%q) must be text or json", c.Logging.Format)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%d problem(s):\n  - %s", len(errs), strings.Join(errs, "\n  - "))
}

// String is safe to log: the URL is hidden and the password masked.
func (c *Config) String() string {
	db := c.Database.Params().String()
	if c.Database.URL != "" {
		db = "url=MASKED"
	}
	return fmt.Sprintf("db[%s] http[%s] auth[required=%t keys=%d] rate[enabled=%t rpm=%d] log[%s/%s]",
		db,
		c.Server.Addr(),
		c.Security.RequireAPIKey, len(c.Security.APIKeys),
		c.Rate.Enabled, c.Rate.RequestsPerMinute,
		c.Logging.Level, c.Logging.Format,
	)
}
