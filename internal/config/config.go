package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds everything telly reads from disk and the environment.
type Config struct {
	APIBase        string        `key:"api_base" validate:"required,url"`
	Page           int           `key:"page" validate:"gte=0"`
	MinQueryLength int           `key:"min_query_length" validate:"gte=1"`
	Debounce       time.Duration `key:"debounce" validate:"gt=0"`
	RequestTimeout time.Duration `key:"request_timeout" validate:"gt=0"`
	LogFile        string        `key:"log_file"`
	LogLevel       string        `key:"log_level" validate:"oneof=debug info warn error"`
	CacheSize      int           `key:"cache.size" validate:"gte=1"`
	CacheTTL       time.Duration `key:"cache.ttl" validate:"gt=0"`
	RateRequests   int           `key:"rate_limit.requests" validate:"gte=0"`
	RateWindow     time.Duration `key:"rate_limit.window" validate:"gt=0"`
}

const (
	defaultConfigPath     = "~/.config/telly/config.toml"
	defaultAPIBase        = "https://api.tvmaze.com"
	defaultMinQueryLength = 2
	defaultDebounce       = 500 * time.Millisecond
	defaultRequestTimeout = 10 * time.Second
	defaultLogFile        = "~/.local/state/telly/telly.log"
	defaultLogLevel       = "info"
	defaultCacheSize      = 256
	defaultCacheTTL       = 10 * time.Minute
	defaultRateRequests   = 20
	defaultRateWindow     = 10 * time.Second

	// logDisabled as log_file turns file logging off.
	logDisabled = "off"
)

// Environment variables that override the file.
const (
	EnvAPIBase  = "TELLY_API_BASE"
	EnvLogLevel = "TELLY_LOG_LEVEL"
	EnvLogFile  = "TELLY_LOG_FILE"
)

type rawConfig struct {
	APIBase        string `toml:"api_base"`
	Page           *int   `toml:"page"`
	MinQueryLength *int   `toml:"min_query_length"`
	Debounce       string `toml:"debounce"`
	RequestTimeout string `toml:"request_timeout"`
	LogFile        string `toml:"log_file"`
	LogLevel       string `toml:"log_level"`
	Cache          struct {
		Size *int   `toml:"size"`
		TTL  string `toml:"ttl"`
	} `toml:"cache"`
	RateLimit struct {
		Requests *int   `toml:"requests"`
		Window   string `toml:"window"`
	} `toml:"rate_limit"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIBase:        defaultAPIBase,
		MinQueryLength: defaultMinQueryLength,
		Debounce:       defaultDebounce,
		RequestTimeout: defaultRequestTimeout,
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       defaultLogLevel,
		CacheSize:      defaultCacheSize,
		CacheTTL:       defaultCacheTTL,
		RateRequests:   defaultRateRequests,
		RateWindow:     defaultRateWindow,
	}
}

// Load reads the config file at path (or the default location), applies
// environment overrides and validates the result. A missing file is not an
// error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	default:
		defer func() { _ = file.Close() }()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		var raw rawConfig
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		if err := cfg.merge(raw); err != nil {
			return Config{}, err
		}
	}

	dotenv, err := readDotEnv(filepath.Join(filepath.Dir(resolved), ".env"))
	if err != nil {
		return Config{}, err
	}
	cfg.applyEnv(func(key string) (string, bool) {
		// A blank process value leaves the .env entry in charge.
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	})

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) merge(raw rawConfig) error {
	if v := strings.TrimSpace(raw.APIBase); v != "" {
		c.APIBase = v
	}
	if raw.Page != nil {
		c.Page = *raw.Page
	}
	if raw.MinQueryLength != nil {
		c.MinQueryLength = *raw.MinQueryLength
	}
	if raw.Cache.Size != nil {
		c.CacheSize = *raw.Cache.Size
	}
	if raw.RateLimit.Requests != nil {
		c.RateRequests = *raw.RateLimit.Requests
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		c.LogFile = logPath(v)
	}

	durations := []struct {
		key  string
		raw  string
		dest *time.Duration
	}{
		{"debounce", raw.Debounce, &c.Debounce},
		{"request_timeout", raw.RequestTimeout, &c.RequestTimeout},
		{"cache.ttl", raw.Cache.TTL, &c.CacheTTL},
		{"rate_limit.window", raw.RateLimit.Window, &c.RateWindow},
	}
	for _, d := range durations {
		v := strings.TrimSpace(d.raw)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse config: %s: %w", d.key, err)
		}
		*d.dest = parsed
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAPIBase); ok && strings.TrimSpace(v) != "" {
		c.APIBase = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvLogLevel); ok && strings.TrimSpace(v) != "" {
		c.LogLevel = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvLogFile); ok && strings.TrimSpace(v) != "" {
		c.LogFile = logPath(v)
	}
}

func readDotEnv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read env file: %w", err)
	}
	return values, nil
}

func logPath(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, logDisabled) {
		return ""
	}
	return mustExpand(v)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("key"); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

// Validate reports the first invalid field, named by its config key.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("invalid config: %w", err)
	}
	fe := fieldErrs[0]
	return fmt.Errorf("invalid config: %s %s", fe.Field(), friendlyMessage(fe))
}

func friendlyMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
