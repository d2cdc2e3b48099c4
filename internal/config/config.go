// Package config loads archmesh settings from defaults, a YAML file, the
// environment (optionally seeded from .env files) and, last, CLI flags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/archmesh/archmesh/core/parse"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds parser and logging settings.
type Config struct {
	LogLevel  string `yaml:"log_level" validate:"oneof=trace debug info warn error"`
	LogFormat string `yaml:"log_format" validate:"oneof=compact json"`
	Logger    string `yaml:"logger" validate:"oneof=slog zap"`

	// Repair names the second-chance strategy: heuristic or library.
	Repair string `yaml:"repair" validate:"oneof=heuristic library"`
	// RawResponseLimit bounds raw_response in the diagnostic fallback, in bytes.
	RawResponseLimit int `yaml:"raw_response_limit" validate:"gte=1"`
	// FallbackMessage is the error field of the diagnostic fallback.
	FallbackMessage string `yaml:"fallback_message" validate:"required"`
	// Fallback, when set, replaces the diagnostic fallback mapping.
	Fallback map[string]any `yaml:"fallback,omitempty"`
	// Provider is the default envelope family for provider bodies. Empty means
	// input is treated as raw model text.
	Provider string `yaml:"provider,omitempty"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "compact",
		Logger:           "slog",
		Repair:           parse.HeuristicRepairer{}.Name(),
		RawResponseLimit: parse.DefaultRawResponseLimit,
		FallbackMessage:  parse.DefaultFallbackMessage,
	}
}

// Load returns Default overlaid with the YAML file at path (skipped when path
// is empty) and then with ARCHMESH_* environment variables. The result is
// validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files (".env" when none are
// named) without overriding variables already set. Missing files are
// skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides. LOG_LEVEL and
// LOG_FORMAT are honoured when their ARCHMESH_ variants are unset.
func (c *Config) applyEnvOverrides() error {
	if v := firstEnv("ARCHMESH_LOG_LEVEL", "LOG_LEVEL"); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := firstEnv("ARCHMESH_LOG_FORMAT", "LOG_FORMAT"); v != "" {
		c.LogFormat = strings.ToLower(v)
	}
	if v := os.Getenv("ARCHMESH_LOGGER"); v != "" {
		c.Logger = strings.ToLower(v)
	}
	if v := os.Getenv("ARCHMESH_REPAIR"); v != "" {
		c.Repair = strings.ToLower(v)
	}
	if v := os.Getenv("ARCHMESH_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("ARCHMESH_FALLBACK_MESSAGE"); v != "" {
		c.FallbackMessage = v
	}
	if v := os.Getenv("ARCHMESH_RAW_RESPONSE_LIMIT"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: ARCHMESH_RAW_RESPONSE_LIMIT=%q is not an integer", ErrInvalid, v)
		}
		c.RawResponseLimit = limit
	}
	if v := os.Getenv("ARCHMESH_FALLBACK_FILE"); v != "" {
		fallback, err := LoadFallback(v)
		if err != nil {
			return err
		}
		c.Fallback = fallback
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return ""
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field values and the provider tag.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, describe(fe))
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Provider != "" {
		if _, err := parse.ParseProvider(c.Provider); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s is %q, want one of [%s]", fe.Field(), fe.Value(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s is %v, want at least %s", fe.Field(), fe.Value(), fe.Param())
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

// LoadFallback reads a fallback mapping from a .json, .yaml or .yml file.
func LoadFallback(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fallback: %w", err)
	}

	var fallback map[string]any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &fallback)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fallback)
	default:
		return nil, fmt.Errorf("fallback %s: unsupported extension %q (want .json, .yaml or .yml)", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse fallback %s: %w", path, err)
	}
	if fallback == nil {
		return nil, fmt.Errorf("fallback %s: want a mapping at the top level", path)
	}
	return fallback, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
