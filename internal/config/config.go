// Package config loads the botcore process configuration.
//
// Values are layered: built-in defaults, then an optional YAML or JSON file,
// then BOTCORE_* environment variables. Command-line flags are applied by the
// caller on top of the result.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every configuration key looked up in the environment.
const EnvPrefix = "BOTCORE_"

// Config is the typed process configuration.
type Config struct {
	Token string `mapstructure:"token"`

	// APIEndpoint overrides the Bot API URL template, e.g. for a local Bot API server.
	APIEndpoint string `mapstructure:"api_endpoint"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// Listen is the address of the webhook and metrics server.
	Listen        string `mapstructure:"listen"`
	WebhookPath   string `mapstructure:"webhook_path"`
	WebhookSecret string `mapstructure:"webhook_secret"`

	// PollTimeout is the long polling timeout in seconds.
	PollTimeout int `mapstructure:"poll_timeout"`
	Workers     int `mapstructure:"workers"`

	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`

	// RedisAddr enables the Redis locker and deduplicator when set.
	RedisAddr   string        `mapstructure:"redis_addr"`
	RedisPrefix string        `mapstructure:"redis_prefix"`
	LockTTL     time.Duration `mapstructure:"lock_ttl"`
	DedupTTL    time.Duration `mapstructure:"dedup_ttl"`

	// Interpreted disables the compiled resolver cache.
	Interpreted bool `mapstructure:"interpreted"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		LogLevel:      "info",
		LogFormat:     "text",
		Listen:        ":8080",
		WebhookPath:   "/webhook",
		PollTimeout:   60,
		Workers:       16,
		IdleTimeout:   30 * time.Minute,
		SweepInterval: time.Minute,
		RedisPrefix:   "botcore:",
		LockTTL:       30 * time.Second,
		DedupTTL:      24 * time.Hour,
	}
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	var errs []error
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	if c.PollTimeout < 0 {
		errs = append(errs, fmt.Errorf("poll_timeout must not be negative, got %d", c.PollTimeout))
	}
	if !strings.HasPrefix(c.WebhookPath, "/") {
		errs = append(errs, fmt.Errorf("webhook_path must start with '/', got %q", c.WebhookPath))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format must be text or json, got %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

// Load builds the configuration from path (which may be empty) and the
// process environment.
func Load(path string) (Config, error) {
	return LoadWithEnv(path, os.Environ())
}

// LoadWithEnv is Load with an explicit environment in os.Environ form.
func LoadWithEnv(path string, environ []string) (Config, error) {
	raw := make(map[string]any)
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if strings.ToLower(filepath.Ext(path)) == ".json" {
			if err := json.Unmarshal(data, &raw); err != nil {
				return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(k, EnvPrefix) {
			continue
		}
		raw[strings.ToLower(strings.TrimPrefix(k, EnvPrefix))] = v
	}

	cfg := Default()
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Metadata:         &md,
		Result:           &cfg,
	})
	if err != nil {
		return Config{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	if unknown := unusedFromFile(md.Unused, environ); len(unknown) > 0 {
		return Config{}, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(unknown, ", "))
	}
	return cfg, cfg.Validate()
}

// unusedFromFile drops keys that came from unrelated BOTCORE_* variables;
// only file keys are reported as mistakes.
func unusedFromFile(unused, environ []string) []string {
	fromEnv := make(map[string]bool)
	for _, kv := range environ {
		k, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(k, EnvPrefix) {
			fromEnv[strings.ToLower(strings.TrimPrefix(k, EnvPrefix))] = true
		}
	}
	var out []string
	for _, k := range unused {
		if !fromEnv[k] {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}
