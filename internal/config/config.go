// Package config resolves settings from config.toml, DP_* environment
// variables and built-in defaults, in increasing order of precedence for
// the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/devicepool-cli/internal/env"
	"github.com/spf13/viper"
)

const (
	KeyAPIURL        = "api.url"
	KeyPollInterval  = "poll.interval"
	KeyHistoryPath   = "history.path"
	KeySnapshotsPath = "snapshots.path"
	KeySecretsDir    = "secrets.dir"
	KeySecretsStore  = "secrets.backend"
	KeyPassDir       = "secrets.pass_dir"
	KeyLogLevel      = "log.level"

	EnvConfigDir = "DP_CONFIG_DIR"

	DefaultAPIURL       = "http://localhost:3000/api"
	DefaultPollInterval = 10 * time.Second

	// SecretsBackendAuto tries pass first and falls back to files.
	SecretsBackendAuto = "auto"
	SecretsBackendFile = "file"

	configName = "config"
	configType = "toml"
	configDir  = ".config/devicepool"
)

var envBindings = map[string]string{
	KeyAPIURL:        "DP_API_URL",
	KeyPollInterval:  "DP_POLL_INTERVAL",
	KeyHistoryPath:   "DP_HISTORY_PATH",
	KeySnapshotsPath: "DP_SNAPSHOTS_PATH",
	KeySecretsDir:    "DP_SECRETS_DIR",
	KeySecretsStore:  "DP_SECRETS_BACKEND",
	KeyPassDir:       "DP_PASS_DIR",
	KeyLogLevel:      "DP_LOG_LEVEL",
}

type Config struct {
	Dir           string
	APIURL        string
	PollInterval  time.Duration
	HistoryPath   string
	SnapshotsPath string
	SecretsDir    string
	SecretsStore  string
	// PassDir overrides the password store used by pass; empty keeps the
	// pass default.
	PassDir       string
	LogLevel      string

	v *viper.Viper
}

// Load reads the configuration. A missing config.toml is not an error.
func Load() (*Config, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}

	if err := env.Ensure(dir); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(dir)
	v.SetDefault(KeyAPIURL, DefaultAPIURL)
	v.SetDefault(KeyPollInterval, DefaultPollInterval.String())
	v.SetDefault(KeyHistoryPath, filepath.Join(dir, "history.toml"))
	v.SetDefault(KeySnapshotsPath, filepath.Join(dir, "snapshots.sqlite"))
	v.SetDefault(KeySecretsDir, filepath.Join(dir, "secrets"))
	v.SetDefault(KeySecretsStore, SecretsBackendAuto)
	v.SetDefault(KeyLogLevel, "info")

	for key, name := range envBindings {
		if err := v.BindEnv(key, name); err != nil {
			return nil, fmt.Errorf("bind %s: %w", name, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{Dir: dir, v: v}
	if err := cfg.refresh(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Viper exposes the underlying settings for adapters that resolve their
// own keys.
func (c *Config) Viper() *viper.Viper {
	return c.v
}

// OverrideAPIURL applies a command-line override.
func (c *Config) OverrideAPIURL(url string) {
	url = strings.TrimSpace(url)
	if url == "" {
		return
	}
	c.v.Set(KeyAPIURL, url)
	c.APIURL = url
}

func (c *Config) refresh() error {
	interval, err := parseInterval(c.v.GetString(KeyPollInterval))
	if err != nil {
		return err
	}

	backend := strings.ToLower(strings.TrimSpace(c.v.GetString(KeySecretsStore)))
	switch backend {
	case "", SecretsBackendAuto:
		backend = SecretsBackendAuto
	case SecretsBackendFile:
	default:
		return fmt.Errorf("invalid %s %q: want %q or %q", KeySecretsStore, backend, SecretsBackendAuto, SecretsBackendFile)
	}

	c.APIURL = strings.TrimSpace(c.v.GetString(KeyAPIURL))
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	c.PollInterval = interval
	c.HistoryPath = c.v.GetString(KeyHistoryPath)
	c.SnapshotsPath = c.v.GetString(KeySnapshotsPath)
	c.SecretsDir = c.v.GetString(KeySecretsDir)
	c.SecretsStore = backend
	c.PassDir = strings.TrimSpace(c.v.GetString(KeyPassDir))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.v.GetString(KeyLogLevel)))
	return nil
}

// parseInterval accepts Go durations ("15s") or a bare number of seconds.
func parseInterval(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultPollInterval, nil
	}

	if seconds, err := strconv.Atoi(raw); err == nil {
		if seconds <= 0 {
			return DefaultPollInterval, nil
		}
		return time.Duration(seconds) * time.Second, nil
	}

	interval, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", KeyPollInterval, raw, err)
	}
	if interval <= 0 {
		return DefaultPollInterval, nil
	}

	return interval, nil
}

func resolveDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(EnvConfigDir)); dir != "" {
		return filepath.Clean(dir), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(homeDir, configDir), nil
}
