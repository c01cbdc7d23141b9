package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the selfreview configuration.
type Config struct {
	Database     string        `toml:"database" json:"database"`
	Format       string        `toml:"format" json:"format"`
	ContextLines int           `toml:"contextLines" json:"contextLines"`
	Include      []string      `toml:"include" json:"include"`
	Exclude      []string      `toml:"exclude" json:"exclude"`
	LogLevel     string        `toml:"logLevel" json:"logLevel"`
	Cache        CacheConfig   `toml:"cache" json:"cache"`
	Privacy      PrivacyConfig `toml:"privacy" json:"privacy"`
}

// CacheConfig controls the regenerated-diff cache.
type CacheConfig struct {
	Enabled    bool   `toml:"enabled" json:"enabled"`
	Dir        string `toml:"dir,omitempty" json:"dir,omitempty"`
	TTLSeconds int    `toml:"ttlSeconds" json:"ttlSeconds"`
}

// PrivacyConfig controls redaction of exports.
type PrivacyConfig struct {
	RedactSecrets bool     `toml:"redactSecrets" json:"redactSecrets"`
	RedactPaths   []string `toml:"redactPaths" json:"redactPaths"`
}

var (
	formats   = []string{"text", "json", "markdown"}
	logLevels = []string{"debug", "info", "warn", "error"}
)

// Default returns a Config with all defaults applied.
func Default() Config {
	db := "selfreview.db"
	if dir, err := DataDir(); err == nil {
		db = filepath.Join(dir, "selfreview.db")
	}
	return Config{
		Database:     db,
		Format:       "text",
		ContextLines: 3,
		Include:      []string{},
		Exclude:      []string{"vendor/**", "**/*.gen.go"},
		LogLevel:     "info",
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 7 * 24 * 3600,
		},
		Privacy: PrivacyConfig{
			RedactSecrets: true,
			RedactPaths:   []string{"**/.env", "**/*secrets*"},
		},
	}
}

// ConfigDir returns the platform-appropriate config directory.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "selfreview"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "selfreview"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "selfreview"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "selfreview"), nil
	default:
		return filepath.Join(home, ".config", "selfreview"), nil
	}
}

// DataDir returns the directory holding the review database.
func DataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "selfreview"), nil
	}
	if runtime.GOOS != "linux" {
		return ConfigDir()
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "selfreview"), nil
}

// ConfigPath returns the full path to the config file. SELFREVIEW_CONFIG
// replaces the default location.
func ConfigPath() (string, error) {
	if p := os.Getenv("SELFREVIEW_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LoadFile decodes the file at path on top of cfg. A missing file leaves cfg
// untouched.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// Save writes cfg to path as TOML.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	if err := LoadFile(path, &cfg); err != nil {
		return Config{}, err
	}
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envKeys maps environment variables to SetField keys.
var envKeys = []struct{ env, key string }{
	{"SELFREVIEW_DB", "database"},
	{"SELFREVIEW_FORMAT", "format"},
	{"SELFREVIEW_CONTEXT_LINES", "contextLines"},
	{"SELFREVIEW_LOG_LEVEL", "logLevel"},
	{"SELFREVIEW_CACHE", "cache.enabled"},
	{"SELFREVIEW_CACHE_DIR", "cache.dir"},
	{"SELFREVIEW_REDACT_SECRETS", "privacy.redactSecrets"},
}

func mergeEnv(cfg *Config) error {
	for _, e := range envKeys {
		v := os.Getenv(e.env)
		if v == "" {
			continue
		}
		if err := SetField(cfg, e.key, v); err != nil {
			return fmt.Errorf("%s: %w", e.env, err)
		}
	}
	return nil
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	for key, v := range overrides {
		if v == "" {
			continue
		}
		if err := SetField(cfg, key, v); err != nil {
			return fmt.Errorf("flag %s: %w", key, err)
		}
	}
	return nil
}

// Validate rejects values no command can work with.
func (c Config) Validate() error {
	if !slices.Contains(formats, c.Format) {
		return fmt.Errorf("format must be one of %s, got %q", strings.Join(formats, ", "), c.Format)
	}
	if !slices.Contains(logLevels, c.LogLevel) {
		return fmt.Errorf("logLevel must be one of %s, got %q", strings.Join(logLevels, ", "), c.LogLevel)
	}
	if c.ContextLines < 0 {
		return fmt.Errorf("contextLines must not be negative, got %d", c.ContextLines)
	}
	if c.Database == "" {
		return errors.New("database path is empty")
	}
	return nil
}

// SlogLevel converts LogLevel for a slog handler. Unknown levels map to info.
func (c Config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// SetField sets a single config field by key name. Returns error if key is unknown.
// List values are comma separated.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "database":
		cfg.Database = value
	case "format":
		cfg.Format = value
	case "logLevel":
		cfg.LogLevel = strings.ToLower(value)
	case "contextLines":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("contextLines must be an integer: %w", err)
		}
		cfg.ContextLines = n
	case "include":
		cfg.Include = splitList(value)
	case "exclude":
		cfg.Exclude = splitList(value)
	case "cache.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("cache.enabled must be a boolean: %w", err)
		}
		cfg.Cache.Enabled = b
	case "cache.dir":
		cfg.Cache.Dir = value
	case "cache.ttlSeconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("cache.ttlSeconds must be an integer: %w", err)
		}
		cfg.Cache.TTLSeconds = n
	case "privacy.redactSecrets":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("privacy.redactSecrets must be a boolean: %w", err)
		}
		cfg.Privacy.RedactSecrets = b
	case "privacy.redactPaths":
		cfg.Privacy.RedactPaths = splitList(value)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func splitList(value string) []string {
	out := []string{}
	for _, s := range strings.Split(value, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
