package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// isolate points every config location at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("SELFREVIEW_CONFIG", "")
	for _, e := range envKeys {
		t.Setenv(e.env, "")
	}
	return dir
}

func TestDefault(t *testing.T) {
	dir := isolate(t)
	cfg := Default()
	if cfg.Format != "text" {
		t.Errorf("Default format = %q, want %q", cfg.Format, "text")
	}
	if cfg.ContextLines != 3 {
		t.Errorf("Default contextLines = %d, want 3", cfg.ContextLines)
	}
	if want := filepath.Join(dir, "data", "selfreview", "selfreview.db"); cfg.Database != want {
		t.Errorf("Default database = %q, want %q", cfg.Database, want)
	}
	if !cfg.Cache.Enabled {
		t.Error("Default cache should be enabled")
	}
	if !cfg.Privacy.RedactSecrets {
		t.Error("Default redactSecrets should be true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default does not validate: %v", err)
	}
}

func TestConfigPath(t *testing.T) {
	isolate(t)
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath error: %v", err)
	}
	if path != "/tmp/xdg-test/selfreview/config.toml" {
		t.Errorf("ConfigPath = %q, want %q", path, "/tmp/xdg-test/selfreview/config.toml")
	}

	t.Setenv("SELFREVIEW_CONFIG", "/etc/selfreview.toml")
	path, err = ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath error: %v", err)
	}
	if path != "/etc/selfreview.toml" {
		t.Errorf("ConfigPath = %q, want SELFREVIEW_CONFIG value", path)
	}
}

func TestLoadFile_PartialKeepsDefaults(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `format = "markdown"
exclude = ["testdata/**"]

[cache]
enabled = false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := LoadFile(path, &cfg); err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if cfg.Format != "markdown" {
		t.Errorf("Format = %q, want markdown", cfg.Format)
	}
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be false when the file sets it")
	}
	if cfg.Cache.TTLSeconds != Default().Cache.TTLSeconds {
		t.Errorf("Cache.TTLSeconds = %d, want default", cfg.Cache.TTLSeconds)
	}
	if !cfg.Privacy.RedactSecrets {
		t.Error("RedactSecrets should keep its default when the file omits it")
	}
	if !reflect.DeepEqual(cfg.Exclude, []string{"testdata/**"}) {
		t.Errorf("Exclude = %v, want [testdata/**]", cfg.Exclude)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	cfg := Default()
	if err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"), &cfg); err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if cfg.Format != "text" {
		t.Errorf("Format = %q, want default", cfg.Format)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("format = [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	if err := LoadFile(path, &cfg); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveAndLoad(t *testing.T) {
	isolate(t)
	path, err := ConfigPath()
	if err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	cfg.Format = "json"
	cfg.Include = []string{"**/*.go"}
	cfg.Privacy.RedactSecrets = false
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, err := Load(nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Errorf("Load = %+v, want %+v", got, cfg)
	}
}

func TestPrecedence(t *testing.T) {
	isolate(t)
	path, err := ConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	if err := Save(path, Config{Format: "markdown", LogLevel: "warn", Database: "file.db"}); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SELFREVIEW_FORMAT", "json")
	t.Setenv("SELFREVIEW_CONTEXT_LINES", "7")

	cfg, err := Load(map[string]string{"database": "flag.db"})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want env value json", cfg.Format)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want file value warn", cfg.LogLevel)
	}
	if cfg.ContextLines != 7 {
		t.Errorf("ContextLines = %d, want env value 7", cfg.ContextLines)
	}
	if cfg.Database != "flag.db" {
		t.Errorf("Database = %q, want flag value", cfg.Database)
	}
}

func TestMergeEnv_Invalid(t *testing.T) {
	tests := []struct{ env, value string }{
		{"SELFREVIEW_CONTEXT_LINES", "abc"},
		{"SELFREVIEW_CACHE", "sometimes"},
		{"SELFREVIEW_REDACT_SECRETS", "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.env, tt.value)
			cfg := Default()
			if err := mergeEnv(&cfg); err == nil {
				t.Errorf("expected error for %s=%s", tt.env, tt.value)
			}
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	isolate(t)
	if _, err := Load(map[string]string{"format": "sarif"}); err == nil {
		t.Error("expected error for unknown format")
	}
	if _, err := Load(map[string]string{"logLevel": "loud"}); err == nil {
		t.Error("expected error for unknown log level")
	}
	if _, err := Load(map[string]string{"contextLines": "-1"}); err == nil {
		t.Error("expected error for negative contextLines")
	}
}

func TestSetField(t *testing.T) {
	cfg := Default()

	tests := []struct {
		key   string
		value string
	}{
		{"database", "/tmp/r.db"},
		{"format", "json"},
		{"logLevel", "DEBUG"},
		{"contextLines", "10"},
		{"include", "src/**, cmd/**"},
		{"exclude", ""},
		{"cache.enabled", "false"},
		{"cache.dir", "/tmp/c"},
		{"cache.ttlSeconds", "60"},
		{"privacy.redactSecrets", "false"},
		{"privacy.redactPaths", "**/*.pem"},
	}
	for _, tt := range tests {
		if err := SetField(&cfg, tt.key, tt.value); err != nil {
			t.Errorf("SetField(%q, %q) error: %v", tt.key, tt.value, err)
		}
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if !reflect.DeepEqual(cfg.Include, []string{"src/**", "cmd/**"}) {
		t.Errorf("Include = %v", cfg.Include)
	}
	if cfg.Exclude == nil || len(cfg.Exclude) != 0 {
		t.Errorf("Exclude = %#v, want empty", cfg.Exclude)
	}
	if cfg.Cache.Enabled || cfg.Cache.TTLSeconds != 60 {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel = %v, want debug", cfg.SlogLevel())
	}
}

func TestSetField_Errors(t *testing.T) {
	cfg := Default()
	if err := SetField(&cfg, "nonexistent", "value"); err == nil {
		t.Error("expected error for unknown key")
	}
	if err := SetField(&cfg, "contextLines", "lots"); err == nil {
		t.Error("expected error for non-integer value")
	}
	if err := SetField(&cfg, "cache.enabled", "yes please"); err == nil {
		t.Error("expected error for non-boolean value")
	}
}
