package config_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/peelbox/peelbox/pkg/config"
)

// TestNewDefaults ensures that the default Global constructor yields a
// struct prepopulated with static defaults.
func TestNewDefaults(t *testing.T) {
	cfg := config.New()
	if cfg.LogLevel != config.DefaultLogLevel {
		t.Fatalf("expected config's log level = %q, got %q", config.DefaultLogLevel, cfg.LogLevel)
	}
}

// TestLoad ensures that loading a config reads values in from a config
// file at path, and (unlike NewDefault) the file must exist at path or
// error.
func TestLoad(t *testing.T) {
	cfg, err := config.Load(filepath.Join("testdata", "TestLoad", "peelbox", "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("loaded config did not contain values from config file. Expected \"debug\" got %q", cfg.LogLevel)
	}

	if _, err = config.Load("invalid/path"); err == nil {
		t.Fatal("did not receive expected error loading nonexistent config path")
	}
}

// TestWrite ensures that writing a config persists.
func TestWrite(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", root)

	cfg := config.New()
	cfg.LogLevel = "debug"
	if err := cfg.Write(config.File()); err == nil {
		t.Fatal("did not receive error writing to a nonexistent path")
	}

	if err := config.CreatePaths(); err != nil {
		t.Fatal(err)
	}
	if err := cfg.Write(config.File()); err != nil {
		t.Fatal(err)
	}

	loaded, err := config.Load(config.File())
	if err != nil {
		t.Fatal(err)
	}
	if loaded.LogLevel != "debug" {
		t.Fatalf("config did not persist. expected \"debug\", got %q", loaded.LogLevel)
	}
}

// TestDir ensures the Dir accessor returns XDG_CONFIG_HOME/peelbox.
func TestDir(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "peelbox")
	t.Setenv("XDG_CONFIG_HOME", home)

	if config.Dir() != path {
		t.Fatalf("expected config dir %q, got %q", path, config.Dir())
	}
}

// TestNewDefault ensures NewDefault includes both the static defaults
// and those from the effective on-disk config file.
func TestNewDefault(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	home := filepath.Join(cwd, "testdata")
	t.Setenv("XDG_CONFIG_HOME", home)

	cfg, err := config.NewDefault()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("config file not loaded, got log level %q", cfg.LogLevel)
	}
}

// TestNewDefault_ConfigNotRequired ensures a nonexistent config file
// causes no error.
func TestNewDefault_ConfigNotRequired(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	if _, err := config.NewDefault(); err != nil {
		t.Fatal(err)
	}
}

// TestNewDefault_EnvOverridesFile ensures PEELBOX_CACHE_DIR and
// PEELBOX_LOG_LEVEL win over the on-disk config file (spec.md §6).
func TestNewDefault_EnvOverridesFile(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	home := filepath.Join(cwd, "testdata")
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv(config.EnvLogLevel, "warn")
	t.Setenv(config.EnvCacheDir, "/tmp/peelbox-cache")

	cfg, err := config.NewDefault()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("expected env log level to win, got %q", cfg.LogLevel)
	}
	if cfg.CacheDir != "/tmp/peelbox-cache" {
		t.Fatalf("expected env cache dir to win, got %q", cfg.CacheDir)
	}
}

// TestCreatePaths ensures the config directory is created when
// requested.
func TestCreatePaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	if err := config.CreatePaths(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(config.Dir()); err != nil {
		t.Fatalf("config path %q not created: %v", config.Dir(), err)
	}
}

// TestSlogLevel ensures every recognized string maps to its slog.Level
// and an unrecognized value degrades to Info rather than erroring.
func TestSlogLevel(t *testing.T) {
	cases := map[string]string{
		"debug":   "DEBUG",
		"info":    "INFO",
		"warn":    "WARN",
		"warning": "WARN",
		"error":   "ERROR",
		"":        "INFO",
		"bogus":   "INFO",
	}
	for input, want := range cases {
		cfg := config.Global{LogLevel: input}
		if got := cfg.SlogLevel().String(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

// TestConfiguredProviders ensures a provider is only reported once its
// API-key environment variable is actually set.
func TestConfiguredProviders(t *testing.T) {
	for _, envVar := range config.ProviderEnvVars {
		t.Setenv(envVar, "")
	}
	if got := config.ConfiguredProviders(); len(got) != 0 {
		t.Fatalf("expected no configured providers, got %v", got)
	}

	t.Setenv(config.ProviderEnvVars["openai"], "sk-test")
	if got := config.ConfiguredProviders(); len(got) != 1 || got[0] != "openai" {
		t.Fatalf("expected [openai], got %v", got)
	}
}

// TestGet_Invalid ensures that attempting to get the value of a
// nonexistent member returns nil.
func TestGet_Invalid(t *testing.T) {
	if v := config.Get(config.Global{}, "invalid"); v != nil {
		t.Fatalf("expected accessing a nonexistent member to return nil, but got: %v", v)
	}
}

// TestGet_Valid ensures a valid field name returns the value for that
// field, keyed off its yaml serialization name.
func TestGet_Valid(t *testing.T) {
	c := config.Global{LogLevel: "debug", Verbose: true}
	if v := config.Get(c, "logLevel"); v != "debug" {
		t.Fatalf("did not receive expected value for logLevel, got: %v", v)
	}
	if v := config.Get(c, "verbose"); v != true {
		t.Fatalf("did not receive expected value for verbose, got: %v", v)
	}
}

// TestSet_Invalid ensures that attempting to set an invalid field
// errors.
func TestSet_Invalid(t *testing.T) {
	if _, err := config.SetString(config.Global{}, "invalid", "foo"); err == nil {
		t.Fatal("did not receive expected error setting a nonexistent field")
	}
}

// TestSet_ValidTyped ensures that setting attributes with valid names
// and typed values succeeds.
func TestSet_ValidTyped(t *testing.T) {
	cfg := config.Global{}

	cfg, err := config.SetString(cfg, "cacheDir", "/tmp/cache")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CacheDir != "/tmp/cache" {
		t.Fatalf("unexpected value for config cacheDir: %v", cfg.CacheDir)
	}

	cfg, err = config.SetBool(cfg, "verbose", true)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Verbose {
		t.Fatal("expected verbose to be set true")
	}
}

// TestSet_ValidStrings ensures that setting valid attribute names
// using the string representation of their values succeeds.
func TestSet_ValidStrings(t *testing.T) {
	cfg := config.Global{}

	cfg, err := config.Set(cfg, "logLevel", "debug")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("unexpected value for config logLevel: %v", cfg.LogLevel)
	}

	cfg, err = config.Set(cfg, "verbose", "true")
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Verbose {
		t.Fatal("expected verbose to be set true")
	}
}

// TestList ensures the expected set of configurable names is
// returned, sorted. A new field added to Global needs a new entry
// here.
func TestList(t *testing.T) {
	values := config.List()
	expected := []string{"cacheDir", "logLevel", "verbose"}
	if !reflect.DeepEqual(values, expected) {
		t.Logf("expected:\n%v", expected)
		t.Logf("received:\n%v", values)
		t.Fatal("unexpected list of configurable options")
	}
}
