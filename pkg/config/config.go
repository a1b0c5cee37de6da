// Package config carries peelbox's ambient settings: the cache
// directory, log level, and LLM provider API keys, loaded from an
// XDG-style on-disk config file with environment variables overlaid on
// top (spec.md §6 Environment). A value-typed struct plus static Get/Set accessors
// over yaml tags.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

const (
	// Filename into which Global is serialized.
	Filename = "config.yaml"

	// DefaultLogLevel matches the CLI's default verbosity absent -v.
	DefaultLogLevel = "info"

	// EnvCacheDir opts a build into the on-disk cache index (spec.md
	// §4.B6); empty means no cache import/export is auto-configured.
	EnvCacheDir = "PEELBOX_CACHE_DIR"

	// EnvLogLevel overrides the configured log level.
	EnvLogLevel = "PEELBOX_LOG_LEVEL"

	// EnvConfigFile overrides the on-disk config file path.
	EnvConfigFile = "PEELBOX_CONFIG_FILE"

	// EnvXDGConfigHome is the standard XDG override for Dir's base path.
	EnvXDGConfigHome = "XDG_CONFIG_HOME"
)

// ProviderEnvVars lists the one API-key environment variable per LLM
// provider spec.md §6 names as part of the Environment surface. The
// concrete provider set lives here, not in pkg/llm, since pkg/llm's
// Client is transport-agnostic and never reads the environment
// itself.
var ProviderEnvVars = map[string]string{
	"openai":    "PEELBOX_OPENAI_API_KEY",
	"anthropic": "PEELBOX_ANTHROPIC_API_KEY",
	"azure":     "PEELBOX_AZURE_API_KEY",
}

// Global configuration settings.
type Global struct {
	CacheDir string `yaml:"cacheDir,omitempty"`
	LogLevel string `yaml:"logLevel,omitempty"`
	Verbose  bool   `yaml:"verbose,omitempty"`
	// NOTE: all members must include their yaml serialized names, even
	// when this is the default, because these tag values are used by
	// the static getter/setter accessors to match requests.
}

// New Global with all members set to static defaults. See NewDefault
// for one which further takes into account the optional config file
// and environment.
func New() Global {
	return Global{
		LogLevel: DefaultLogLevel,
	}
}

// NewDefault returns a config populated by, in ascending precedence:
// static defaults, the on-disk config file (if present), then
// environment variables. The config file is not required to exist.
func NewDefault() (cfg Global, err error) {
	cfg = New()
	cp := File()
	if bb, readErr := os.ReadFile(cp); readErr == nil {
		if err = yaml.Unmarshal(bb, &cfg); err != nil {
			return
		}
	} else if !os.IsNotExist(readErr) {
		err = readErr
		return
	}
	cfg = cfg.applyEnv()
	return
}

// applyEnv overlays environment variables onto an already-loaded
// config; the environment always wins over the on-disk file, matching
// spec.md §6's description of the cache-dir/log-level variables as the
// final word at invocation time.
func (c Global) applyEnv() Global {
	if v := os.Getenv(EnvCacheDir); v != "" {
		c.CacheDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	return c
}

// Load the config exactly as it exists at path (no static defaults,
// no environment overlay).
func Load(path string) (c Global, err error) {
	bb, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("error reading global config: %v", err)
	}
	err = yaml.Unmarshal(bb, &c)
	return
}

// Write the config to the given path. To use the currently configured
// path (used by the constructor) pass File().
//
//	c := config.New()
//	c.LogLevel = "debug"
//	c.Write(config.File())
func (c Global) Write(path string) (err error) {
	bb, _ := yaml.Marshal(&c) // Marshaling no longer errors; this is back compat.
	return os.WriteFile(path, bb, os.ModePerm)
}

// SlogLevel parses LogLevel into a slog.Level, falling back to Info
// for an unrecognized or empty value — never an error, since a typo'd
// log level should degrade, not abort the run.
func (c Global) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ConfiguredProviders reports which LLM providers have an API key
// present in the environment, used by the health CLI command (spec.md
// §6 *health*) to describe what it is about to check before actually
// dialing out.
func ConfiguredProviders() []string {
	var out []string
	for name, envVar := range ProviderEnvVars {
		if os.Getenv(envVar) != "" {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Dir is derived in the following order, from lowest to highest
// precedence:
//  1. The default path is the zero value, indicating "no config path
//     available", and users of this package should act accordingly.
//  2. ~/.config/peelbox when the user has a home dir (whether or not
//     that directory exists).
//  3. The value of $XDG_CONFIG_HOME/peelbox if the environment
//     variable exists.
//
// Dir does not create the path; CreatePaths does.
func Dir() (path string) {
	if home, err := os.UserHomeDir(); err == nil {
		path = filepath.Join(home, ".config", "peelbox")
	}
	if xdg := os.Getenv(EnvXDGConfigHome); xdg != "" {
		path = filepath.Join(xdg, "peelbox")
	}
	return
}

// File returns the full path at which to look for a config file. Use
// PEELBOX_CONFIG_FILE to override the default.
func File() string {
	path := filepath.Join(Dir(), Filename)
	if e := os.Getenv(EnvConfigFile); e != "" {
		path = e
	}
	return path
}

// CreatePaths is a convenience function for creating the on-disk
// peelbox config structure. All operations should be tolerant of a
// nonexistent disk footprint where possible.
func CreatePaths() (err error) {
	if err = os.MkdirAll(Dir(), os.ModePerm); err != nil {
		return fmt.Errorf("error creating global config path: %v", err)
	}
	return
}

// Static Accessors
//
// Accessors to globally configurable options are implemented as
// static package functions to retain the benefits of pass-by-value
// already in use on most system structures.
//
//	c = config.Set(c, "key", "value")
//
// A pointer-receiver Set would force callers to allocate and hold a
// pointer just to mutate a local config value, which is more ceremony
// than the benefit is worth for a small value type.

// List the globally configurable settings by the key which can be
// used in the accessors Get and Set, and in the associated disk
// serialization. Sorted.
func List() []string {
	keys := []string{}
	t := reflect.TypeOf(Global{})
	for i := 0; i < t.NumField(); i++ {
		tt := strings.Split(t.Field(i).Tag.Get("yaml"), ",")
		keys = append(keys, tt[0])
	}
	sort.Strings(keys)
	return keys
}

// Get the named global config value from the given global config
// struct. Nonexistent values return nil.
func Get(c Global, name string) any {
	t := reflect.TypeOf(c)
	for i := 0; i < t.NumField(); i++ {
		if !strings.HasPrefix(t.Field(i).Tag.Get("yaml"), name) {
			continue
		}
		return reflect.ValueOf(c).FieldByName(t.Field(i).Name).Interface()
	}
	return nil
}

// Set value of a member by name and a stringified value. Fails if the
// passed value cannot be coerced into the type expected by the member
// indicated by name.
func Set(c Global, name, value string) (Global, error) {
	fieldValue, err := getField(&c, name)
	if err != nil {
		return c, err
	}

	var v reflect.Value
	switch fieldValue.Kind() {
	case reflect.String:
		v = reflect.ValueOf(value)
	case reflect.Bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return c, err
		}
		v = reflect.ValueOf(boolValue)
	default:
		return c, fmt.Errorf("global config value type not yet implemented: %v", fieldValue.Kind())
	}
	fieldValue.Set(v)

	return c, nil
}

// SetString value of a member by name, returning the updated config.
func SetString(c Global, name, value string) (Global, error) {
	return set(c, name, reflect.ValueOf(value))
}

// SetBool value of a member by name, returning the updated config.
func SetBool(c Global, name string, value bool) (Global, error) {
	return set(c, name, reflect.ValueOf(value))
}

func set(c Global, name string, value reflect.Value) (Global, error) {
	fieldValue, err := getField(&c, name)
	if err != nil {
		return c, err
	}
	fieldValue.Set(value)
	return c, nil
}

// getField returns an assignable reflect.Value for the struct field
// with the given yaml tag name.
func getField(c *Global, name string) (reflect.Value, error) {
	t := reflect.TypeOf(c).Elem()
	for i := 0; i < t.NumField(); i++ {
		if strings.HasPrefix(t.Field(i).Tag.Get("yaml"), name) {
			fieldValue := reflect.ValueOf(c).Elem().FieldByName(t.Field(i).Name)
			return fieldValue, nil
		}
	}
	return reflect.Value{}, fmt.Errorf("field not found on global config: %v", name)
}
