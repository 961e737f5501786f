package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/hotkeys/internal/config/loader"
)

// Source kinds.
const (
	SourceNative   = "native"
	SourceTerminal = "terminal"
)

// Config is the resolved daemon configuration.
type Config struct {
	Logging  LoggingConfig  `toml:"logging"`
	Source   SourceConfig   `toml:"source"`
	Bindings BindingsConfig `toml:"bindings"`
	Debounce DebounceConfig `toml:"debounce"`
}

// LoggingConfig controls the logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `toml:"level"`
}

// SourceConfig selects where key events come from.
type SourceConfig struct {
	// Kind is "native" (system-wide hook) or "terminal".
	Kind string `toml:"kind"`
	// Buffer is the event channel capacity.
	Buffer int `toml:"buffer"`
}

// BindingsConfig locates the bindings file or directory.
type BindingsConfig struct {
	Path          string `toml:"path"`
	Watch         bool   `toml:"watch"`
	ReloadDelayMs int    `toml:"reload_delay_ms"`
}

// DebounceConfig configures the typed-text listener.
type DebounceConfig struct {
	QuietMs int  `toml:"quiet_ms"`
	Echo    bool `toml:"echo"`
	// Lua is run with the flushed text in the "text" global.
	Lua string `toml:"lua"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Source: SourceConfig{
			Kind:   SourceNative,
			Buffer: 256,
		},
		Bindings: BindingsConfig{
			Watch:         true,
			ReloadDelayMs: 200,
		},
		Debounce: DebounceConfig{
			QuietMs: 500,
		},
	}
}

// QuietPeriod returns the debounce quiet period.
func (c Config) QuietPeriod() time.Duration {
	return time.Duration(c.Debounce.QuietMs) * time.Millisecond
}

// ReloadDelay returns the bindings watcher debounce.
func (c Config) ReloadDelay() time.Duration {
	return time.Duration(c.Bindings.ReloadDelayMs) * time.Millisecond
}

// BindingsPath returns the bindings path with a leading ~ expanded.
func (c Config) BindingsPath() string {
	return ExpandPath(c.Bindings.Path)
}

// Validate checks every setting and joins all failures.
func (c Config) Validate() error {
	var errs []error

	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, &ValidationError{
			Path:    "logging.level",
			Message: "must be debug, info, warn or error",
			Value:   c.Logging.Level,
			Code:    ErrCodeInvalidEnum,
		})
	}

	switch c.Source.Kind {
	case SourceNative, SourceTerminal:
	default:
		errs = append(errs, &ValidationError{
			Path:    "source.kind",
			Message: "must be native or terminal",
			Value:   c.Source.Kind,
			Code:    ErrCodeInvalidEnum,
		})
	}

	if c.Source.Buffer <= 0 {
		errs = append(errs, &ValidationError{
			Path:    "source.buffer",
			Message: "must be positive",
			Value:   c.Source.Buffer,
			Code:    ErrCodeOutOfRange,
		})
	}

	if c.Bindings.ReloadDelayMs < 0 {
		errs = append(errs, &ValidationError{
			Path:    "bindings.reload_delay_ms",
			Message: "must not be negative",
			Value:   c.Bindings.ReloadDelayMs,
			Code:    ErrCodeOutOfRange,
		})
	}

	if c.Debounce.QuietMs <= 0 {
		errs = append(errs, &ValidationError{
			Path:    "debounce.quiet_ms",
			Message: "must be positive",
			Value:   c.Debounce.QuietMs,
			Code:    ErrCodeOutOfRange,
		})
	}

	return errors.Join(errs...)
}

// Loader resolves a Config from defaults, a TOML file and the environment.
type Loader struct {
	fs        loader.FileSystem
	envPrefix string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFileSystem reads the config file from fs.
func WithFileSystem(fs loader.FileSystem) LoaderOption {
	return func(l *Loader) {
		l.fs = fs
	}
}

// WithEnvPrefix changes the environment variable prefix.
// An empty prefix disables environment overrides.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// NewLoader creates a Loader reading from the OS with HOTKEYS_ overrides.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		fs:        loader.DefaultFS(),
		envPrefix: loader.DefaultEnvPrefix,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load resolves the configuration. A missing file at path is not an error;
// an empty path skips the file layer.
func (l *Loader) Load(path string) (Config, error) {
	merged, err := toMap(Default())
	if err != nil {
		return Config{}, err
	}

	var layers []loader.Loader
	if path != "" {
		layers = append(layers, loader.NewTOMLLoaderWithFS(l.fs, ExpandPath(path)))
	}
	if l.envPrefix != "" {
		layers = append(layers, loader.NewEnvLoader(l.envPrefix))
	}

	merged, err = loader.MergeAll(merged, layers...)
	if err != nil {
		return Config{}, err
	}

	cfg, err := fromMap(merged)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load resolves the configuration from the OS file system and environment.
func Load(path string) (Config, error) {
	return NewLoader().Load(path)
}

func toMap(cfg Config) (map[string]any, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding defaults: %w", err)
	}
	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding defaults: %w", err)
	}
	return m, nil
}

// fromMap decodes merged settings, rejecting unknown keys.
func fromMap(m map[string]any) (Config, error) {
	data, err := toml.Marshal(m)
	if err != nil {
		return Config{}, fmt.Errorf("encoding settings: %w", err)
	}

	var cfg Config
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("%w: unknown settings:\n%s", ErrValidationFailed, strict.String())
		}
		terr := &TypeError{Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			terr.Path = strings.Join(derr.Key(), ".")
		}
		return Config{}, terr
	}
	return cfg, nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
