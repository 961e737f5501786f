package keymap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a bindings file encoding.
type Format string

// Supported bindings file formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ErrUnknownFormat indicates a bindings file with an unsupported extension.
var ErrUnknownFormat = errors.New("unknown keymap format")

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Loader loads keymaps from bindings files.
type Loader struct {
	// searchPaths are directories to search for keymap files.
	searchPaths []string

	readFile func(string) ([]byte, error)
}

// NewLoader creates a new keymap loader.
func NewLoader() *Loader {
	return &Loader{
		searchPaths: make([]string, 0),
		readFile:    os.ReadFile,
	}
}

// AddSearchPath adds a directory to search for keymap files.
func (l *Loader) AddSearchPath(path string) {
	l.searchPaths = append(l.searchPaths, path)
}

// LoadFile loads a keymap from a TOML, YAML or JSON file.
func (l *Loader) LoadFile(path string) (*Keymap, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := l.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening keymap file: %w", err)
	}

	km, err := l.LoadBytes(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if km.Name == "" {
		km.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	km.Source = path
	return km, nil
}

// LoadBytes decodes a keymap in the given format.
func (l *Loader) LoadBytes(data []byte, format Format) (*Keymap, error) {
	var config keymapConfig

	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("decoding keymap: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("decoding keymap: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&config); err != nil {
			return nil, fmt.Errorf("decoding keymap: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	km := &Keymap{
		Name:     config.Name,
		Bindings: make([]Binding, 0, len(config.Bindings)),
	}
	for _, bc := range config.Bindings {
		km.Bindings = append(km.Bindings, Binding(bc))
	}
	return km, nil
}

// LoadAll loads all keymaps from the search paths. Files that fail to load
// are reported together after every file has been tried.
func (l *Loader) LoadAll() ([]*Keymap, error) {
	keymaps := make([]*Keymap, 0)
	var errs []error

	for _, dir := range l.searchPaths {
		for _, pattern := range []string{"*.toml", "*.yaml", "*.yml", "*.json"} {
			matches, err := filepath.Glob(filepath.Join(dir, pattern))
			if err != nil {
				continue
			}
			for _, path := range matches {
				km, err := l.LoadFile(path)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				keymaps = append(keymaps, km)
			}
		}
	}

	return keymaps, errors.Join(errs...)
}

// keymapConfig is the file structure for keymap files.
type keymapConfig struct {
	Name     string          `json:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty"`
	Bindings []bindingConfig `json:"bindings" toml:"bindings" yaml:"bindings"`
}

type bindingConfig struct {
	Keys              string `json:"keys" toml:"keys" yaml:"keys"`
	SplitKey          string `json:"split_key,omitempty" toml:"split_key,omitempty" yaml:"split_key,omitempty"`
	Capitalization    bool   `json:"capitalization,omitempty" toml:"capitalization,omitempty" yaml:"capitalization,omitempty"`
	MatchAllModifiers bool   `json:"match_all_modifiers,omitempty" toml:"match_all_modifiers,omitempty" yaml:"match_all_modifiers,omitempty"`
	AcceptOnKeyDown   bool   `json:"accept_on_keydown,omitempty" toml:"accept_on_keydown,omitempty" yaml:"accept_on_keydown,omitempty"`
	TriggerAll        bool   `json:"trigger_all,omitempty" toml:"trigger_all,omitempty" yaml:"trigger_all,omitempty"`
	Lua               string `json:"lua,omitempty" toml:"lua,omitempty" yaml:"lua,omitempty"`
	Description       string `json:"description,omitempty" toml:"description,omitempty" yaml:"description,omitempty"`
}
