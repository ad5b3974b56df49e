// Package config loads tabs.yaml, the settings shared by the CLI, the file
// watcher and the language server.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the name Find looks for.
const FileName = "tabs.yaml"

// MaxFileSize bounds how much of a config file is read.
const MaxFileSize = 64 * 1024

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Budget Budget `yaml:"budget"`
	Log    Log    `yaml:"log"`
	Watch  Watch  `yaml:"watch"`
}

// Budget controls how much parsing work runs per scheduling slice.
type Budget struct {
	// Steps is the number of parse steps per slice.
	Steps int `yaml:"steps"`
	// FocusBonus is added to the next slice after a document gains focus.
	FocusBonus int `yaml:"focus_bonus"`
}

type Log struct {
	Verbosity int    `yaml:"verbosity"`
	File      string `yaml:"file"`
}

type Watch struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns the built-in configuration.
func Default() Config {
	cfg, err := decode(Config{}, defaultsYAML)
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Parse reads YAML over the defaults. Keys missing from data keep their
// default values; unknown keys are an error.
func Parse(data []byte) (Config, error) {
	cfg, err := decode(Default(), data)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(cfg Config, data []byte) (Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Load reads the config file at path.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if len(data) > MaxFileSize {
		return Config{}, fmt.Errorf("config %s: larger than %d bytes: %w", path, MaxFileSize, ErrInvalid)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Find looks for FileName in dir and its parents and returns the first
// path found, or "" if there is none.
func Find(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		path := filepath.Join(dir, FileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// LoadOrDefault loads path if it is set, else the file Find locates from
// dir, else the defaults.
func LoadOrDefault(path, dir string) (Config, error) {
	if path == "" {
		path = Find(dir)
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func (c Config) Validate() error {
	var errs []error
	if c.Budget.Steps <= 0 {
		errs = append(errs, fmt.Errorf("budget.steps must be positive, got %d: %w", c.Budget.Steps, ErrInvalid))
	}
	if c.Budget.FocusBonus < 0 {
		errs = append(errs, fmt.Errorf("budget.focus_bonus must not be negative, got %d: %w", c.Budget.FocusBonus, ErrInvalid))
	}
	if c.Log.Verbosity < 0 {
		errs = append(errs, fmt.Errorf("log.verbosity must not be negative, got %d: %w", c.Log.Verbosity, ErrInvalid))
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce must not be negative, got %s: %w", c.Watch.Debounce, ErrInvalid))
	}
	return errors.Join(errs...)
}
