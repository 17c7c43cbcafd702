// Package config loads user settings from an optional YAML file and merges command-line flags over them.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"kuchen/encoder"
)

var ErrInvalid = errors.New("invalid configuration")

const (
	LangChinese = "zh"
	LangNone    = "none"
)

type Config struct {
	// Provider is gemini, openai or fake. Empty picks one from the API keys in the environment.
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	// Format is the recording encoding: wav, flac or auto. Empty follows the provider.
	Format string `yaml:"format"`
	// Device is the microphone name. Empty uses the system default.
	Device  string `yaml:"device"`
	LogPath string `yaml:"log_path"`
	// Lang controls whether the translated instructions start expanded on the task card.
	Lang string `yaml:"lang"`
	Mute bool   `yaml:"mute"`
}

func Default() Config {
	return Config{Lang: LangChinese}
}

// DefaultPath is where Load looks when no --config flag is given.
func DefaultPath() string {
	if runtime.GOOS == "windows" {
		if d := os.Getenv("APPDATA"); d != "" {
			return filepath.Join(d, "kuchen", "config.yaml")
		}
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "kuchen", "config.yaml")
}

// Load reads path over the defaults. A missing file is an error only when required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	defer f.Close()
	return Decode(f)
}

func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return cfg, nil
}

// Merge lays the non-zero fields of flags over base and validates the result.
func Merge(base, flags Config) (Config, error) {
	if err := mergo.Merge(&base, flags, mergo.WithOverride); err != nil {
		return base, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return base, base.Validate()
}

func (c Config) Validate() error {
	switch c.Provider {
	case "", "gemini", "openai", "fake":
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalid, c.Provider)
	}
	switch c.Format {
	case "", encoder.FormatWAV, encoder.FormatFLAC, encoder.FormatAdaptive:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalid, c.Format)
	}
	switch c.Lang {
	case LangChinese, LangNone:
	default:
		return fmt.Errorf("%w: unknown lang %q", ErrInvalid, c.Lang)
	}
	return nil
}

// ShowInstructions reports whether the translated instructions start expanded.
func (c Config) ShowInstructions() bool { return c.Lang != LangNone }
