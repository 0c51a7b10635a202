// Package config loads csvjson settings from a YAML file.
//
// A config file sets defaults that command line flags override:
//
//	header: true
//	delimiter: ";"
//	workers: 8
//	output: out/
//
// Every key is optional.
package config

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
)

// DefaultFile is the config file read from the working directory when no
// path is given.
const DefaultFile = ".csvjson.yaml"

// Config holds the settings a config file may provide. Nil fields are unset.
type Config struct {
	Header    *bool   `yaml:"header"`
	Delimiter *string `yaml:"delimiter"`
	Workers   *int    `yaml:"workers"`
	Output    *string `yaml:"output"`

	// Path is the file the settings were read from, or empty.
	Path string `yaml:"-"`
}

// Load reads the config file at path. An empty path reads DefaultFile if it
// exists and yields an empty Config otherwise; an explicit path must exist.
func Load(fs afero.Fs, path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes YAML config data. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.DisallowUnknownField()); err != nil {
		return nil, err
	}

	if cfg.Delimiter != nil {
		if _, err := ParseDelimiter(*cfg.Delimiter); err != nil {
			return nil, err
		}
	}
	if cfg.Workers != nil && *cfg.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", *cfg.Workers)
	}
	return &cfg, nil
}

// ParseDelimiter returns the single character in s.
func ParseDelimiter(s string) (rune, error) {
	r, size := utf8.DecodeRuneInString(s)
	if s == "" || size != len(s) {
		return 0, fmt.Errorf("delimiter must be exactly one character, got %q", s)
	}
	return r, nil
}
