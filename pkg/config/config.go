// Package config loads the run credentials: the university subdomain, the
// space to engage with, and the session token.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no path is given.
const DefaultPath = "./config.json"

// ErrMissingField is wrapped by ConfigError when a required value is empty.
var ErrMissingField = errors.New("required field missing")

// Config holds the three values every run needs. The file is JSON in
// practice; anything that is not valid JSON is read as YAML.
type Config struct {
	// University is the subdomain in apiv2.{university}.aula.education
	University string `json:"university" yaml:"university"`

	// SpaceID is the space whose feed is paginated
	SpaceID string `json:"spaceId" yaml:"spaceId"`

	// Token is sent as x-session-token
	Token string `json:"token" yaml:"token"`
}

// ConfigError reports a configuration file that cannot be used.
type ConfigError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Load reads and validates the configuration file at path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &ConfigError{Path: path, Err: fmt.Errorf("read: %w", err)}
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, &ConfigError{Path: path, Err: err}
	}

	return cfg, nil
}

// Parse decodes and validates configuration bytes. Valid JSON is decoded
// with JSON rules (escapes, strict value types); other input goes to YAML.
func Parse(data []byte) (Config, error) {
	cfg, err := decode(data)
	if err != nil {
		return Config{}, fmt.Errorf("parse: %w", err)
	}

	cfg.University = strings.TrimSpace(cfg.University)
	cfg.SpaceID = strings.TrimSpace(cfg.SpaceID)
	cfg.Token = strings.TrimSpace(cfg.Token)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func decode(data []byte) (Config, error) {
	var cfg Config
	if json.Valid(data) {
		err := json.Unmarshal(data, &cfg)
		return cfg, err
	}
	err := yaml.Unmarshal(data, &cfg)
	return cfg, err
}

// Validate reports the first empty required value.
func (c Config) Validate() error {
	switch {
	case c.University == "":
		return fmt.Errorf("%w: university", ErrMissingField)
	case c.SpaceID == "":
		return fmt.Errorf("%w: spaceId", ErrMissingField)
	case c.Token == "":
		return fmt.Errorf("%w: token", ErrMissingField)
	}
	return nil
}
