// Package config loads the framegen configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"shireesh.com/framegen/internal/subst"
)

const DefaultPath = "~/.framegen.yaml"

// Validator is implemented by configuration types that check themselves after loading.
type Validator interface {
	Validate() error
}

type Config struct {
	// TemplatesDir holds user template sets that shadow the built-in ones.
	TemplatesDir string            `yaml:"templates_dir"`
	OutputDir    string            `yaml:"output_dir"`
	Hooks        bool              `yaml:"hooks"`
	Overwrite    bool              `yaml:"overwrite"`
	Workers      int               `yaml:"workers"`
	LogLevel     string            `yaml:"log_level"`
	LogFormat    string            `yaml:"log_format"`
	Variables    map[string]string `yaml:"variables"`
}

func Default() Config {
	return Config{
		TemplatesDir: "~/framegen/templates",
		OutputDir:    ".",
		Hooks:        true,
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error, got %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	for k := range c.Variables {
		if err := subst.ValidateVariableName(k); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the configuration at path on top of Default(). A missing file
// is only an error when explicit is set.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()
	expanded, err := ExpandPath(path)
	if err != nil {
		return cfg, err
	}

	err = LoadYAML(expanded, &cfg)
	if err != nil && (explicit || !errors.Is(err, os.ErrNotExist)) {
		return cfg, err
	}

	if cfg.TemplatesDir, err = ExpandPath(cfg.TemplatesDir); err != nil {
		return cfg, err
	}
	if cfg.OutputDir, err = ExpandPath(cfg.OutputDir); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadYAML unmarshals the file at path into target and validates it when
// target implements Validator.
func LoadYAML[T any](path string, target *T) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to parse YAML configuration: %w", err)
	}

	if validator, ok := any(target).(Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
	}
	return nil
}

// ExpandPath replaces a leading "~" with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
