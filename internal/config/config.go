// Copyright (c) 2025 Course Planner contributors
// Course Planner - course catalog integrity and persistence
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads the course planner configuration from YAML files,
// environment variables and command-line flags, in ascending precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// DatabaseConfig selects the storage engine and its DSN.
type DatabaseConfig struct {
	Type string `mapstructure:"type" yaml:"type"`
	DSN  string `mapstructure:"dsn" yaml:"dsn"`
}

// SourceConfig points at the CSV catalog used by load and migrate.
type SourceConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// Config is the root configuration for the course planner.
type Config struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Source   SourceConfig   `mapstructure:"source" yaml:"source"`
	Language string         `mapstructure:"language" yaml:"language"`
	Debug    bool           `mapstructure:"debug" yaml:"debug"`
}

// GetConfigPath returns the full path for the user or system configuration
// file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "CoursePlanner")
		default: // Linux, macOS, etc.
			configDir = "/etc/courseplanner"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "courseplanner")
	}

	return filepath.Join(configDir, "courseplanner.yaml"), nil
}

// LoadConfig merges defaults, config files, environment variables and the
// command's flags into T. An explicit config file path, when non-nil, takes
// precedence over the search locations.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, configFilePath *string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("courseplanner")
	v.SetConfigType("yaml")

	if configFilePath != nil && *configFilePath != "" {
		v.SetConfigFile(*configFilePath)
	}

	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".") // courseplanner.yaml in current dir

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine, any other read error is fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
	}

	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("courseplanner")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return c, err
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, nil
}

// WriteConfigFile persists c as YAML to the user or system config location.
func WriteConfigFile[T any](c *T, system bool) error {
	path, err := GetConfigPath(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return err
	}

	return nil
}
