// Copyright 2026 VtapeHQ, Inc.
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides configuration management for cloud-changer with
// support for multiple configuration sources and a well-defined precedence
// order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables (CLOUD_CHANGER_*)
//  3. Configuration file
//  4. Built-in defaults
//
// The package supports YAML configuration files and provides automatic
// discovery of configuration in standard locations.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	changererrors "github.com/vtapehq/cloud-changer/internal/errors"
)

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file. Otherwise, it searches standard locations:
//   - .cloud-changer.yaml (current directory)
//   - .cloud-changer.yml (current directory)
//   - ~/.cloud-changer/config.yaml
//   - ~/.cloud-changer/config.yml
//
// Environment variables are applied after loading the config file, allowing
// runtime overrides. Path expansion (~ and environment variables) is
// performed on file paths.
//
// Returns an error if the specified config file cannot be loaded, but will
// succeed with defaults if no config file is found in standard locations.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		defaultPaths := []string{
			".cloud-changer.yaml",
			".cloud-changer.yml",
			filepath.Join(os.Getenv("HOME"), ".cloud-changer", "config.yaml"),
			filepath.Join(os.Getenv("HOME"), ".cloud-changer", "config.yml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	applyEnvOverrides(cfg)

	cfg.Paths.LockFile = expandPath(cfg.Paths.LockFile)
	cfg.Paths.LogFile = expandPath(cfg.Paths.LogFile)
	cfg.Paths.StateFile = expandPath(cfg.Paths.StateFile)

	return cfg, nil
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&cfg.Paths.LockFile, "CLOUD_CHANGER_LOCK_FILE")
	setString(&cfg.Paths.LogFile, "CLOUD_CHANGER_LOG_FILE")
	setString(&cfg.Paths.StateFile, "CLOUD_CHANGER_STATE_FILE")
	setString(&cfg.Transfer.Binary, "CLOUD_CHANGER_RCLONE")
	setString(&cfg.Transfer.ConfigFile, "CLOUD_CHANGER_RCLONE_CONFIG")
	setString(&cfg.Transfer.LogFile, "CLOUD_CHANGER_RCLONE_LOG")
	setString(&cfg.Transfer.ExtraOptions, "CLOUD_CHANGER_RCLONE_OPTIONS")
	setString(&cfg.Library.Prefix, "CLOUD_CHANGER_PREFIX")

	if slots := os.Getenv("CLOUD_CHANGER_SLOTS"); slots != "" {
		if n, err := strconv.Atoi(slots); err == nil && n > 0 {
			cfg.Library.SlotCount = n
		}
	}
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home := os.Getenv("HOME")
		path = filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// Validate checks if the configuration contains valid values. This should
// be called after loading configuration and applying flag overrides, before
// any lock is taken.
func (c *Config) Validate() error {
	if c.Library.SlotCount < 1 {
		return fmt.Errorf("slot count must be at least 1, got %d: %w",
			c.Library.SlotCount, changererrors.ErrConfiguration)
	}
	if c.Library.Prefix == "" {
		return fmt.Errorf("virtual tape prefix cannot be empty: %w",
			changererrors.ErrConfiguration)
	}
	if c.Paths.LockFile == "" {
		return fmt.Errorf("lock file path cannot be empty: %w",
			changererrors.ErrConfiguration)
	}
	if c.Paths.StateFile == "" {
		return fmt.Errorf("state file path cannot be empty: %w",
			changererrors.ErrConfiguration)
	}
	return nil
}
