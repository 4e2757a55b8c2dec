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

// Package config types define the configuration structures used throughout
// cloud-changer. These types represent settings that can be loaded from
// YAML configuration files, environment variables, or command-line flags.
package config

// Config represents the complete configuration for cloud-changer. It
// consolidates settings from various sources and provides a unified
// interface for accessing configuration values throughout the program.
type Config struct {
	Paths    PathsConfig    `yaml:"paths"`
	Transfer TransferConfig `yaml:"transfer"`
	Library  LibraryConfig  `yaml:"library"`
}

// PathsConfig contains the well-known file locations the changer depends
// on. All of them are per-host; pointing two hosts at one shared lock file
// does not provide cross-host coordination.
type PathsConfig struct {
	LockFile  string `yaml:"lock_file"`
	LogFile   string `yaml:"log_file"`
	StateFile string `yaml:"state_file"`
}

// TransferConfig contains the external transfer tool settings: the binary
// to run and the options forwarded to it on every call.
type TransferConfig struct {
	Binary       string `yaml:"binary"`
	ConfigFile   string `yaml:"config_file"`
	LogFile      string `yaml:"log_file"`
	ExtraOptions string `yaml:"extra_options"`
}

// LibraryConfig describes the shape of the emulated tape library: how many
// slots the changer reports and how virtual tape labels are formed.
type LibraryConfig struct {
	SlotCount int    `yaml:"slot_count"`
	Prefix    string `yaml:"prefix"`
}

// DefaultConfig returns a Config with sensible defaults. The slot count
// matches what common backup applications probe for by default; the paths
// assume a system-level installation and are normally overridden per
// deployment.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			LockFile:  "/var/lock/cloud-changer.lock",
			LogFile:   "/var/log/cloud-changer.log",
			StateFile: "/var/lib/cloud-changer/state.yaml",
		},
		Transfer: TransferConfig{
			Binary: "rclone",
		},
		Library: LibraryConfig{
			SlotCount: 8192,
			Prefix:    "VTAPE",
		},
	}
}
