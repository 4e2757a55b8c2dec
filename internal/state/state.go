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

package state

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/vtapehq/cloud-changer/internal/lockfile"
)

// Store loads and saves changer state at a fixed file path. Both operations
// run under a short-lived exclusive flock, nested inside the run lock held
// by the invocation.
type Store struct {
	path string
	log  zerolog.Logger
}

// NewStore returns a Store bound to the given state file path.
func NewStore(path string, log zerolog.Logger) *Store {
	return &Store{path: path, log: log}
}

// Path returns the state file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads and deserializes the state file. A missing, unreadable,
// malformed, or wrong-version file yields a fresh empty state and a warning
// rather than an error: that is the normal first-run condition, and an
// unrecoverable state file is never worth failing a backup job over.
// An error is returned only when the state lock itself cannot be taken.
func (s *Store) Load() (*ChangerState, error) {
	lock, err := lockfile.Acquire(s.lockPath())
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Warn().Str("state_file", s.path).
				Msg("no changer state found, assuming empty drive")
		} else {
			s.log.Warn().Err(err).Str("state_file", s.path).
				Msg("unreadable changer state, assuming empty drive")
		}
		return NewEmpty(), nil
	}

	var st ChangerState
	if err := yaml.Unmarshal(data, &st); err != nil {
		s.log.Warn().Err(err).Str("state_file", s.path).
			Msg("corrupt changer state, assuming empty drive")
		return NewEmpty(), nil
	}
	if st.Version != CurrentVersion {
		s.log.Warn().Int("version", st.Version).Int("want", CurrentVersion).
			Str("state_file", s.path).
			Msg("unsupported changer state version, assuming empty drive")
		return NewEmpty(), nil
	}

	return &st, nil
}

// Save serializes the state and overwrites the state file in full. It uses
// a write-to-temp-and-rename pattern so a crash mid-write leaves the last
// complete state in place.
func (s *Store) Save(st *ChangerState) error {
	st.Version = CurrentVersion

	lock, err := lockfile.Acquire(s.lockPath())
	if err != nil {
		return err
	}
	defer lock.Release()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tempFile := s.path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temporary state file: %w", err)
	}

	// Sync to ensure data is flushed to disk before the rename.
	file, err := os.Open(tempFile)
	if err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to open temp file for sync: %w", err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempFile, s.path); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// The lock lives beside the state file rather than on it: the atomic rename
// in Save replaces the state file's inode, which would silently invalidate
// a lock taken on the file itself.
func (s *Store) lockPath() string {
	return s.path + ".lock"
}
