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
	"time"
)

// CurrentVersion is the current state schema version.
// Increment this when making breaking changes to the ChangerState structure.
const CurrentVersion = 1

// EmptySlot is the LoadedSlot sentinel meaning no tape is in the drive.
const EmptySlot = 0

// ChangerState is the single persisted record of the emulated autoloader.
// The state file is the sole source of truth for which virtual slot is in
// the drive; no component may carry a copy across invocations.
type ChangerState struct {
	// Version indicates the schema version of this state file.
	Version int `yaml:"version"`

	// LoadedSlot is the slot whose virtual tape is currently in the
	// drive, or EmptySlot when the drive is empty.
	LoadedSlot int `yaml:"loaded_slot"`

	// LastOpID identifies the invocation that last wrote this state.
	// Audit only; never read back for decisions.
	LastOpID string `yaml:"last_op_id,omitempty"`

	// LastOpTime records when that invocation completed.
	LastOpTime time.Time `yaml:"last_op_time,omitempty"`
}

// NewEmpty returns a fresh state with nothing in the drive. This is the
// state assumed on first run or when the state file is unreadable.
func NewEmpty() *ChangerState {
	return &ChangerState{
		Version:    CurrentVersion,
		LoadedSlot: EmptySlot,
	}
}

// Empty reports whether the drive holds no tape.
func (s *ChangerState) Empty() bool {
	return s.LoadedSlot == EmptySlot
}
