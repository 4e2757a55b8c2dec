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

// Package state persists the changer's single piece of durable state: which
// virtual slot is currently in the drive.
//
// The state file is a small human-readable YAML document so operators can
// inspect and, in an emergency, hand-edit it. Every write is atomic, using
// a write-to-temp-and-rename pattern, and both reads and writes run under a
// short-lived exclusive file lock nested inside the invocation's run lock.
//
// A missing or unreadable state file is deliberately not an error: the
// store returns a fresh empty state and logs a warning, which is the normal
// first-run condition.
//
// Example usage:
//
//	store := state.NewStore("/var/lib/cloud-changer/state.yaml", log)
//	st, err := store.Load()
//	if err != nil {
//	    return err
//	}
//	st.LoadedSlot = 5
//	err = store.Save(st)
package state
