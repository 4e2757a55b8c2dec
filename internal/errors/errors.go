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

// Package errors defines sentinel errors for consistent error handling across
// the changer. These errors map to specific exit codes in the CLI so the
// backup application can distinguish failure modes when scripting.
package errors

import "errors"

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrTransferFailed indicates the transfer tool exited non-zero while
	// moving a volume between the drive and the remote archive store.
	// Maps to exit code 3.
	ErrTransferFailed = errors.New("transfer tool failed")

	// ErrInvalidState indicates an unload was requested for a slot that is
	// not the one currently in the drive. The persisted state is left
	// untouched when this is returned.
	// Maps to exit code 4.
	ErrInvalidState = errors.New("changer state conflict")

	// ErrUnknownCommand indicates an unrecognized changer command name.
	// Returned before any lock or state access.
	// Maps to exit code 2.
	ErrUnknownCommand = errors.New("unknown changer command")

	// ErrInvalidSlot indicates a slot outside [1, slotCount] or a missing
	// slot argument for a command that requires one.
	// Maps to exit code 2.
	ErrInvalidSlot = errors.New("invalid slot")

	// ErrConfiguration indicates the changer cannot run as configured,
	// such as a missing transfer tool binary or an unusable option value.
	// Maps to exit code 2.
	ErrConfiguration = errors.New("changer misconfigured")
)
