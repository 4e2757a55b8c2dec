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

// Package changer implements the autoloader state machine: a single
// emulated tape drive whose contents are swapped against numbered slots in
// a remote archive store.
//
// The drive is the local archive device file; a slot is a directory named
// after its number under the changer root on the remote. Loading copies the
// slot's volume file over the drive (or starts a blank volume when the slot
// is empty); unloading copies the drive back to the slot and truncates the
// local file. Transitions either complete fully or leave both the state and
// the local file as they were.
package changer
