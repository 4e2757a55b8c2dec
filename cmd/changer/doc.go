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

// Command cloud-changer is an autoloader control program for backup
// applications. The application invokes it once per changer operation:
//
//	cloud-changer [flags] <changer-device> <command> [<slot>] [<archive-device>]
//
// The changer device is a remote path (any rclone remote) acting as the
// tape library; the archive device is the local file standing in for the
// drive. Every invocation on a host is serialized through an exclusive
// lock file, and the currently loaded slot is persisted to a small YAML
// state file between invocations.
//
// Exit codes:
//
//	0  success
//	1  general error
//	2  usage, unknown command, bad slot, or configuration error
//	3  transfer tool failure
//	4  state-consistency error (unload of a slot not in the drive)
package main
