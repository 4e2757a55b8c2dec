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

// Package transfer moves virtual tape files between the local drive path
// and the remote archive store by driving an external command-line tool
// (rclone by default).
//
// The tool is an opaque collaborator: its output is discarded and a
// non-zero exit is the sole failure signal. The one refinement over a bare
// exit check is the Exists probe, which separates the tool's clean
// "not found" exit from genuine failures so that a misconfigured tool is
// not mistaken for an absent volume.
package transfer
