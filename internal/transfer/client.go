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

package transfer

import "context"

// Client defines the interface to the remote archive store. All calls are
// synchronous and blocking with no automatic retry; a hung transfer stalls
// the invocation until the caller's external kill policy intervenes.
// This interface allows for easy mocking in tests.
type Client interface {
	// Copy copies source to the destination directory, overwriting any
	// existing file of the same name.
	Copy(ctx context.Context, source, dest string) error

	// Move is Copy followed by removal of the source.
	Move(ctx context.Context, source, dest string) error

	// Exists probes whether path exists on the remote. A clean "not
	// found" answer from the tool returns (false, nil); any other tool
	// failure is returned as an error rather than being conflated with
	// absence.
	Exists(ctx context.Context, path string) (bool, error)
}

// Config carries the transfer tool settings for one invocation. It replaces
// any process-wide mutable tool configuration: construct a client with an
// explicit value instead.
type Config struct {
	// Binary is the transfer tool executable. Defaults to "rclone".
	Binary string

	// ConfigFile is passed to the tool as its own configuration path.
	ConfigFile string

	// LogFile is the tool's log destination, separate from the
	// changer's log.
	LogFile string

	// ExtraOptions is a single space-delimited string of additional
	// tool options, appended after the fixed option set.
	ExtraOptions string
}
