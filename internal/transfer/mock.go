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

import (
	"context"
	"fmt"

	changererrors "github.com/vtapehq/cloud-changer/internal/errors"
)

// Call records one invocation of a mock client method.
type Call struct {
	Verb   string
	Source string
	Dest   string
}

// MockClient is a mock implementation of the Client interface for testing.
type MockClient struct {
	// RemotePaths are the paths Exists reports as present.
	RemotePaths map[string]bool

	// CopyErr, MoveErr and ExistsErr force the corresponding method to
	// fail.
	CopyErr   error
	MoveErr   error
	ExistsErr error

	// ShouldFailTransfer makes Copy and Move fail with a wrapped
	// ErrTransferFailed.
	ShouldFailTransfer bool

	// Calls records every method invocation in order.
	Calls []Call
}

// NewMockClient creates a mock client with no remote content.
func NewMockClient() *MockClient {
	return &MockClient{RemotePaths: make(map[string]bool)}
}

// Copy implements the Client interface.
func (m *MockClient) Copy(ctx context.Context, source, dest string) error {
	m.Calls = append(m.Calls, Call{Verb: "copy", Source: source, Dest: dest})

	if err := ctx.Err(); err != nil {
		return err
	}
	if m.ShouldFailTransfer {
		return fmt.Errorf("copy %s to %s: %w", source, dest,
			changererrors.ErrTransferFailed)
	}
	return m.CopyErr
}

// Move implements the Client interface.
func (m *MockClient) Move(ctx context.Context, source, dest string) error {
	m.Calls = append(m.Calls, Call{Verb: "move", Source: source, Dest: dest})

	if err := ctx.Err(); err != nil {
		return err
	}
	if m.ShouldFailTransfer {
		return fmt.Errorf("move %s to %s: %w", source, dest,
			changererrors.ErrTransferFailed)
	}
	return m.MoveErr
}

// Exists implements the Client interface.
func (m *MockClient) Exists(ctx context.Context, path string) (bool, error) {
	m.Calls = append(m.Calls, Call{Verb: "exists", Source: path})

	if err := ctx.Err(); err != nil {
		return false, err
	}
	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}
	return m.RemotePaths[path], nil
}

// CallVerbs returns the verbs of all recorded calls, in order. Convenient
// for asserting call sequences.
func (m *MockClient) CallVerbs() []string {
	verbs := make([]string, 0, len(m.Calls))
	for _, c := range m.Calls {
		verbs = append(verbs, c.Verb)
	}
	return verbs
}
