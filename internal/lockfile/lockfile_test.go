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

package lockfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireCreatesLockFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "changer.lock")

	lock, err := Acquire(path)
	require.NoError(t, err)
	defer lock.Release()

	_, err = os.Stat(path)
	assert.NoError(t, err, "lock file should exist")
	assert.Equal(t, path, lock.Path())
}

func TestTryAcquireConflict(t *testing.T) {
	path := filepath.Join(t.TempDir(), "changer.lock")

	held, err := Acquire(path)
	require.NoError(t, err)

	// flock conflicts across open file descriptions, so a second open of
	// the same path must be refused even within one process.
	_, err = TryAcquire(path)
	assert.ErrorIs(t, err, ErrWouldBlock)

	require.NoError(t, held.Release())

	lock, err := TryAcquire(path)
	require.NoError(t, err, "lock should be free after release")
	require.NoError(t, lock.Release())
}

func TestReleaseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "changer.lock")

	lock, err := Acquire(path)
	require.NoError(t, err)

	require.NoError(t, lock.Release())
	require.NoError(t, lock.Release())
}
