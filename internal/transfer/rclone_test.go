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
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	changererrors "github.com/vtapehq/cloud-changer/internal/errors"
)

// fakeToolScript mimics the transfer tool against the local filesystem:
// copy/move between plain paths, lsf exiting 3 for a missing path. Setting
// FAKE_TOOL_EXIT forces a specific exit code to simulate tool breakage.
const fakeToolScript = `#!/bin/sh
if [ -n "$FAKE_TOOL_EXIT" ]; then
  exit "$FAKE_TOOL_EXIT"
fi
while [ $# -gt 0 ]; do
  case "$1" in
    --config|--log-file) shift 2 ;;
    --*) shift ;;
    *) break ;;
  esac
done
verb=$1; shift
case "$verb" in
  copy) [ -e "$1" ] || exit 1; mkdir -p "$2" && cp "$1" "$2/" ;;
  move) [ -e "$1" ] || exit 1; mkdir -p "$2" && mv "$1" "$2/" ;;
  lsf)  [ -e "$1" ] || exit 3 ;;
  *) exit 2 ;;
esac
`

func writeFakeTool(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-rclone")
	require.NoError(t, os.WriteFile(path, []byte(fakeToolScript), 0o755))
	return path
}

func newFakeClient(t *testing.T) *RcloneClient {
	t.Helper()
	client, err := NewRcloneClient(Config{Binary: writeFakeTool(t)}, zerolog.Nop())
	require.NoError(t, err)
	return client
}

func TestNewRcloneClientMissingBinary(t *testing.T) {
	_, err := NewRcloneClient(Config{Binary: "no-such-transfer-tool"}, zerolog.Nop())
	assert.ErrorIs(t, err, changererrors.ErrConfiguration)
}

func TestFixedArgs(t *testing.T) {
	client, err := NewRcloneClient(Config{
		Binary:       writeFakeTool(t),
		ConfigFile:   "/etc/rclone.conf",
		LogFile:      "/var/log/rclone.log",
		ExtraOptions: "--transfers 1 --retries 1",
	}, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"--config", "/etc/rclone.conf",
		"--log-file", "/var/log/rclone.log",
		"--quiet", "--checksum",
		"--transfers", "1", "--retries", "1",
	}, client.fixedArgs)
}

func TestCopy(t *testing.T) {
	client := newFakeClient(t)

	dir := t.TempDir()
	source := filepath.Join(dir, "vol.img")
	dest := filepath.Join(dir, "remote", "5")
	require.NoError(t, os.WriteFile(source, []byte("tape data"), 0o644))

	require.NoError(t, client.Copy(context.Background(), source, dest))

	data, err := os.ReadFile(filepath.Join(dest, "vol.img"))
	require.NoError(t, err)
	assert.Equal(t, "tape data", string(data))
}

func TestCopyFailure(t *testing.T) {
	client := newFakeClient(t)

	err := client.Copy(context.Background(), "/nonexistent/vol.img", t.TempDir())
	assert.ErrorIs(t, err, changererrors.ErrTransferFailed)
}

func TestMove(t *testing.T) {
	client := newFakeClient(t)

	dir := t.TempDir()
	source := filepath.Join(dir, "vol.img")
	dest := filepath.Join(dir, "remote")
	require.NoError(t, os.WriteFile(source, []byte("tape data"), 0o644))

	require.NoError(t, client.Move(context.Background(), source, dest))

	_, err := os.Stat(source)
	assert.True(t, os.IsNotExist(err), "move should remove the source")
	_, err = os.Stat(filepath.Join(dest, "vol.img"))
	assert.NoError(t, err)
}

func TestExists(t *testing.T) {
	client := newFakeClient(t)

	dir := t.TempDir()
	present := filepath.Join(dir, "vol.img")
	require.NoError(t, os.WriteFile(present, nil, 0o644))

	ok, err := client.Exists(context.Background(), present)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.Exists(context.Background(), filepath.Join(dir, "missing.img"))
	require.NoError(t, err, "a clean not-found exit is not an error")
	assert.False(t, ok)
}

func TestExistsToolFailureIsAnError(t *testing.T) {
	client := newFakeClient(t)
	t.Setenv("FAKE_TOOL_EXIT", "7")

	ok, err := client.Exists(context.Background(), "/any/path")
	assert.False(t, ok)
	assert.ErrorIs(t, err, changererrors.ErrTransferFailed,
		"tool breakage must not be conflated with absence")
}
