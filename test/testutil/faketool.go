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

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// fakeToolScript implements the transfer tool contract against plain local
// paths: copy and move into a destination directory, and lsf exiting 3 for
// a missing path (the tool's "directory not found" code). FAKE_TOOL_EXIT
// forces an exit code to simulate a broken tool.
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

// WriteFakeTransferTool writes the fake tool script into dir and returns
// its path.
func WriteFakeTransferTool(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "fake-rclone")
	if err := os.WriteFile(path, []byte(fakeToolScript), 0o755); err != nil {
		t.Fatalf("failed to write fake transfer tool: %v", err)
	}
	return path
}

// ChangerEnv is a self-contained changer deployment in temp directories:
// a local "remote" library root, an archive device file, and private lock,
// log, and state paths.
type ChangerEnv struct {
	Root       string // changer device: local dir standing in for the remote
	Archive    string // archive device file
	LockFile   string
	LogFile    string
	StateFile  string
	ToolBinary string
}

// NewChangerEnv lays out a changer deployment under t.TempDir.
func NewChangerEnv(t *testing.T) *ChangerEnv {
	t.Helper()

	base := t.TempDir()
	env := &ChangerEnv{
		Root:       filepath.Join(base, "library"),
		Archive:    filepath.Join(base, "drive0.img"),
		LockFile:   filepath.Join(base, "changer.lock"),
		LogFile:    filepath.Join(base, "changer.log"),
		StateFile:  filepath.Join(base, "state.yaml"),
		ToolBinary: WriteFakeTransferTool(t, base),
	}
	if err := os.MkdirAll(env.Root, 0o755); err != nil {
		t.Fatalf("failed to create library root: %v", err)
	}
	return env
}

// Args builds the full command line for one invocation in this deployment.
func (e *ChangerEnv) Args(command, slot string) []string {
	return []string{
		"--lock-file", e.LockFile,
		"--log-file", e.LogFile,
		"--state-file", e.StateFile,
		"--rclone", e.ToolBinary,
		e.Root, command, slot, e.Archive,
	}
}

// SlotVolume returns the path of the volume file for a slot inside the
// fake remote library.
func (e *ChangerEnv) SlotVolume(slot string) string {
	return filepath.Join(e.Root, slot, filepath.Base(e.Archive))
}
