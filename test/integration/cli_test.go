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

package integration

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vtapehq/cloud-changer/test/testutil"
)

func TestLoadedOnFreshDeployment(t *testing.T) {
	env := testutil.NewChangerEnv(t)

	result := testutil.RunCLI(t, env.Args("loaded", ""), nil)

	assert.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)
	assert.Equal(t, "0\n", result.Stdout, "fresh deployment reports an empty drive")
}

func TestStatePersistsAcrossProcesses(t *testing.T) {
	env := testutil.NewChangerEnv(t)

	// Invocation A: load slot 5.
	result := testutil.RunCLI(t, env.Args("load", "5"), nil)
	require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)

	// Invocation B: a fresh process using the same state file.
	result = testutil.RunCLI(t, env.Args("loaded", ""), nil)
	assert.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)
	assert.Equal(t, "5\n", result.Stdout)
}

func TestLoadUnloadRoundTrip(t *testing.T) {
	env := testutil.NewChangerEnv(t)

	result := testutil.RunCLI(t, env.Args("load", "7"), nil)
	require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)

	// Write some tape data onto the drive, as a backup job would.
	require.NoError(t, os.WriteFile(env.Archive, []byte("backup payload"), 0o644))

	result = testutil.RunCLI(t, env.Args("unload", "7"), nil)
	require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)

	// The volume traveled to its slot in the library.
	data, err := os.ReadFile(env.SlotVolume("7"))
	require.NoError(t, err)
	assert.Equal(t, "backup payload", string(data))

	// The drive is empty again, durably.
	info, err := os.Stat(env.Archive)
	require.NoError(t, err)
	assert.Zero(t, info.Size())

	result = testutil.RunCLI(t, env.Args("loaded", ""), nil)
	assert.Equal(t, "0\n", result.Stdout)
}

func TestReloadRoundTripRestoresVolume(t *testing.T) {
	env := testutil.NewChangerEnv(t)

	result := testutil.RunCLI(t, env.Args("load", "3"), nil)
	require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)
	require.NoError(t, os.WriteFile(env.Archive, []byte("written on slot 3"), 0o644))
	result = testutil.RunCLI(t, env.Args("unload", "3"), nil)
	require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)

	// Loading the slot again brings the data back from the library.
	result = testutil.RunCLI(t, env.Args("load", "3"), nil)
	require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)

	data, err := os.ReadFile(env.Archive)
	require.NoError(t, err)
	assert.Equal(t, "written on slot 3", string(data))
}

func TestImplicitUnloadAcrossProcesses(t *testing.T) {
	env := testutil.NewChangerEnv(t)

	result := testutil.RunCLI(t, env.Args("load", "1"), nil)
	require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)
	require.NoError(t, os.WriteFile(env.Archive, []byte("slot 1 data"), 0o644))

	result = testutil.RunCLI(t, env.Args("load", "2"), nil)
	require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)

	// Slot 1's volume went home before slot 2 was loaded.
	data, err := os.ReadFile(env.SlotVolume("1"))
	require.NoError(t, err)
	assert.Equal(t, "slot 1 data", string(data))

	result = testutil.RunCLI(t, env.Args("loaded", ""), nil)
	assert.Equal(t, "2\n", result.Stdout)
}

func TestUnloadWrongSlotFailsWithoutTouchingState(t *testing.T) {
	env := testutil.NewChangerEnv(t)

	result := testutil.RunCLI(t, env.Args("load", "4"), nil)
	require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)

	result = testutil.RunCLI(t, env.Args("unload", "9"), nil)
	assert.Equal(t, 4, result.ExitCode, "state-consistency errors exit 4")
	assert.Contains(t, result.Stderr, "changer state conflict")

	result = testutil.RunCLI(t, env.Args("loaded", ""), nil)
	assert.Equal(t, "4\n", result.Stdout, "state must be unchanged")
}

func TestFailedUnloadKeepsLocalData(t *testing.T) {
	env := testutil.NewChangerEnv(t)

	result := testutil.RunCLI(t, env.Args("load", "6"), nil)
	require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)
	require.NoError(t, os.WriteFile(env.Archive, []byte("precious"), 0o644))

	// Break the tool for the unload only.
	result = testutil.RunCLI(t, env.Args("unload", "6"), map[string]string{
		"FAKE_TOOL_EXIT": "1",
	})
	assert.Equal(t, 3, result.ExitCode, "transfer failures exit 3")

	data, err := os.ReadFile(env.Archive)
	require.NoError(t, err)
	assert.Equal(t, "precious", string(data), "local file must survive a failed unload")

	result = testutil.RunCLI(t, env.Args("loaded", ""), nil)
	assert.Equal(t, "6\n", result.Stdout, "slot must still be loaded")
}

func TestListAndSlots(t *testing.T) {
	env := testutil.NewChangerEnv(t)
	args := append([]string{"--slots", "3", "--prefix", "VTAPE"}, env.Args("list", "")...)

	result := testutil.RunCLI(t, args, nil)
	require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)
	assert.Equal(t, "1:VTAPE-00001\n2:VTAPE-00002\n3:VTAPE-00003\n", result.Stdout)

	result = testutil.RunCLI(t, env.Args("slots", ""), nil)
	require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)
	assert.Equal(t, "8192\n", result.Stdout, "default slot count")
}

func TestUnknownCommandFailsBeforeStateExists(t *testing.T) {
	env := testutil.NewChangerEnv(t)

	result := testutil.RunCLI(t, env.Args("eject", "1"), nil)
	assert.Equal(t, 2, result.ExitCode)
	assert.Contains(t, result.Stderr, "unknown changer command")

	_, err := os.Stat(env.StateFile)
	assert.True(t, os.IsNotExist(err), "unknown commands must not touch state")
}

func TestEnvironmentOverrides(t *testing.T) {
	env := testutil.NewChangerEnv(t)

	result := testutil.RunCLI(t,
		[]string{
			"--lock-file", env.LockFile,
			"--log-file", env.LogFile,
			"--state-file", env.StateFile,
			env.Root, "slots", "", env.Archive,
		},
		map[string]string{"CLOUD_CHANGER_SLOTS": "42"},
	)
	require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)
	assert.Equal(t, "42\n", result.Stdout)
}

func TestStateFileIsReadableYAML(t *testing.T) {
	env := testutil.NewChangerEnv(t)

	result := testutil.RunCLI(t, env.Args("load", "5"), nil)
	require.Equal(t, 0, result.ExitCode, "stderr: %s", result.Stderr)

	data, err := os.ReadFile(env.StateFile)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, "loaded_slot: 5"), "state file:\n%s", text)
	assert.True(t, strings.Contains(text, "last_op_id:"), "state file:\n%s", text)
}
