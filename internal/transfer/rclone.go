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
	"errors"
	"fmt"
	"io"
	"os/exec"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	changererrors "github.com/vtapehq/cloud-changer/internal/errors"
)

// exitNotFound is the tool's exit code for "directory not found", the one
// failure Exists treats as a clean answer rather than an error.
const exitNotFound = 3

// RcloneClient runs the transfer tool as a subprocess. The tool's stdout
// and stderr are discarded; its exit code is the sole failure signal, with
// detail left to the tool's own log file.
type RcloneClient struct {
	binary    string
	fixedArgs []string
	log       zerolog.Logger
}

// NewRcloneClient resolves the tool binary and builds the fixed option set
// shared by every call. A binary that cannot be found on PATH is a
// configuration error, reported here rather than on first use.
func NewRcloneClient(cfg Config, log zerolog.Logger) (*RcloneClient, error) {
	binary := cfg.Binary
	if binary == "" {
		binary = "rclone"
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("transfer tool %q not found: %w", binary,
			changererrors.ErrConfiguration)
	}

	var args []string
	if cfg.ConfigFile != "" {
		args = append(args, "--config", cfg.ConfigFile)
	}
	if cfg.LogFile != "" {
		args = append(args, "--log-file", cfg.LogFile)
	}
	args = append(args, "--quiet", "--checksum")
	if opts := strings.Fields(cfg.ExtraOptions); len(opts) > 0 {
		args = append(args, opts...)
	}

	return &RcloneClient{binary: path, fixedArgs: args, log: log}, nil
}

// Copy implements Client.
func (c *RcloneClient) Copy(ctx context.Context, source, dest string) error {
	if err := c.run(ctx, "copy", source, dest); err != nil {
		return fmt.Errorf("copy %s to %s (%v): %w", source, dest, err,
			changererrors.ErrTransferFailed)
	}
	return nil
}

// Move implements Client.
func (c *RcloneClient) Move(ctx context.Context, source, dest string) error {
	if err := c.run(ctx, "move", source, dest); err != nil {
		return fmt.Errorf("move %s to %s (%v): %w", source, dest, err,
			changererrors.ErrTransferFailed)
	}
	return nil
}

// Exists implements Client. The remote is probed with the tool's list verb;
// exit code 0 means present, exitNotFound means absent, and anything else
// is a genuine tool failure that must not masquerade as an empty slot.
func (c *RcloneClient) Exists(ctx context.Context, path string) (bool, error) {
	err := c.run(ctx, "lsf", path)
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == exitNotFound {
		return false, nil
	}
	return false, fmt.Errorf("probe %s (%v): %w", path, err,
		changererrors.ErrTransferFailed)
}

// run invokes the tool with the fixed options, the verb, and positional
// paths, returning the raw exec error for the caller to classify.
func (c *RcloneClient) run(ctx context.Context, verb string, paths ...string) error {
	args := append(slices.Clone(c.fixedArgs), verb)
	args = append(args, paths...)

	cmd := exec.CommandContext(ctx, c.binary, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	c.log.Debug().Str("tool", c.binary).Strs("args", args).Msg("running transfer tool")
	return cmd.Run()
}
