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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vtapehq/cloud-changer/internal/changer"
	"github.com/vtapehq/cloud-changer/internal/config"
	changererrors "github.com/vtapehq/cloud-changer/internal/errors"
	"github.com/vtapehq/cloud-changer/internal/lockfile"
	"github.com/vtapehq/cloud-changer/internal/output"
	"github.com/vtapehq/cloud-changer/internal/state"
	"github.com/vtapehq/cloud-changer/internal/transfer"
)

// runFlags holds the command-line overrides. A flag only wins over config
// file and environment values when it was actually set.
type runFlags struct {
	configFile    string
	lockFile      string
	logFile       string
	stateFile     string
	rcloneBinary  string
	rcloneConfig  string
	rcloneLog     string
	rcloneOptions string
	slotCount     int
	prefix        string
	verbose       bool
}

// commandSpec describes one changer command. transfers marks commands that
// talk to the remote store and therefore need the transfer tool; those are
// also the only commands that mutate state.
type commandSpec struct {
	needsSlot    bool
	needsArchive bool
	transfers    bool
	run          func(ctx context.Context, chg *changer.Changer, out *output.Writer, slot int) error
}

// commands is the fixed dispatch table. An unknown name fails before any
// lock or state access.
var commands = map[string]commandSpec{
	"loaded": {
		run: func(_ context.Context, chg *changer.Changer, out *output.Writer, _ int) error {
			return out.WriteLoaded(chg.Loaded())
		},
	},
	"load": {
		needsSlot:    true,
		needsArchive: true,
		transfers:    true,
		run: func(ctx context.Context, chg *changer.Changer, _ *output.Writer, slot int) error {
			return chg.Load(ctx, slot)
		},
	},
	"unload": {
		needsSlot:    true,
		needsArchive: true,
		transfers:    true,
		run: func(ctx context.Context, chg *changer.Changer, _ *output.Writer, slot int) error {
			return chg.Unload(ctx, slot)
		},
	},
	"list": {
		run: func(_ context.Context, chg *changer.Changer, out *output.Writer, _ int) error {
			for i, label := range chg.List() {
				if err := out.WriteSlot(i, label); err != nil {
					return err
				}
			}
			return nil
		},
	},
	"slots": {
		run: func(_ context.Context, chg *changer.Changer, out *output.Writer, _ int) error {
			return out.WriteCount(chg.Slots())
		},
	},
}

func newRootCommand() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "cloud-changer [flags] <changer-device> <command> [<slot>] [<archive-device>]",
		Short: "Tape autoloader emulation over a remote archive store",
		Long: `cloud-changer emulates a SCSI tape autoloader for backup applications by
mapping load and unload operations onto transfers of virtual tape files
between a local archive device and a remote store driven by rclone.

The changer device is the remote path acting as the tape library; slot
directories live directly beneath it. Commands:

  loaded   print the slot currently in the drive (0 when empty)
  load     move the volume from <slot> into the drive
  unload   move the drive contents back to <slot>
  list     print every slot as "index:label"
  slots    print the configured slot count

The backup application always passes all four positional arguments;
commands that need fewer ignore the rest. Invocations on one host are
serialized by an exclusive lock file; no cross-host coordination is
provided.`,
		Version:       version,
		Args:          cobra.RangeArgs(2, 4),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChanger(cmd, args, &flags)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&flags.configFile, "config", "", "Config file path (default: standard locations)")
	fl.StringVar(&flags.lockFile, "lock-file", "", "Run lock file path")
	fl.StringVar(&flags.logFile, "log-file", "", "Changer log file path")
	fl.StringVar(&flags.stateFile, "state-file", "", "State file path")
	fl.StringVar(&flags.rcloneBinary, "rclone", "", "Transfer tool binary")
	fl.StringVar(&flags.rcloneConfig, "rclone-config", "", "Transfer tool config file")
	fl.StringVar(&flags.rcloneLog, "rclone-log", "", "Transfer tool log file")
	fl.StringVar(&flags.rcloneOptions, "rclone-options", "", "Extra transfer tool options, space-delimited")
	fl.IntVar(&flags.slotCount, "slots", 0, "Number of slots in the emulated library")
	fl.StringVar(&flags.prefix, "prefix", "", "Virtual tape label prefix")
	fl.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

// request is one parsed invocation from the backup application.
type request struct {
	changerDevice string
	command       string
	slot          int
	archiveDevice string
}

// parseRequest validates the positional argument contract. Extra positional
// arguments beyond what a command needs are accepted and ignored, because
// the backup application always passes all four.
func parseRequest(args []string) (request, error) {
	req := request{
		changerDevice: args[0],
		command:       args[1],
	}

	spec, ok := commands[req.command]
	if !ok {
		return req, fmt.Errorf("%q: %w", req.command, changererrors.ErrUnknownCommand)
	}

	if len(args) > 2 && args[2] != "" {
		slot, err := strconv.Atoi(args[2])
		switch {
		case err == nil:
			req.slot = slot
		case spec.needsSlot:
			return req, fmt.Errorf("slot %q is not a number: %w",
				args[2], changererrors.ErrInvalidSlot)
		}
		// Commands that ignore the slot tolerate a malformed one.
	}
	if len(args) > 3 {
		req.archiveDevice = args[3]
	}

	if spec.needsSlot && req.slot == 0 {
		return req, fmt.Errorf("%s requires a slot argument: %w",
			req.command, changererrors.ErrInvalidSlot)
	}
	if spec.needsArchive && req.archiveDevice == "" {
		return req, fmt.Errorf("%s requires an archive device argument: %w",
			req.command, changererrors.ErrConfiguration)
	}

	return req, nil
}

// runChanger executes one invocation: run lock, state load, dispatch,
// state save. State is saved only when the handler returned normally; a
// failed transition leaves the last successfully saved state authoritative.
func runChanger(cmd *cobra.Command, args []string, flags *runFlags) error {
	req, err := parseRequest(args)
	if err != nil {
		return err
	}
	spec := commands[req.command]

	cfg, err := config.LoadConfig(flags.configFile)
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg, cmd, flags)
	if err := cfg.Validate(); err != nil {
		return err
	}

	opID := ulid.Make().String()
	log, closeLog := newLogger(cfg.Paths.LogFile, flags.verbose, opID)
	defer closeLog()

	log.Info().
		Str("command", req.command).
		Str("changer", req.changerDevice).
		Int("slot", req.slot).
		Msg("changer invocation started")

	// The run lock totally orders invocations on this host, queries
	// included. Held until process exit.
	runLock, err := lockfile.Acquire(cfg.Paths.LockFile)
	if err != nil {
		log.Error().Err(err).Msg("failed to acquire run lock")
		return err
	}
	defer runLock.Release()

	var client transfer.Client
	if spec.transfers {
		client, err = transfer.NewRcloneClient(transfer.Config{
			Binary:       cfg.Transfer.Binary,
			ConfigFile:   cfg.Transfer.ConfigFile,
			LogFile:      cfg.Transfer.LogFile,
			ExtraOptions: cfg.Transfer.ExtraOptions,
		}, log)
		if err != nil {
			log.Error().Err(err).Msg("transfer tool unavailable")
			return err
		}
	}

	store := state.NewStore(cfg.Paths.StateFile, log)
	st, err := store.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load changer state")
		return err
	}

	chg := changer.New(client, st, changer.Options{
		ChangerRoot:   req.changerDevice,
		ArchiveDevice: req.archiveDevice,
		SlotCount:     cfg.Library.SlotCount,
		Prefix:        cfg.Library.Prefix,
	}, log)
	out := output.NewWriter(cmd.OutOrStdout())

	if err := spec.run(cmd.Context(), chg, out, req.slot); err != nil {
		log.Error().Err(err).Str("command", req.command).Msg("changer command failed")
		return err
	}

	if spec.transfers {
		st.LastOpID = opID
		st.LastOpTime = time.Now().UTC()
	}
	if err := store.Save(st); err != nil {
		log.Error().Err(err).Msg("failed to save changer state")
		return err
	}

	log.Info().Str("command", req.command).Int("loaded", st.LoadedSlot).
		Msg("changer invocation finished")
	return nil
}

// applyFlagOverrides gives explicitly set flags the last word over file and
// environment values.
func applyFlagOverrides(cfg *config.Config, cmd *cobra.Command, flags *runFlags) {
	set := func(name string, apply func()) {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}

	set("lock-file", func() { cfg.Paths.LockFile = flags.lockFile })
	set("log-file", func() { cfg.Paths.LogFile = flags.logFile })
	set("state-file", func() { cfg.Paths.StateFile = flags.stateFile })
	set("rclone", func() { cfg.Transfer.Binary = flags.rcloneBinary })
	set("rclone-config", func() { cfg.Transfer.ConfigFile = flags.rcloneConfig })
	set("rclone-log", func() { cfg.Transfer.LogFile = flags.rcloneLog })
	set("rclone-options", func() { cfg.Transfer.ExtraOptions = flags.rcloneOptions })
	set("slots", func() { cfg.Library.SlotCount = flags.slotCount })
	set("prefix", func() { cfg.Library.Prefix = flags.prefix })
}

// newLogger writes to the configured log file, falling back to stderr when
// the file cannot be opened so a bad log path never blocks a backup job.
// Every line carries the invocation's op id; invocations interleaved in a
// shared log file stay separable.
func newLogger(path string, verbose bool, opID string) (zerolog.Logger, func()) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	w := io.Writer(os.Stderr)
	closeFn := func() {}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			w = f
			closeFn = func() { _ = f.Close() }
		} else {
			fmt.Fprintf(os.Stderr, "cannot open log file %s: %v (logging to stderr)\n", path, err)
		}
	}

	log := zerolog.New(w).Level(level).With().
		Timestamp().
		Str("op_id", opID).
		Logger()
	return log, closeFn
}

// mapErrorToExitCode maps internal errors to the exit codes documented in
// the command help. The backup application only distinguishes zero from
// non-zero; the finer codes are for operators.
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, changererrors.ErrUnknownCommand) ||
		errors.Is(err, changererrors.ErrInvalidSlot) ||
		errors.Is(err, changererrors.ErrConfiguration) {
		return 2
	}
	if errors.Is(err, changererrors.ErrTransferFailed) {
		return 3
	}
	if errors.Is(err, changererrors.ErrInvalidState) {
		return 4
	}

	return 1
}
