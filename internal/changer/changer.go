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

package changer

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"

	changererrors "github.com/vtapehq/cloud-changer/internal/errors"
	"github.com/vtapehq/cloud-changer/internal/state"
	"github.com/vtapehq/cloud-changer/internal/transfer"
)

// Options configure a Changer for one invocation. None of this is
// persisted; the backup application passes it on every call.
type Options struct {
	// ChangerRoot is the remote location acting as the tape library.
	// Slot directories live directly under it.
	ChangerRoot string

	// ArchiveDevice is the local file standing in for the tape drive.
	ArchiveDevice string

	// SlotCount is the number of addressable slots in the library.
	SlotCount int

	// Prefix names virtual tape labels: "{Prefix}-{slot:05d}".
	Prefix string
}

// Changer is the autoloader state machine for one invocation. It mutates
// the in-memory state it was given; persisting the result is the caller's
// responsibility, and only after the transition returned nil.
type Changer struct {
	client transfer.Client
	st     *state.ChangerState
	opts   Options
	log    zerolog.Logger
}

// New returns a Changer over the given state. The client may be nil for
// invocations that only run pure queries (Loaded, List, Slots).
func New(client transfer.Client, st *state.ChangerState, opts Options, log zerolog.Logger) *Changer {
	return &Changer{client: client, st: st, opts: opts, log: log}
}

// Loaded reports the slot currently in the drive, state.EmptySlot if none.
func (c *Changer) Loaded() int {
	return c.st.LoadedSlot
}

// Slots reports the configured slot count.
func (c *Changer) Slots() int {
	return c.opts.SlotCount
}

// List yields (slot, label) for every slot in ascending order. The sequence
// is lazy and restartable; it touches no state.
func (c *Changer) List() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for i := 1; i <= c.opts.SlotCount; i++ {
			if !yield(i, Label(c.opts.Prefix, i)) {
				return
			}
		}
	}
}

// Label formats the virtual tape label for a slot, e.g. "VTAPE-00042".
func Label(prefix string, slot int) string {
	return fmt.Sprintf("%s-%05d", prefix, slot)
}

// Load places the virtual tape from slot into the drive.
//
// A drive occupied by a different slot is implicitly unloaded first, the
// way a physical changer would refuse to stack a second cartridge. Loading
// the slot that is already in the drive is a no-op. If the slot holds no
// volume on the remote, a blank one is started locally.
func (c *Changer) Load(ctx context.Context, slot int) error {
	if err := c.checkSlot(slot); err != nil {
		return err
	}

	switch current := c.st.LoadedSlot; {
	case current == slot:
		c.log.Warn().Int("slot", slot).Msg("slot already loaded, nothing to do")
		return nil
	case current != state.EmptySlot:
		c.log.Warn().Int("loaded", current).Int("requested", slot).
			Msg("drive occupied, unloading current slot first")
		if err := c.Unload(ctx, current); err != nil {
			return err
		}
	}

	source := path.Join(c.slotPath(slot), filepath.Base(c.opts.ArchiveDevice))
	exists, err := c.client.Exists(ctx, source)
	if err != nil {
		return err
	}

	if exists {
		if err := c.client.Copy(ctx, source, filepath.Dir(c.opts.ArchiveDevice)); err != nil {
			return err
		}
	} else {
		c.log.Info().Int("slot", slot).Str("source", source).
			Msg("no volume in slot, starting a blank one")
		// Create truncates in place. The previous drive contents are
		// only gone once the create has already succeeded, so a
		// failure here cannot lose them.
		f, err := os.Create(c.opts.ArchiveDevice)
		if err != nil {
			return fmt.Errorf("failed to create blank volume %s: %w",
				c.opts.ArchiveDevice, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close blank volume %s: %w",
				c.opts.ArchiveDevice, err)
		}
	}

	c.st.LoadedSlot = slot
	c.log.Info().Int("slot", slot).Msg("slot loaded")
	return nil
}

// Unload returns the drive's contents to slot.
//
// Valid only when that exact slot is in the drive; anything else is a
// state-consistency error and mutates nothing. A failed remote copy leaves
// the local archive file untruncated and the state unchanged, so no tape
// data is lost to a flaky transfer.
func (c *Changer) Unload(ctx context.Context, slot int) error {
	if err := c.checkSlot(slot); err != nil {
		return err
	}

	switch current := c.st.LoadedSlot; {
	case current == state.EmptySlot:
		return fmt.Errorf("cannot unload slot %d, drive is empty: %w",
			slot, changererrors.ErrInvalidState)
	case current != slot:
		return fmt.Errorf("cannot unload slot %d while drive holds slot %d: %w",
			slot, current, changererrors.ErrInvalidState)
	}

	if err := c.client.Copy(ctx, c.opts.ArchiveDevice, c.slotPath(slot)); err != nil {
		return err
	}
	if err := os.Truncate(c.opts.ArchiveDevice, 0); err != nil {
		return fmt.Errorf("failed to truncate %s after unload: %w",
			c.opts.ArchiveDevice, err)
	}

	c.st.LoadedSlot = state.EmptySlot
	c.log.Info().Int("slot", slot).Msg("slot unloaded")
	return nil
}

// slotPath is the remote directory backing a slot. Remote paths always use
// forward slashes regardless of host OS.
func (c *Changer) slotPath(slot int) string {
	return path.Join(c.opts.ChangerRoot, strconv.Itoa(slot))
}

func (c *Changer) checkSlot(slot int) error {
	if slot < 1 || slot > c.opts.SlotCount {
		return fmt.Errorf("slot %d outside 1..%d: %w",
			slot, c.opts.SlotCount, changererrors.ErrInvalidSlot)
	}
	return nil
}
