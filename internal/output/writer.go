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

// Package output writes the changer's responses in the exact line formats
// the backup application parses: a bare slot number for loaded and slots,
// and "index:label" lines for list. Nothing else may go to stdout; human
// diagnostics belong on stderr or in the log file.
package output

import (
	"fmt"
	"io"
	"sync"
)

// Writer emits response lines to the backup application.
type Writer struct {
	mu    sync.Mutex
	out   io.Writer
	count int
}

// NewWriter creates a Writer over the given output, normally os.Stdout.
func NewWriter(w io.Writer) *Writer {
	return &Writer{out: w}
}

// WriteLoaded reports the slot currently in the drive, 0 for empty.
func (w *Writer) WriteLoaded(slot int) error {
	return w.writeLine("%d", slot)
}

// WriteSlot reports one list entry as "index:label".
func (w *Writer) WriteSlot(index int, label string) error {
	return w.writeLine("%d:%s", index, label)
}

// WriteCount reports the configured slot count.
func (w *Writer) WriteCount(n int) error {
	return w.writeLine("%d", n)
}

// Count returns the number of lines written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

func (w *Writer) writeLine(format string, args ...any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := fmt.Fprintf(w.out, format+"\n", args...); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	w.count++
	return nil
}
