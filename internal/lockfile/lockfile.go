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

// Package lockfile wraps flock(2) for serializing changer invocations.
//
// Two acquisition modes are provided. Acquire blocks without timeout and is
// used for the run lock that totally orders all invocations on one host.
// TryAcquire fails immediately with ErrWouldBlock and exists for tests and
// tooling that must observe a held lock without stalling.
//
// A kernel flock is released automatically when the owning process exits,
// so a crashed invocation can never wedge the changer.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// ErrWouldBlock is returned by TryAcquire when another process holds the lock.
var ErrWouldBlock = errors.New("lock held by another process")

// Lock is a held exclusive flock on a lock file. Release it with Release;
// process exit releases it regardless.
type Lock struct {
	path string
	f    *os.File
}

// Acquire opens the lock file, creating it if necessary, and takes an
// exclusive flock on it. It blocks indefinitely while another process holds
// the lock; callers that need a bound must impose it externally.
func Acquire(path string) (*Lock, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}
	return &Lock{path: path, f: f}, nil
}

// TryAcquire is Acquire without the blocking wait. It returns ErrWouldBlock
// when the lock is held elsewhere.
func TryAcquire(path string) (*Lock, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	err = unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	switch err {
	case nil:
		return &Lock{path: path, f: f}, nil
	case unix.EWOULDBLOCK:
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrWouldBlock)
	default:
		_ = f.Close()
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Release unlocks and closes the lock file. Calling Release more than once
// is a no-op.
func (l *Lock) Release() error {
	if l.f == nil {
		return nil
	}
	err := unix.Flock(int(l.f.Fd()), unix.LOCK_UN)
	cerr := l.f.Close()
	l.f = nil
	if err != nil {
		return fmt.Errorf("failed to unlock %s: %w", l.path, err)
	}
	return cerr
}

func open(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file %s: %w", path, err)
	}
	return f, nil
}
