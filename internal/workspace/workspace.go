// Package workspace serializes commands that modify a source tree.
//
// Mutating commands hold an advisory file lock on <src>/.ankideck.lock for
// their whole run. A second invocation against the same tree fails fast
// instead of interleaving writes.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFile is the lock file name inside the source tree.
const LockFile = ".ankideck.lock"

// ErrLocked reports that another process holds the lock.
var ErrLocked = errors.New("source tree is locked by another ankideck process")

// Lock is a held source-tree lock.
type Lock struct {
	path string
	lock *flock.Flock
}

// Acquire takes the lock of the source tree at root without blocking,
// creating root when it does not exist yet.
func Acquire(root string) (*Lock, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("ensure source directory: %w", err)
	}
	path := filepath.Join(root, LockFile)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrLocked, path)
	}
	return &Lock{path: path, lock: fl}, nil
}

// Release drops the lock. It is safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock %s: %w", l.path, err)
	}
	return nil
}
