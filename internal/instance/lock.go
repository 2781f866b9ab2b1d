package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrAlreadyRunning means another launcher holds the lock
var ErrAlreadyRunning = errors.New("another skylaunch instance is running")

// Lock is the per-user single instance lock
type Lock struct {
	fl *flock.Flock
}

// Acquire takes the lock file in dir without blocking
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	path := filepath.Join(dir, "skylaunch.lock")

	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("cannot acquire instance lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w (lock: %s)", ErrAlreadyRunning, path)
	}
	return &Lock{fl: fl}, nil
}

// Path returns the lock file path
func (l *Lock) Path() string {
	return l.fl.Path()
}

// Release drops the lock
func (l *Lock) Release() error {
	return l.fl.Unlock()
}
