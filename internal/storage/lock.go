package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/1F47E/go-asciireel/internal/errs"
)

// OutputLock guards an output artifact against a concurrent run writing the same path.
type OutputLock struct {
	lock *flock.Flock
}

func LockOutput(output string) (*OutputLock, error) {
	lockPath := filepath.Join(filepath.Dir(output), "."+filepath.Base(output)+".lock")
	l := flock.New(lockPath)
	ok, err := l.TryLock()
	if err != nil {
		return nil, errs.Resource("lock output", err)
	}
	if !ok {
		return nil, errs.Resource("lock output", fmt.Errorf("%s is being written by another run", output))
	}
	return &OutputLock{lock: l}, nil
}

func (o *OutputLock) Unlock() error {
	path := o.lock.Path()
	if err := o.lock.Unlock(); err != nil {
		return errs.Resource("unlock output", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errs.Resource("unlock output", err)
	}
	return nil
}
