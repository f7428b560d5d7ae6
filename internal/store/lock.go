package store

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// AcquireLock takes the data-dir lock so two watcher processes cannot share
// one database. The caller unlocks on shutdown.
func AcquireLock(dataDir string) (*flock.Flock, error) {
	lock := flock.New(filepath.Join(dataDir, "recruitwatch.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire data dir lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("data dir %s is locked by another instance", dataDir)
	}
	return lock, nil
}
