package testutil

import (
	"testing"

	"github.com/gofrs/flock"
)

// LockFile takes an exclusive lock on path, as another process sharing the
// lock file would, and returns a func that releases it.
func LockFile(t testing.TB, path string) func() {
	t.Helper()

	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		t.Fatalf("failed to lock %s: %v", path, err)
	}
	if !ok {
		t.Fatalf("lock %s is already held", path)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			t.Errorf("failed to unlock %s: %v", path, err)
		}
	}
}
