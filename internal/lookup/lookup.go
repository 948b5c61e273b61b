package lookup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"studyroulette/internal/validation"
)

var (
	// ErrInvalidFingerprint is returned when a fingerprint does not match
	// the expected digest format. Nothing with that name ever touches disk.
	ErrInvalidFingerprint = errors.New("invalid fingerprint")
)

// lockRetryDelay is how often a blocked lock acquisition retries until its
// context expires.
const lockRetryDelay = 25 * time.Millisecond

// Store is the persistence layer for resolved lookups. An entry maps a
// request fingerprint to the destination URL every request with that
// fingerprint is sent to.
type Store interface {
	// Get returns the stored destination for a fingerprint, with found
	// reporting whether an entry exists.
	Get(fingerprint string) (destination string, found bool, err error)

	// PutIfAbsent stores a destination unless an entry already exists.
	// It reports whether this call created the entry; losing the race to
	// a concurrent writer is not an error.
	PutIfAbsent(fingerprint, destination string) (created bool, err error)

	// WithLock runs fn while holding an exclusive advisory lock for the
	// fingerprint. Acquisition retries until ctx expires.
	WithLock(ctx context.Context, fingerprint string, fn func() error) error

	// HealthCheck verifies the store can serve reads and writes.
	HealthCheck() error
}

// Dir is a Store backed by a directory with one file per fingerprint.
// Entries are created atomically and never modified afterwards, so readers
// can skip locking entirely: an entry is either absent or complete.
type Dir struct {
	root string
}

// NewDir opens a directory store rooted at root, creating the directory
// and its lock subdirectory as needed.
func NewDir(root string) (*Dir, error) {
	if err := os.MkdirAll(filepath.Join(root, ".locks"), 0o755); err != nil {
		return nil, fmt.Errorf("creating lookup directory: %w", err)
	}
	return &Dir{root: root}, nil
}

func (d *Dir) entryPath(fp string) string {
	return filepath.Join(d.root, fp)
}

func (d *Dir) lockPath(fp string) string {
	return filepath.Join(d.root, ".locks", fp+".lock")
}

// Get reads a lookup entry without taking any lock.
func (d *Dir) Get(fingerprint string) (string, bool, error) {
	if !validation.ValidateFingerprint(fingerprint) {
		return "", false, ErrInvalidFingerprint
	}

	data, err := os.ReadFile(d.entryPath(fingerprint))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading lookup %s: %w", fingerprint, err)
	}
	return strings.TrimSpace(string(data)), true, nil
}

// PutIfAbsent writes the destination to a temporary file and links it into
// place. The link either creates the entry or fails because a concurrent
// writer got there first; the entry is never left partially written.
func (d *Dir) PutIfAbsent(fingerprint, destination string) (bool, error) {
	if !validation.ValidateFingerprint(fingerprint) {
		return false, ErrInvalidFingerprint
	}

	tmp := filepath.Join(d.root, ".tmp-"+uuid.NewString())
	if err := os.WriteFile(tmp, []byte(destination+"\n"), 0o644); err != nil {
		return false, fmt.Errorf("writing lookup %s: %w", fingerprint, err)
	}
	defer os.Remove(tmp)

	if err := os.Link(tmp, d.entryPath(fingerprint)); err != nil {
		if os.IsExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("writing lookup %s: %w", fingerprint, err)
	}
	return true, nil
}

// WithLock serializes writers for one fingerprint across processes.
// Lock files live under .locks/ and are never removed; unlinking a lock
// file while another process holds it would let a second holder in.
func (d *Dir) WithLock(ctx context.Context, fingerprint string, fn func() error) error {
	if !validation.ValidateFingerprint(fingerprint) {
		return ErrInvalidFingerprint
	}

	fl := flock.New(d.lockPath(fingerprint))
	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquiring lock for %s: %w", fingerprint, err)
	}
	if !locked {
		return fmt.Errorf("lock for %s not acquired", fingerprint)
	}
	defer fl.Unlock()

	return fn()
}

// HealthCheck recreates the directory tree, lock subdirectory included,
// then writes a probe file, reads it back, and removes it.
func (d *Dir) HealthCheck() error {
	if err := os.MkdirAll(filepath.Join(d.root, ".locks"), 0o755); err != nil {
		return fmt.Errorf("lookup directory unavailable: %w", err)
	}

	probe := filepath.Join(d.root, ".probe-"+uuid.NewString())
	want := uuid.NewString() + "\n"
	if err := os.WriteFile(probe, []byte(want), 0o644); err != nil {
		return fmt.Errorf("lookup directory not writable: %w", err)
	}
	defer os.Remove(probe)

	got, err := os.ReadFile(probe)
	if err != nil {
		return fmt.Errorf("lookup directory not readable: %w", err)
	}
	if string(got) != want {
		return errors.New("lookup directory read back mismatch")
	}
	return nil
}
