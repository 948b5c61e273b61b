// Package testutil provides test utilities and helpers.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"studyroulette/internal/lookup"
)

// WriteStudies writes a studies file with the given name into a fresh
// temp directory and returns its full path.
func WriteStudies(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write studies file: %v", err)
	}
	return path
}

// NewStore creates a lookup store rooted in a fresh temp directory.
func NewStore(t *testing.T) *lookup.Dir {
	t.Helper()

	store, err := lookup.NewDir(filepath.Join(t.TempDir(), "lookups"))
	if err != nil {
		t.Fatalf("failed to create lookup store: %v", err)
	}
	return store
}
