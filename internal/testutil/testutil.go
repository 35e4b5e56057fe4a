// Package testutil provides shared test helpers for setting up note
// directories and manifest databases.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/roamshare/internal/index"
	"github.com/starford/roamshare/internal/storage"
)

// TestDB creates a temporary SQLite manifest that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "roamshare-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestVault creates a temporary note directory populated with notes
// (relative path → content) and returns it with a storage.Provider.
func TestVault(t *testing.T, notes map[string]string) (string, storage.Provider) {
	t.Helper()
	vaultDir := t.TempDir()
	for name, content := range notes {
		p := filepath.Join(vaultDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	return vaultDir, store
}
