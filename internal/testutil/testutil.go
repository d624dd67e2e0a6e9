// Package testutil provides shared test helpers for setting up vaults,
// settings stores, and ledgers.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ujupatipanno/trash-note/internal/ledger"
	"github.com/ujupatipanno/trash-note/internal/settings"
	"github.com/ujupatipanno/trash-note/internal/vault"
)

// TestLedger creates a temporary SQLite ledger that is automatically cleaned up.
func TestLedger(t *testing.T) *ledger.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "trash-note-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	led, err := ledger.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { led.Close() })
	return led
}

// TestVault creates a temporary vault directory with a vault.Provider.
func TestVault(t *testing.T) (string, vault.Provider) {
	t.Helper()
	vaultDir := t.TempDir()
	store, err := vault.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	return vaultDir, store
}

// TestSettings creates a settings store backed by a file in a fresh temp
// directory. Nothing is written until the first update.
func TestSettings(t *testing.T) *settings.Store {
	t.Helper()
	st, err := settings.Open(filepath.Join(t.TempDir(), "settings.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	return st
}
