package testsupport

import (
	"context"
	"testing"

	"ankideck/internal/ledger"
)

// MustOpenLedger opens a ledger.Store for tests and registers cleanup.
func MustOpenLedger(t testing.TB, path string) *ledger.Store {
	t.Helper()

	store, err := ledger.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("ledger.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
