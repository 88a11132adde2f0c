package testsupport

import (
	"context"
	"testing"

	"rosterid/internal/config"
	"rosterid/internal/identity"
)

// MustOpenStore opens an identity.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *identity.Store {
	t.Helper()

	store, err := identity.Open(cfg)
	if err != nil {
		t.Fatalf("identity.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewPlayer creates a canonical player row for tests using the provided store.
func NewPlayer(t testing.TB, store *identity.Store, params identity.CreatePlayerParams) *identity.Player {
	t.Helper()

	player, err := store.CreatePlayer(context.Background(), params)
	if err != nil {
		t.Fatalf("store.CreatePlayer: %v", err)
	}
	return player
}
