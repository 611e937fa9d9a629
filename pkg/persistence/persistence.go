// Package persistence defines the storage contract for Orbit state snapshots.
//
// The whole store state is kept in a single slot: one JSON document holding
// the workflow map and the active workflow id. Providers differ only in where
// the slot lives (file, redis key, postgres row).
package persistence

import (
	"context"

	"github.com/orbithq/orbit/pkg/store"
)

// Persistence stores and restores the complete state snapshot.
type Persistence interface {
	// Save writes the snapshot to the slot, replacing any previous value.
	Save(ctx context.Context, state *store.State) error

	// Load reads the snapshot. It never fails: a missing slot, an
	// unreadable backend or a corrupt document all yield the default empty
	// state, with the cause logged by the provider.
	Load(ctx context.Context) *store.State

	// Clear removes the slot.
	Clear(ctx context.Context) error

	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
