package ports

import (
	"context"

	"github.com/aretw0/strata/pkg/domain"
)

// SnapshotStore persists stack snapshots under a name, usually the stack or scenario name.
type SnapshotStore interface {
	// Save stores snap under name, replacing any previous value.
	Save(ctx context.Context, name string, snap domain.Snapshot) error

	// Load retrieves a snapshot.
	// Returns domain.ErrSnapshotNotFound if nothing is stored under name.
	Load(ctx context.Context, name string) (domain.Snapshot, error)

	// Delete removes a snapshot. Deleting a missing name is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the stored names.
	List(ctx context.Context) ([]string, error)
}
