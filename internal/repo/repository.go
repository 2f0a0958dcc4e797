package repo

import (
	"context"

	"github.com/hamed0406/availwatch/internal/domain"
)

// SnapshotStore keeps the single rolling snapshot the change detector
// compares against.
type SnapshotStore interface {
	// Load returns nil, nil if there's no snapshot yet.
	// Other faults wrap domain.ErrStorageUnavailable.
	Load(ctx context.Context) (*domain.Snapshot, error)
	// Save replaces the snapshot in one step; a reader sees either the old
	// or the new set, never a partial one. Faults wrap domain.ErrStorageWriteFailed.
	Save(ctx context.Context, rs domain.ResultSet) error
}

// Normalize turns a nil set into an empty one so it persists as [] not null.
func Normalize(rs domain.ResultSet) domain.ResultSet {
	if rs == nil {
		return domain.ResultSet{}
	}
	return rs
}
