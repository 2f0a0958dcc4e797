package change

import "github.com/hamed0406/availwatch/internal/domain"

// Detector decides whether a run is worth persisting and notifying.
type Detector struct {
	// OrderInsensitive compares result sets as multisets. Off by default:
	// a reordering of identical records counts as a change.
	OrderInsensitive bool
}

// ShouldNotify is true when forced, when there is no previous snapshot, or
// when current differs from it.
func (d Detector) ShouldNotify(current domain.ResultSet, previous *domain.Snapshot, force bool) bool {
	if force || previous == nil {
		return true
	}
	if d.OrderInsensitive {
		return !current.EqualUnordered(previous.Results)
	}
	return !current.Equal(previous.Results)
}
