package domain

import "time"

// StatusUnavailable is the provider status that never produces a record.
const StatusUnavailable = "unavailable"

type Server struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type Zone struct {
	Code     string `json:"code"`
	Location string `json:"location"`
}

// AvailabilityRecord is one (server, zone) pair the provider reports as
// something other than unavailable.
type AvailabilityRecord struct {
	Server Server `json:"server"`
	Zone   Zone   `json:"zone"`
	Status string `json:"status"`
}

// ResultSet is ordered; order takes part in Equal.
type ResultSet []AvailabilityRecord

// Equal reports element-wise equality in order. A nil set equals an empty one.
func (rs ResultSet) Equal(other ResultSet) bool {
	if len(rs) != len(other) {
		return false
	}
	for i := range rs {
		if rs[i] != other[i] {
			return false
		}
	}
	return true
}

// EqualUnordered compares the two sets as multisets.
func (rs ResultSet) EqualUnordered(other ResultSet) bool {
	if len(rs) != len(other) {
		return false
	}
	seen := make(map[AvailabilityRecord]int, len(rs))
	for _, r := range rs {
		seen[r]++
	}
	for _, r := range other {
		if seen[r] == 0 {
			return false
		}
		seen[r]--
	}
	return true
}

// Snapshot is the last persisted result set. SavedAt is zero when the
// backend does not track it.
type Snapshot struct {
	Results ResultSet `json:"results"`
	SavedAt time.Time `json:"saved_at,omitempty"`
}
