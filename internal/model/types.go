package model

import "time"

// Collection identifies one of the three entity collections.
// The string values double as Local Store keys and remote collection names,
// kept verbatim so existing on-disk data remains readable.
type Collection string

const (
	CollectionExercises Collection = "exercises"
	CollectionPREntries Collection = "pr-entries"
	CollectionWeights   Collection = "weight-entries"
)

// Collections lists all collections in a stable order.
func Collections() []Collection {
	return []Collection{CollectionExercises, CollectionPREntries, CollectionWeights}
}

// Valid reports whether c names a known collection.
func (c Collection) Valid() bool {
	switch c {
	case CollectionExercises, CollectionPREntries, CollectionWeights:
		return true
	}
	return false
}

// Exercise is a named movement that PR entries reference by name.
//
// ID is assigned by the remote store on the first successful remote write.
// An exercise created while the remote is unreachable has an empty ID until
// a later sync assigns one.
type Exercise struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// PREntry records a personal record for an exercise on a given day.
//
// Exercise is a foreign key by display name, not by ID. Renaming an exercise
// would orphan its history; the current surface has no rename, so this is
// accepted and noted for a future schema revision.
type PREntry struct {
	ID        string    `json:"id,omitempty"`
	Exercise  string    `json:"exercise"`
	Date      Date      `json:"date"`
	Weight    float64   `json:"weight"`
	Reps      int       `json:"reps,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// WeightEntry records a body-weight measurement for a given day.
type WeightEntry struct {
	ID        string    `json:"id,omitempty"`
	Date      Date      `json:"date"`
	Weight    float64   `json:"weight"`
	CreatedAt time.Time `json:"createdAt"`
}

// Snapshot is the exported backup artifact: all three collections plus the
// generation timestamp.
type Snapshot struct {
	Exercises     []Exercise    `json:"exercises"`
	PREntries     []PREntry     `json:"prEntries"`
	WeightEntries []WeightEntry `json:"weightEntries"`
	ExportDate    time.Time     `json:"exportDate"`
}
