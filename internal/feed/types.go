// Package feed defines the two provider record shapes the aggregation engine
// consumes and an HTTP source that fetches them. The engine only depends on
// the Source interface; transport concerns stay on this side of the boundary.
package feed

import "context"

// SurveyRecord is one real-time occupancy survey as returned by the sensor
// provider. A survey may carry per-area sub-entries in Maps; when it does,
// the parent totals double-count the areas and must not be retained
// alongside them.
type SurveyRecord struct {
	ID              int         `json:"id"`
	Name            string      `json:"name"`
	SensorsAbsent   int         `json:"sensors_absent"`
	SensorsOccupied int         `json:"sensors_occupied"`
	Maps            []SurveyMap `json:"maps,omitempty"`
}

// SurveyMap is one sub-area of a survey with its own sensor counts.
type SurveyMap struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	SensorsAbsent   int    `json:"sensors_absent"`
	SensorsOccupied int    `json:"sensors_occupied"`
}

// LocationMeta is one row of the library location catalog. It carries no
// occupancy data; merged records built from it have zero total seats.
type LocationMeta struct {
	LID         int    `json:"lid"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Terms       string `json:"terms,omitempty"`
}

// Batch is one refresh worth of raw feed data from both providers.
type Batch struct {
	Surveys   []SurveyRecord
	Locations []LocationMeta
}

// Source supplies the raw records for one refresh. Implementations must be
// safe for concurrent use; the engine may be asked to refresh from multiple
// callers (coalesced upstream).
type Source interface {
	Fetch(ctx context.Context) (*Batch, error)
}
