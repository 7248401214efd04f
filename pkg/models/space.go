// Package models defines the shared domain types for campus study spaces:
// raw space records, deduplicated entries, location/category groupings, and
// the derived availability statistics served to clients.
package models

import "math"

// Category partitions spaces into the two fixed kinds the service tracks.
type Category string

const (
	CategoryStudySpace      Category = "study_space"
	CategoryComputerCluster Category = "computer_cluster"
)

// AvailabilityBand buckets occupancy for indicator colouring.
type AvailabilityBand string

const (
	// BandHigh means plenty of free seats (occupancy below 33%).
	BandHigh AvailabilityBand = "high"
	// BandMedium means moderate occupancy (33% to 66% inclusive).
	BandMedium AvailabilityBand = "medium"
	// BandLow means the space is mostly full (occupancy above 66%).
	BandLow AvailabilityBand = "low"
)

// BandForOccupancy maps an occupancy percentage to its availability band.
// Shared by the grouping engine, the availability filter, and presentation.
func BandForOccupancy(occupancyPct int) AvailabilityBand {
	switch {
	case occupancyPct < 33:
		return BandHigh
	case occupancyPct <= 66:
		return BandMedium
	default:
		return BandLow
	}
}

// OccupancyPercent returns round(100 * (total-free)/total), or 0 when the
// record carries no seat data (total == 0).
func OccupancyPercent(totalSeats, freeSeats int) int {
	if totalSeats <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(totalSeats-freeSeats) / float64(totalSeats)))
}

// SpaceRecord is a raw, post-parse record from either feed. Records are
// immutable after creation and replaced wholesale on each refresh.
type SpaceRecord struct {
	SourceID    string `json:"source_id"`
	RawName     string `json:"raw_name"`
	Description string `json:"description,omitempty"`
	FreeSeats   int    `json:"free_seats"`
	TotalSeats  int    `json:"total_seats"`
}

// HasSeatData reports whether the record carries occupancy data.
// TotalSeats == 0 marks a catalog-only record: it is kept so its location
// still appears, but it contributes nothing to seat statistics.
func (r SpaceRecord) HasSeatData() bool {
	return r.TotalSeats > 0
}

// SpaceEntry is one deduplicated physical sub-space: the raw record plus its
// computed canonical location and short name. Within one location no two
// entries share a short name.
type SpaceEntry struct {
	SpaceRecord
	Location  string `json:"location"`
	ShortName string `json:"short_name,omitempty"`
}

// Stats is the shared statistic shape derived for every grouping level.
type Stats struct {
	TotalSeats      int              `json:"total_seats"`
	FreeSeats       int              `json:"free_seats"`
	OccupancyPct    int              `json:"occupancy_pct"`
	AvailabilityPct int              `json:"availability_pct"`
	Band            AvailabilityBand `json:"band"`
}

// StatsFor derives the statistic set for the given seat totals.
func StatsFor(totalSeats, freeSeats int) Stats {
	occ := OccupancyPercent(totalSeats, freeSeats)
	return Stats{
		TotalSeats:      totalSeats,
		FreeSeats:       freeSeats,
		OccupancyPct:    occ,
		AvailabilityPct: 100 - occ,
		Band:            BandForOccupancy(occ),
	}
}

// LocationGroup is all entries belonging to one canonical location, with
// derived seat statistics. Entries with no seat data are listed but excluded
// from the sums.
type LocationGroup struct {
	Location string       `json:"location"`
	Entries  []SpaceEntry `json:"entries"`
	Stats
}

// CategoryGroup carries the same statistic shape partitioned by category.
type CategoryGroup struct {
	Category Category     `json:"category"`
	Entries  []SpaceEntry `json:"entries"`
	Stats
}

// SpaceStatistics is the global aggregate over the whole record set.
type SpaceStatistics struct {
	Locations int `json:"locations"`
	Spaces    int `json:"spaces"`
	Stats
}
