package engine

import (
	"sort"
	"strings"

	"github.com/opencampus/seatmap/internal/canon"
	"github.com/opencampus/seatmap/pkg/models"
)

// Classify decides whether an entry is a computer cluster or a study space.
// The predicate looks at the raw name and description the way the providers
// label cluster rooms; everything else is a study space.
func Classify(e models.SpaceEntry) models.Category {
	text := strings.ToLower(e.RawName + " " + e.Description)
	if strings.Contains(text, "computer") ||
		strings.Contains(text, "cluster") ||
		strings.Contains(text, "[isd]") {
		return models.CategoryComputerCluster
	}
	return models.CategoryStudySpace
}

// BuildLocationGroups groups entries by canonical location and derives seat
// statistics per group. Entries without seat data are listed but excluded
// from the sums. Within a group, entries order by occupancy ascending;
// SortEntriesByFloor re-orders them for floor-wise listing.
func BuildLocationGroups(entries []models.SpaceEntry) map[string]models.LocationGroup {
	byLocation := make(map[string][]models.SpaceEntry)
	for _, e := range entries {
		byLocation[e.Location] = append(byLocation[e.Location], e)
	}

	groups := make(map[string]models.LocationGroup, len(byLocation))
	for location, members := range byLocation {
		sortEntriesByOccupancy(members)
		groups[location] = models.LocationGroup{
			Location: location,
			Entries:  members,
			Stats:    statsOver(members),
		}
	}
	return groups
}

// BuildCategoryGroups partitions entries into the two fixed categories with
// the same statistic shape as location groups.
func BuildCategoryGroups(entries []models.SpaceEntry) map[models.Category]models.CategoryGroup {
	groups := map[models.Category]models.CategoryGroup{
		models.CategoryStudySpace:      {Category: models.CategoryStudySpace, Entries: []models.SpaceEntry{}},
		models.CategoryComputerCluster: {Category: models.CategoryComputerCluster, Entries: []models.SpaceEntry{}},
	}
	for _, e := range entries {
		cat := Classify(e)
		g := groups[cat]
		g.Entries = append(g.Entries, e)
		groups[cat] = g
	}
	for cat, g := range groups {
		g.Stats = statsOver(g.Entries)
		groups[cat] = g
	}
	return groups
}

// GlobalStatistics aggregates over the whole entry set.
func GlobalStatistics(entries []models.SpaceEntry) models.SpaceStatistics {
	locations := make(map[string]bool)
	for _, e := range entries {
		locations[e.Location] = true
	}
	return models.SpaceStatistics{
		Locations: len(locations),
		Spaces:    len(entries),
		Stats:     statsOver(entries),
	}
}

// statsOver sums seats over entries that carry seat data.
func statsOver(entries []models.SpaceEntry) models.Stats {
	var total, free int
	for _, e := range entries {
		if !e.HasSeatData() {
			continue
		}
		total += e.TotalSeats
		free += e.FreeSeats
	}
	return models.StatsFor(total, free)
}

// sortEntriesByOccupancy orders entries emptiest-first, short name as the
// deterministic tiebreak.
func sortEntriesByOccupancy(entries []models.SpaceEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		oi := models.OccupancyPercent(entries[i].TotalSeats, entries[i].FreeSeats)
		oj := models.OccupancyPercent(entries[j].TotalSeats, entries[j].FreeSeats)
		if oi != oj {
			return oi < oj
		}
		return entries[i].ShortName < entries[j].ShortName
	})
}

// SortEntriesByFloor orders entries basement-to-top using the floor priority
// heuristic, unranked floors last, stable by short name as tiebreak.
func SortEntriesByFloor(entries []models.SpaceEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		pi := canon.FloorPriority(strings.ToLower(entries[i].ShortName))
		pj := canon.FloorPriority(strings.ToLower(entries[j].ShortName))
		if pi != pj {
			return pi < pj
		}
		return entries[i].ShortName < entries[j].ShortName
	})
}
