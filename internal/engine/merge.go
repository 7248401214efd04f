// Package engine is the space aggregation core: it merges the raw feed
// records into a deduplicated entry set, groups entries by canonical
// location and category with derived occupancy statistics, and serves
// filtered, sorted views of the result behind fingerprint-keyed caches.
package engine

import (
	"fmt"
	"strings"

	"github.com/opencampus/seatmap/internal/canon"
	"github.com/opencampus/seatmap/internal/feed"
	"github.com/opencampus/seatmap/pkg/models"
)

// defaultExclusions drops rows for locations that no longer exist. Matched
// case-insensitively as substrings of the raw name, across both feeds.
var defaultExclusions = []string{
	"astor college",
	"(closed)",
	"decant space",
}

// Merger combines sensor-survey and location-metadata records into one
// deduplicated entry set.
type Merger struct {
	exclusions []string
}

// NewMerger creates a Merger with the default exclusion list.
func NewMerger() *Merger {
	return &Merger{exclusions: defaultExclusions}
}

// Merge builds the deduplicated entry set for one refresh.
//
// Surveys are processed in feed order, then catalog locations. A survey
// carrying per-area maps expands into one entry per area and the parent row
// is discarded (retaining both would double-count seats). Within a canonical
// location, entries deduplicate by short name, first seen wins. Catalog rows
// produce zero-seat entries that keep the location visible without touching
// statistics. Idempotent: merging the same batch twice yields an identical
// slice.
func (m *Merger) Merge(batch *feed.Batch) []models.SpaceEntry {
	if batch == nil {
		return []models.SpaceEntry{}
	}

	entries := make([]models.SpaceEntry, 0, len(batch.Surveys)+len(batch.Locations))
	seen := make(map[string]bool)

	add := func(rec models.SpaceRecord) {
		if m.excluded(rec.RawName) {
			return
		}
		location := canon.Canonicalize(rec.RawName)
		short := canon.ShortName(rec.RawName, location)
		key := strings.ToLower(location) + "\x00" + strings.ToLower(short)
		if seen[key] {
			return
		}
		seen[key] = true
		entries = append(entries, models.SpaceEntry{
			SpaceRecord: rec,
			Location:    location,
			ShortName:   short,
		})
	}

	for _, s := range batch.Surveys {
		if s.Name == "" {
			continue
		}
		if len(s.Maps) > 0 {
			for _, area := range s.Maps {
				if area.Name == "" {
					continue
				}
				add(models.SpaceRecord{
					SourceID:   fmt.Sprintf("survey-%d-map-%d", s.ID, area.ID),
					RawName:    area.Name,
					FreeSeats:  area.SensorsAbsent,
					TotalSeats: area.SensorsAbsent + area.SensorsOccupied,
				})
			}
			continue
		}
		add(models.SpaceRecord{
			SourceID:   fmt.Sprintf("survey-%d", s.ID),
			RawName:    s.Name,
			FreeSeats:  s.SensorsAbsent,
			TotalSeats: s.SensorsAbsent + s.SensorsOccupied,
		})
	}

	for _, loc := range batch.Locations {
		if loc.Name == "" {
			continue
		}
		add(models.SpaceRecord{
			SourceID:    fmt.Sprintf("location-%d", loc.LID),
			RawName:     loc.Name,
			Description: loc.Description,
		})
	}

	return entries
}

func (m *Merger) excluded(rawName string) bool {
	lower := strings.ToLower(rawName)
	for _, ex := range m.exclusions {
		if strings.Contains(lower, ex) {
			return true
		}
	}
	return false
}
