package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/opencampus/seatmap/internal/engine"
	"github.com/opencampus/seatmap/pkg/models"
)

// handleLocations returns location groups ordered and narrowed per query
// parameters: sort (name|free_seats|availability), order (asc|desc),
// q (text search), category (study_space|computer_cluster), availability
// (high|medium|low). Without parameters it reflects the engine's currently
// applied sort and filters.
func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if len(q) == 0 {
		writeJSON(w, http.StatusOK, s.engine.FilteredSortedLocations())
		return
	}

	key := engine.DefaultSortKey
	if v := q.Get("sort"); v != "" {
		switch engine.SortOption(v) {
		case engine.SortByName, engine.SortByFreeSeats, engine.SortByAvailability:
			key.Option = engine.SortOption(v)
		default:
			BadRequest(w, "sort must be name, free_seats, or availability", r.URL.Path)
			return
		}
	}
	if v := q.Get("order"); v != "" {
		switch engine.SortOrder(v) {
		case engine.OrderAscending, engine.OrderDescending:
			key.Order = engine.SortOrder(v)
		default:
			BadRequest(w, "order must be asc or desc", r.URL.Path)
			return
		}
	}

	filters := engine.Filters{Query: q.Get("q")}
	if v := q.Get("category"); v != "" {
		switch models.Category(v) {
		case models.CategoryStudySpace, models.CategoryComputerCluster:
			filters.Category = models.Category(v)
		default:
			BadRequest(w, "category must be study_space or computer_cluster", r.URL.Path)
			return
		}
	}
	if v := q.Get("availability"); v != "" {
		switch models.AvailabilityBand(v) {
		case models.BandHigh, models.BandMedium, models.BandLow:
			filters.Band = models.AvailabilityBand(v)
		default:
			BadRequest(w, "availability must be high, medium, or low", r.URL.Path)
			return
		}
	}

	groups := s.engine.LocationGroups()
	list := make([]models.LocationGroup, 0, len(groups))
	for _, g := range groups {
		list = append(list, g)
	}
	engine.SortLocationGroups(list, key)
	writeJSON(w, http.StatusOK, engine.FilterLocationGroups(list, filters))
}

// handleLocation returns one location group with its entries in floor order.
func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		BadRequest(w, "location name is required", r.URL.Path)
		return
	}

	group, ok := s.engine.LocationGroups()[name]
	if !ok {
		NotFound(w, "unknown location", r.URL.Path)
		return
	}

	// Floor-wise listing for the detail view; leave the cached group alone.
	entries := make([]models.SpaceEntry, len(group.Entries))
	copy(entries, group.Entries)
	engine.SortEntriesByFloor(entries)
	group.Entries = entries

	writeJSON(w, http.StatusOK, group)
}

// handleCategories returns the study-space and computer-cluster groups.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.CategoryGroups())
}

// handleStats returns the global aggregate.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.GlobalStatistics())
}

// handleRefresh triggers a refresh. Concurrent triggers coalesce inside the
// engine; a failure keeps the previous data and reports the upstream error.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Refresh(r.Context()); err != nil {
		s.logger.Warn("manual refresh failed", zap.Error(err))
		UpstreamUnavailable(w, "refresh failed, previous data retained", r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.GlobalStatistics())
}
