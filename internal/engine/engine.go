package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/opencampus/seatmap/internal/feed"
	"github.com/opencampus/seatmap/internal/metrics"
	"github.com/opencampus/seatmap/pkg/models"
)

// SnapshotStore persists the merged entry set so the service can serve
// last-known-good data across restarts.
type SnapshotStore interface {
	// Save stores the entry set as a new snapshot.
	Save(ctx context.Context, entries []models.SpaceEntry) error

	// Latest returns the most recent snapshot's entries, or an empty slice
	// when none exists.
	Latest(ctx context.Context) ([]models.SpaceEntry, error)
}

// Engine is the space aggregation facade. One instance owns one record set;
// all cached state is guarded by a single mutex, and the record set is
// replaced atomically on refresh (readers never see a half-built set).
type Engine struct {
	source    feed.Source
	logger    *zap.Logger
	snapshots SnapshotStore
	metrics   *metrics.Metrics
	merger    *Merger

	mu        sync.Mutex
	entries   []models.SpaceEntry
	filters   Filters
	locMemo   memo[map[string]models.LocationGroup]
	catMemo   memo[map[models.Category]models.CategoryGroup]
	statsMemo memo[models.SpaceStatistics]
	orderMemo memo[[]models.LocationGroup]

	sorter *SortController
	flight singleflight.Group

	subMu   sync.Mutex
	nextSub int
	subs    map[int]chan models.SpaceStatistics
}

// Option configures an Engine.
type Option func(*Engine)

// WithSnapshots persists each successful refresh and enables warm starts.
func WithSnapshots(s SnapshotStore) Option {
	return func(e *Engine) { e.snapshots = s }
}

// WithMetrics wires Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// New creates an Engine reading from the given source. The engine starts
// empty; call WarmFromSnapshot and/or Refresh to populate it.
func New(source feed.Source, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		source: source,
		logger: logger,
		merger: NewMerger(),
		subs:   make(map[int]chan models.SpaceStatistics),
	}
	e.sorter = NewSortController(DefaultSortKey, func(key SortKey) {
		e.mu.Lock()
		e.orderMemo.invalidate()
		e.mu.Unlock()
		e.logger.Debug("sort key applied",
			zap.String("option", string(key.Option)),
			zap.String("order", string(key.Order)),
		)
	})
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Refresh fetches both feeds, merges them, and atomically publishes the new
// record set. Concurrent calls while a refresh is outstanding coalesce into
// that refresh instead of queueing. On failure the previous record set is
// retained untouched.
func (e *Engine) Refresh(ctx context.Context) error {
	_, err, _ := e.flight.Do("refresh", func() (any, error) {
		return nil, e.refresh(ctx)
	})
	return err
}

func (e *Engine) refresh(ctx context.Context) error {
	start := time.Now()
	if e.metrics != nil {
		e.metrics.RefreshTotal.Inc()
	}

	batch, err := e.source.Fetch(ctx)
	if err != nil {
		if e.metrics != nil {
			e.metrics.RefreshFailures.Inc()
		}
		e.logger.Warn("refresh failed, previous data retained", zap.Error(err))
		return fmt.Errorf("refresh: %w", err)
	}

	entries := e.merger.Merge(batch)

	// Replace-then-publish: the new set is fully built before the swap.
	e.mu.Lock()
	e.entries = entries
	e.mu.Unlock()

	stats := GlobalStatistics(entries)
	if e.metrics != nil {
		e.metrics.RefreshDuration.Observe(time.Since(start).Seconds())
		e.metrics.Entries.Set(float64(stats.Spaces))
		e.metrics.Locations.Set(float64(stats.Locations))
	}

	if e.snapshots != nil {
		if err := e.snapshots.Save(ctx, entries); err != nil {
			// Persistence is best-effort; the in-memory set is already live.
			e.logger.Warn("snapshot save failed", zap.Error(err))
		}
	}

	e.broadcast(stats)

	e.logger.Info("refresh completed",
		zap.Int("entries", stats.Spaces),
		zap.Int("locations", stats.Locations),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// WarmFromSnapshot publishes the latest persisted entry set, if any, so the
// API serves data before the first fetch completes.
func (e *Engine) WarmFromSnapshot(ctx context.Context) error {
	if e.snapshots == nil {
		return nil
	}
	entries, err := e.snapshots.Latest(ctx)
	if err != nil {
		return fmt.Errorf("warm from snapshot: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}
	e.mu.Lock()
	e.entries = entries
	e.mu.Unlock()
	e.logger.Info("warmed from snapshot", zap.Int("entries", len(entries)))
	return nil
}

// LocationGroups returns the location directory for the current record set.
// Cached by input fingerprint; callers must not mutate the result.
func (e *Engine) LocationGroups() map[string]models.LocationGroup {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.locationGroupsLocked()
}

func (e *Engine) locationGroupsLocked() map[string]models.LocationGroup {
	entries := e.entries
	fp := Fingerprint(entries)
	groups, hit := e.locMemo.Get(fp, func() map[string]models.LocationGroup {
		return BuildLocationGroups(entries)
	})
	e.metrics.ObserveCacheRead("location_groups", hit)
	return groups
}

// CategoryGroups returns the study-space and computer-cluster partitions.
func (e *Engine) CategoryGroups() map[models.Category]models.CategoryGroup {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries := e.entries
	fp := Fingerprint(entries)
	groups, hit := e.catMemo.Get(fp, func() map[models.Category]models.CategoryGroup {
		return BuildCategoryGroups(entries)
	})
	e.metrics.ObserveCacheRead("category_groups", hit)
	return groups
}

// GlobalStatistics returns the aggregate over the whole record set.
func (e *Engine) GlobalStatistics() models.SpaceStatistics {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries := e.entries
	fp := Fingerprint(entries)
	stats, hit := e.statsMemo.Get(fp, func() models.SpaceStatistics {
		return GlobalStatistics(entries)
	})
	e.metrics.ObserveCacheRead("global_stats", hit)
	return stats
}

// SetSort requests a new ordering. The change commits after the settle
// delay; a newer request cancels a pending one (last request wins).
func (e *Engine) SetSort(option SortOption, order SortOrder) {
	e.sorter.Request(SortKey{Option: option, Order: order})
}

// AppliedSort returns the last fully committed sort key.
func (e *Engine) AppliedSort() SortKey {
	return e.sorter.Applied()
}

// SetSearchText sets the text filter. Applies synchronously.
func (e *Engine) SetSearchText(q string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.filters.Query = q
}

// SetCategoryFilter narrows to one category; empty means all.
func (e *Engine) SetCategoryFilter(cat models.Category) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.filters.Category = cat
}

// SetAvailabilityFilter narrows to one availability band; empty means all.
func (e *Engine) SetAvailabilityFilter(band models.AvailabilityBand) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.filters.Band = band
}

// FilteredSortedLocations returns location groups ordered by the currently
// applied sort key with the current filters intersected on top. The sorted
// base list is cached by fingerprint plus sort key; filters are cheap and
// evaluated per call.
func (e *Engine) FilteredSortedLocations() []models.LocationGroup {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := e.sorter.Applied()
	groups := e.locationGroupsLocked()

	fp := fmt.Sprintf("%s|%s|%s", Fingerprint(e.entries), key.Option, key.Order)
	ordered, hit := e.orderMemo.Get(fp, func() []models.LocationGroup {
		list := make([]models.LocationGroup, 0, len(groups))
		for _, g := range groups {
			list = append(list, g)
		}
		SortLocationGroups(list, key)
		return list
	})
	e.metrics.ObserveCacheRead("sorted_locations", hit)

	return FilterLocationGroups(ordered, e.filters)
}

// Subscribe registers for a statistics push after each completed refresh.
// The returned function unsubscribes; slow consumers miss intermediate
// updates rather than blocking a refresh.
func (e *Engine) Subscribe() (<-chan models.SpaceStatistics, func()) {
	e.subMu.Lock()
	defer e.subMu.Unlock()

	id := e.nextSub
	e.nextSub++
	ch := make(chan models.SpaceStatistics, 1)
	e.subs[id] = ch

	return ch, func() {
		e.subMu.Lock()
		defer e.subMu.Unlock()
		if _, ok := e.subs[id]; ok {
			delete(e.subs, id)
			close(ch)
		}
	}
}

func (e *Engine) broadcast(stats models.SpaceStatistics) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	for _, ch := range e.subs {
		select {
		case ch <- stats:
		default:
			// Drop for slow consumers; the next refresh supersedes anyway.
		}
	}
}
