package engine

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/opencampus/seatmap/pkg/models"
)

// SortOption selects the primary ordering criterion for location groups.
type SortOption string

const (
	SortByName         SortOption = "name"
	SortByFreeSeats    SortOption = "free_seats"
	SortByAvailability SortOption = "availability"
)

// SortOrder is the ordering direction.
type SortOrder string

const (
	OrderAscending  SortOrder = "asc"
	OrderDescending SortOrder = "desc"
)

// SortKey is a pure ordering specification.
type SortKey struct {
	Option SortOption
	Order  SortOrder
}

// DefaultSortKey orders locations by name ascending.
var DefaultSortKey = SortKey{Option: SortByName, Order: OrderAscending}

// SortLocationGroups orders groups by the given key. The comparator is
// total (location name is the unique secondary key), so flipping the order
// yields the exact reverse sequence.
func SortLocationGroups(groups []models.LocationGroup, key SortKey) {
	less := func(a, b models.LocationGroup) bool {
		switch key.Option {
		case SortByFreeSeats:
			if a.FreeSeats != b.FreeSeats {
				return a.FreeSeats < b.FreeSeats
			}
		case SortByAvailability:
			if a.AvailabilityPct != b.AvailabilityPct {
				return a.AvailabilityPct < b.AvailabilityPct
			}
		}
		return a.Location < b.Location
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if key.Order == OrderDescending {
			return less(groups[j], groups[i])
		}
		return less(groups[i], groups[j])
	})
}

// Filters are the synchronous narrowing criteria applied on top of the
// currently applied sort order. Zero values mean "no filtering".
type Filters struct {
	Query    string                  // case-insensitive substring over location and sub-space names
	Category models.Category         // empty = all categories
	Band     models.AvailabilityBand // empty = all bands
}

// FilterLocationGroups returns the groups passing all filters, preserving
// input order. A category filter keeps groups containing at least one entry
// of that category; a band filter matches the group's own availability band.
func FilterLocationGroups(groups []models.LocationGroup, f Filters) []models.LocationGroup {
	out := make([]models.LocationGroup, 0, len(groups))
	query := strings.ToLower(strings.TrimSpace(f.Query))

	for _, g := range groups {
		if query != "" && !groupMatchesQuery(g, query) {
			continue
		}
		if f.Band != "" && g.Band != f.Band {
			continue
		}
		if f.Category != "" && !groupHasCategory(g, f.Category) {
			continue
		}
		out = append(out, g)
	}
	return out
}

func groupMatchesQuery(g models.LocationGroup, query string) bool {
	if strings.Contains(strings.ToLower(g.Location), query) {
		return true
	}
	for _, e := range g.Entries {
		if strings.Contains(strings.ToLower(e.ShortName), query) ||
			strings.Contains(strings.ToLower(e.RawName), query) {
			return true
		}
	}
	return false
}

func groupHasCategory(g models.LocationGroup, cat models.Category) bool {
	for _, e := range g.Entries {
		if Classify(e) == cat {
			return true
		}
	}
	return false
}

// sortSettleDelay is how long a requested sort key must stay unchallenged
// before it commits. Soaks up per-keystroke churn from the caller.
const sortSettleDelay = 250 * time.Millisecond

// SortController debounces sort-key changes. A request arms a settle timer;
// a newer request cancels any pending one (last request wins), and the
// applied key only ever advances to the most recently requested value. Until
// a request commits, readers keep seeing the previously applied key.
type SortController struct {
	mu      sync.Mutex
	applied SortKey
	pending *pendingSort
	settle  time.Duration
	onApply func(SortKey)
}

type pendingSort struct {
	key    SortKey
	cancel context.CancelFunc
}

// NewSortController creates a controller with the given initially applied
// key. onApply, if non-nil, runs after each commit (outside the lock).
func NewSortController(initial SortKey, onApply func(SortKey)) *SortController {
	return &SortController{
		applied: initial,
		settle:  sortSettleDelay,
		onApply: onApply,
	}
}

// Applied returns the last fully committed sort key.
func (c *SortController) Applied() SortKey {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.applied
}

// Request asks for a new sort key. Identical to the applied key with nothing
// pending, it is a no-op. Otherwise any in-flight request is cancelled and a
// fresh settle timer starts for this one.
func (c *SortController) Request(key SortKey) {
	c.mu.Lock()

	if c.pending == nil && key == c.applied {
		c.mu.Unlock()
		return
	}
	if c.pending != nil {
		c.pending.cancel()
		c.pending = nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &pendingSort{key: key, cancel: cancel}
	c.pending = p
	settle := c.settle
	c.mu.Unlock()

	go func() {
		timer := time.NewTimer(settle)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		c.mu.Lock()
		if c.pending != p {
			// Superseded between timer fire and lock acquisition.
			c.mu.Unlock()
			return
		}
		c.applied = p.key
		c.pending = nil
		onApply := c.onApply
		c.mu.Unlock()

		if onApply != nil {
			onApply(p.key)
		}
	}()
}
