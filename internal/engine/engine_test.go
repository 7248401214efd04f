package engine

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/opencampus/seatmap/internal/feed"
	"github.com/opencampus/seatmap/pkg/models"
)

// stubSource returns a fixed batch, optionally failing or blocking. It
// counts Fetch calls so coalescing can be asserted.
type stubSource struct {
	batch   *feed.Batch
	err     error
	delay   time.Duration
	fetches atomic.Int32
}

func (s *stubSource) Fetch(ctx context.Context) (*feed.Batch, error) {
	s.fetches.Add(1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.batch, nil
}

func testBatch() *feed.Batch {
	return &feed.Batch{
		Surveys: []feed.SurveyRecord{
			{ID: 1, Name: "[LIB] Science Library - Level 2", SensorsAbsent: 45, SensorsOccupied: 35},
			{ID: 2, Name: "[LIB] Science Library - Level 3", SensorsAbsent: 32, SensorsOccupied: 28},
			{ID: 3, Name: "[ISD] Foster Court Cluster", SensorsAbsent: 12, SensorsOccupied: 8},
		},
		Locations: []feed.LocationMeta{
			{LID: 7, Name: "Eastman Dental Library", Description: "Quiet study"},
		},
	}
}

func TestEngine_RefreshPublishesRecordSet(t *testing.T) {
	src := &stubSource{batch: testBatch()}
	e := New(src, zap.NewNop())

	require.NoError(t, e.Refresh(context.Background()))

	stats := e.GlobalStatistics()
	assert.Equal(t, 4, stats.Spaces)
	assert.Equal(t, 3, stats.Locations)
	assert.Equal(t, 140+20, stats.TotalSeats)
	assert.Equal(t, 77+12, stats.FreeSeats)

	groups := e.LocationGroups()
	require.Contains(t, groups, "Science Library")
	assert.Equal(t, 45, groups["Science Library"].OccupancyPct)
}

func TestEngine_FailedRefreshKeepsPreviousData(t *testing.T) {
	src := &stubSource{batch: testBatch()}
	e := New(src, zap.NewNop())
	require.NoError(t, e.Refresh(context.Background()))

	src.err = errors.New("provider down")
	err := e.Refresh(context.Background())
	require.Error(t, err)

	stats := e.GlobalStatistics()
	assert.Equal(t, 4, stats.Spaces, "last-known-good data must survive a failed refresh")
}

func TestEngine_ConcurrentRefreshCoalesces(t *testing.T) {
	src := &stubSource{batch: testBatch(), delay: 50 * time.Millisecond}
	e := New(src, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = e.Refresh(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), src.fetches.Load(),
		"concurrent refresh calls should share one fetch")
}

func TestEngine_CacheColdAndWarmIdentical(t *testing.T) {
	src := &stubSource{batch: testBatch()}
	e := New(src, zap.NewNop())
	require.NoError(t, e.Refresh(context.Background()))

	cold := e.LocationGroups()
	warm := e.LocationGroups()
	if !reflect.DeepEqual(cold, warm) {
		t.Error("warm cache read differs from cold read for identical input")
	}

	// A refresh with the same record identities keeps the fingerprint, so
	// the cache stays valid and the result stays identical.
	require.NoError(t, e.Refresh(context.Background()))
	if !reflect.DeepEqual(cold, e.LocationGroups()) {
		t.Error("identical record set produced a different grouping")
	}
}

func TestEngine_CategoryGroups(t *testing.T) {
	src := &stubSource{batch: testBatch()}
	e := New(src, zap.NewNop())
	require.NoError(t, e.Refresh(context.Background()))

	groups := e.CategoryGroups()
	require.Len(t, groups, 2)
	assert.Len(t, groups[models.CategoryComputerCluster].Entries, 1)
	assert.Len(t, groups[models.CategoryStudySpace].Entries, 3)
}

func TestEngine_FilteredSortedLocations(t *testing.T) {
	src := &stubSource{batch: testBatch()}
	e := New(src, zap.NewNop())
	require.NoError(t, e.Refresh(context.Background()))

	// Default sort: by name ascending.
	list := e.FilteredSortedLocations()
	require.Len(t, list, 3)
	assert.Equal(t, "Eastman Dental Library", list[0].Location)

	e.SetSearchText("science")
	list = e.FilteredSortedLocations()
	require.Len(t, list, 1)
	assert.Equal(t, "Science Library", list[0].Location)

	e.SetSearchText("")
	e.SetCategoryFilter(models.CategoryComputerCluster)
	list = e.FilteredSortedLocations()
	require.Len(t, list, 1)
	assert.Equal(t, "Foster Court", list[0].Location)
}

func TestEngine_SortChangeCommitsAfterDebounce(t *testing.T) {
	src := &stubSource{batch: testBatch()}
	e := New(src, zap.NewNop())
	e.sorter.settle = 50 * time.Millisecond
	require.NoError(t, e.Refresh(context.Background()))

	before := e.FilteredSortedLocations()
	e.SetSort(SortByFreeSeats, OrderDescending)

	// Until the debounce settles, the visible ordering is unchanged.
	assert.Equal(t, names(before), names(e.FilteredSortedLocations()))

	want := SortKey{Option: SortByFreeSeats, Order: OrderDescending}
	deadline := time.Now().Add(2 * time.Second)
	for e.AppliedSort() != want && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	require.Equal(t, want, e.AppliedSort())

	after := e.FilteredSortedLocations()
	assert.Equal(t, "Science Library", after[0].Location, "77 free seats should lead descending")
}

func TestEngine_SubscribeReceivesStats(t *testing.T) {
	src := &stubSource{batch: testBatch()}
	e := New(src, zap.NewNop())

	ch, unsub := e.Subscribe()
	defer unsub()

	require.NoError(t, e.Refresh(context.Background()))

	select {
	case stats := <-ch:
		assert.Equal(t, 4, stats.Spaces)
	case <-time.After(time.Second):
		t.Fatal("no statistics broadcast after refresh")
	}
}

func TestEngine_WarmFromSnapshot(t *testing.T) {
	entries := []models.SpaceEntry{
		{
			SpaceRecord: models.SpaceRecord{SourceID: "survey-1", RawName: "Science Library - Level 2", FreeSeats: 45, TotalSeats: 80},
			Location:    "Science Library", ShortName: "Level 2",
		},
	}
	snaps := &stubSnapshots{latest: entries}
	e := New(&stubSource{batch: testBatch()}, zap.NewNop(), WithSnapshots(snaps))

	require.NoError(t, e.WarmFromSnapshot(context.Background()))
	assert.Equal(t, 1, e.GlobalStatistics().Spaces)

	// A later refresh replaces the warmed set and persists a snapshot.
	require.NoError(t, e.Refresh(context.Background()))
	assert.Equal(t, 4, e.GlobalStatistics().Spaces)
	assert.Equal(t, int32(1), snaps.saves.Load())
}

type stubSnapshots struct {
	latest []models.SpaceEntry
	saves  atomic.Int32
}

func (s *stubSnapshots) Save(ctx context.Context, entries []models.SpaceEntry) error {
	s.saves.Add(1)
	return nil
}

func (s *stubSnapshots) Latest(ctx context.Context) ([]models.SpaceEntry, error) {
	return s.latest, nil
}
