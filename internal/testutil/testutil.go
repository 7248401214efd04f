// Package testutil provides shared test helpers for seatmap packages.
package testutil

import (
	"context"

	"go.uber.org/zap"

	"github.com/opencampus/seatmap/internal/feed"
)

// Logger returns a development Zap logger for use in tests.
// Panics on construction failure (should never happen in tests).
func Logger() *zap.Logger {
	l, err := zap.NewDevelopment()
	if err != nil {
		panic("testutil.Logger: " + err.Error())
	}
	return l
}

// StaticSource is a feed.Source returning a fixed batch, or an error.
type StaticSource struct {
	Batch *feed.Batch
	Err   error
}

// Fetch implements feed.Source.
func (s *StaticSource) Fetch(ctx context.Context) (*feed.Batch, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Batch, nil
}

// NewSurvey returns a SurveyRecord with sensible defaults, suitable for test
// fixtures. Override individual fields via options.
func NewSurvey(opts ...func(*feed.SurveyRecord)) feed.SurveyRecord {
	s := feed.SurveyRecord{
		ID:              1,
		Name:            "[LIB] Science Library - Level 2",
		SensorsAbsent:   45,
		SensorsOccupied: 35,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithID sets the survey id.
func WithID(id int) func(*feed.SurveyRecord) {
	return func(s *feed.SurveyRecord) { s.ID = id }
}

// WithName sets the survey's raw space name.
func WithName(name string) func(*feed.SurveyRecord) {
	return func(s *feed.SurveyRecord) { s.Name = name }
}

// WithSensors sets the absent/occupied sensor counts.
func WithSensors(absent, occupied int) func(*feed.SurveyRecord) {
	return func(s *feed.SurveyRecord) {
		s.SensorsAbsent = absent
		s.SensorsOccupied = occupied
	}
}

// WithMaps attaches per-area sub-entries to the survey.
func WithMaps(maps ...feed.SurveyMap) func(*feed.SurveyRecord) {
	return func(s *feed.SurveyRecord) { s.Maps = maps }
}
