package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Compile-time interface guard.
var _ Source = (*HTTPSource)(nil)

// HTTPSource fetches the survey and location feeds over HTTP. Requests are
// rate-limited so a burst of refresh triggers cannot hammer the providers.
type HTTPSource struct {
	surveysURL   string
	locationsURL string
	client       *http.Client
	limiter      *rate.Limiter
	logger       *zap.Logger
}

// NewHTTPSource creates a feed source for the given provider endpoints.
// reqPerSec bounds the outbound request rate; values <= 0 default to 1/s.
func NewHTTPSource(surveysURL, locationsURL string, reqPerSec float64, logger *zap.Logger) *HTTPSource {
	if reqPerSec <= 0 {
		reqPerSec = 1
	}
	return &HTTPSource{
		surveysURL:   surveysURL,
		locationsURL: locationsURL,
		client:       &http.Client{Timeout: 15 * time.Second},
		limiter:      rate.NewLimiter(rate.Limit(reqPerSec), 2),
		logger:       logger,
	}
}

// Fetch retrieves both feeds. A failure in either feed fails the whole
// fetch; the caller keeps its previous data (last-known-good semantics).
func (s *HTTPSource) Fetch(ctx context.Context) (*Batch, error) {
	surveys, err := fetchRecords[SurveyRecord](ctx, s, s.surveysURL, validSurvey)
	if err != nil {
		return nil, fmt.Errorf("fetch surveys: %w", err)
	}

	locations, err := fetchRecords[LocationMeta](ctx, s, s.locationsURL, validLocation)
	if err != nil {
		return nil, fmt.Errorf("fetch locations: %w", err)
	}

	s.logger.Debug("feed fetch completed",
		zap.Int("surveys", len(surveys)),
		zap.Int("locations", len(locations)),
	)

	return &Batch{Surveys: surveys, Locations: locations}, nil
}

// fetchRecords GETs a JSON array and decodes it element by element.
// Malformed or incomplete elements are skipped, never fatal: a single bad
// row must not abort the batch.
func fetchRecords[T any](ctx context.Context, s *HTTPSource, url string, valid func(T) bool) ([]T, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request %s: unexpected status %d", url, resp.StatusCode)
	}

	var raw []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}

	records := make([]T, 0, len(raw))
	skipped := 0
	for _, msg := range raw {
		var rec T
		if err := json.Unmarshal(msg, &rec); err != nil || !valid(rec) {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	if skipped > 0 {
		s.logger.Debug("skipped malformed feed records",
			zap.String("url", url),
			zap.Int("skipped", skipped),
		)
	}
	return records, nil
}

// validSurvey requires the fields the merger cannot work without.
func validSurvey(r SurveyRecord) bool {
	return r.ID != 0 && r.Name != "" && r.SensorsAbsent >= 0 && r.SensorsOccupied >= 0
}

// validLocation requires an id and a name; description and terms are optional.
func validLocation(m LocationMeta) bool {
	return m.LID != 0 && m.Name != ""
}
