package booking

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"sparkclean/models"
	"sparkclean/services/cache"
)

func query(start, end string) models.AvailabilityQuery {
	return models.AvailabilityQuery{AreaID: testArea, Date: testDate, StartTime: start, EndTime: end}
}

// Scenario: two covering cleaners, ranked by rating.
func TestQueryAvailabilityRanksByRating(t *testing.T) {
	f := newFixture(t)
	f.addCleaner(t, "c-low", 4.5, 3)
	f.addCleaner(t, "c-high", 4.8, 3)

	svc := &DefaultMatchingService{Pipeline: f.pipeline}
	res, err := svc.QueryAvailability(context.Background(), query("10:00", "12:00"))
	if err != nil {
		t.Fatalf("QueryAvailability = %v", err)
	}
	if want := []string{"c-high", "c-low"}; !equalIDs(candidateIDs(res.Candidates), want) {
		t.Fatalf("candidates = %v, want %v", candidateIDs(res.Candidates), want)
	}
	if res.TotalCount != 2 {
		t.Fatalf("TotalCount = %d, want 2", res.TotalCount)
	}
}

// Scenario: the better cleaner holds an overlapping confirmed booking.
func TestQueryAvailabilityDropsBusyCleaner(t *testing.T) {
	f := newFixture(t)
	f.addCleaner(t, "c-low", 4.5, 3)
	f.addCleaner(t, "c-high", 4.8, 3)
	f.addBooking(t, strPtr("c-high"), models.StatusConfirmed, "11:00", "13:00")

	svc := &DefaultMatchingService{Pipeline: f.pipeline}
	res, err := svc.QueryAvailability(context.Background(), query("10:00", "12:00"))
	if err != nil {
		t.Fatalf("QueryAvailability = %v", err)
	}
	if want := []string{"c-low"}; !equalIDs(candidateIDs(res.Candidates), want) {
		t.Fatalf("candidates = %v, want %v", candidateIDs(res.Candidates), want)
	}
}

func TestQueryAvailabilityNoCandidatesIsNotAnError(t *testing.T) {
	f := newFixture(t)
	svc := &DefaultMatchingService{Pipeline: f.pipeline}
	res, err := svc.QueryAvailability(context.Background(), query("10:00", "12:00"))
	if err != nil {
		t.Fatalf("QueryAvailability = %v", err)
	}
	if res.TotalCount != 0 || len(res.Candidates) != 0 {
		t.Fatalf("result = %+v, want empty", res)
	}
}

func TestQueryAvailabilityValidation(t *testing.T) {
	f := newFixture(t)
	svc := &DefaultMatchingService{Pipeline: f.pipeline}
	ctx := context.Background()

	cases := []struct {
		name string
		q    models.AvailabilityQuery
		want error
	}{
		{"reversed", query("12:00", "10:00"), ErrInvalidWindow},
		{"empty", query("10:00", "10:00"), ErrInvalidWindow},
		{"bad date", models.AvailabilityQuery{AreaID: testArea, Date: "tomorrow", StartTime: "10:00", EndTime: "12:00"}, ErrInvalidWindow},
		{"missing area", models.AvailabilityQuery{Date: testDate, StartTime: "10:00", EndTime: "12:00"}, ErrInvalidRequest},
		{"negative rooms", models.AvailabilityQuery{AreaID: testArea, Date: testDate, StartTime: "10:00", EndTime: "12:00", Bedrooms: intPtr(-1)}, ErrInvalidRequest},
		{"unknown area", models.AvailabilityQuery{AreaID: "nowhere", Date: testDate, StartTime: "10:00", EndTime: "12:00"}, ErrNotFound},
	}
	for _, tc := range cases {
		_, err := svc.QueryAvailability(ctx, tc.q)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestQueryAvailabilityLimit(t *testing.T) {
	f := newFixture(t)
	for _, id := range []string{"c-1", "c-2", "c-3", "c-4"} {
		f.addCleaner(t, id, 4, 1)
	}
	svc := &DefaultMatchingService{Pipeline: f.pipeline, MaxCandidates: 3}
	ctx := context.Background()

	q := query("10:00", "12:00")
	q.Limit = 2
	res, err := svc.QueryAvailability(ctx, q)
	if err != nil {
		t.Fatalf("QueryAvailability = %v", err)
	}
	if len(res.Candidates) != 2 || res.TotalCount != 4 {
		t.Fatalf("got %d candidates of %d, want 2 of 4", len(res.Candidates), res.TotalCount)
	}

	q.Limit = 0
	res, err = svc.QueryAvailability(ctx, q)
	if err != nil {
		t.Fatalf("QueryAvailability = %v", err)
	}
	if len(res.Candidates) != 3 {
		t.Fatalf("got %d candidates, want the configured ceiling of 3", len(res.Candidates))
	}
}

func TestQueryAvailabilityServesFromCache(t *testing.T) {
	f := newFixture(t)
	f.addCleaner(t, "c-1", 4, 1)
	lru := cache.NewLRUCache(16, time.Minute)
	svc := &DefaultMatchingService{Pipeline: f.pipeline, Cache: lru, CacheTTL: time.Minute}
	ctx := context.Background()

	if _, err := svc.QueryAvailability(ctx, query("10:00", "12:00")); err != nil {
		t.Fatalf("QueryAvailability = %v", err)
	}
	// Bypassing the service leaves the cached entry stale on purpose.
	f.addBooking(t, strPtr("c-1"), models.StatusConfirmed, "10:00", "12:00")

	res, err := svc.QueryAvailability(ctx, query("10:00", "12:00"))
	if err != nil {
		t.Fatalf("QueryAvailability = %v", err)
	}
	if res.TotalCount != 1 {
		t.Fatalf("expected cached result, got %d candidates", res.TotalCount)
	}

	if err := lru.Invalidate(ctx, AvailabilityPrefix(testArea, testDate)); err != nil {
		t.Fatalf("Invalidate = %v", err)
	}
	res, err = svc.QueryAvailability(ctx, query("10:00", "12:00"))
	if err != nil {
		t.Fatalf("QueryAvailability = %v", err)
	}
	if res.TotalCount != 0 {
		t.Fatalf("expected fresh result after invalidation, got %d candidates", res.TotalCount)
	}
}

type failingCache struct{ sets int }

func (c *failingCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("redis down")
}

func (c *failingCache) Set(context.Context, string, []byte, time.Duration) error {
	c.sets++
	return errors.New("redis down")
}

func (c *failingCache) Invalidate(context.Context, string) error {
	return errors.New("redis down")
}

func TestQueryAvailabilityCacheFailureFallsThrough(t *testing.T) {
	f := newFixture(t)
	f.addCleaner(t, "c-1", 4, 1)
	fc := &failingCache{}
	svc := &DefaultMatchingService{Pipeline: f.pipeline, Cache: fc}

	res, err := svc.QueryAvailability(context.Background(), query("10:00", "12:00"))
	if err != nil {
		t.Fatalf("QueryAvailability = %v", err)
	}
	if res.TotalCount != 1 {
		t.Fatalf("TotalCount = %d, want 1", res.TotalCount)
	}
	if fc.sets != 1 {
		t.Fatalf("cache Set called %d times, want 1", fc.sets)
	}
}

func TestAvailabilityKey(t *testing.T) {
	w, _ := NewTimeWindow(testDate, "09:00", "11:30")
	key := AvailabilityKey(testArea, w, intPtr(3), nil)
	if key != "avail:area-1:2030-06-03:09:00-11:30:3:-" {
		t.Fatalf("AvailabilityKey = %q", key)
	}
	if !strings.HasPrefix(key, AvailabilityPrefix(testArea, testDate)) {
		t.Fatalf("key %q does not start with its area/date prefix", key)
	}
}
