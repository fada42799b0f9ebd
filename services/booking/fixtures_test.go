package booking

import (
	"context"
	"testing"
	"time"

	bookingRepo "sparkclean/database/repository/booking"
	cleanerRepo "sparkclean/database/repository/cleaner"
	"sparkclean/models"
)

const (
	testArea = "area-1"
	testDate = "2030-06-03"
)

type fixture struct {
	cleaners *cleanerRepo.MemoryCleanerRepo
	bookings *bookingRepo.MemoryBookingRepo
	pipeline *Pipeline
	day      int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	d, err := time.Parse(DateLayout, testDate)
	if err != nil {
		t.Fatalf("parse test date: %v", err)
	}
	cleaners := cleanerRepo.NewMemoryCleanerRepo()
	bookings := bookingRepo.NewMemoryBookingRepo(cleaners)
	f := &fixture{
		cleaners: cleaners,
		bookings: bookings,
		day:      int(d.Weekday()),
		pipeline: &Pipeline{
			Index:     &DefaultAvailabilityIndex{Cleaners: cleaners},
			Conflicts: &DefaultConflictFilter{Bookings: bookings},
			Ranker:    &DefaultCandidateRanker{Cleaners: cleaners},
		},
	}
	f.addArea(t, testArea)
	return f
}

func (f *fixture) addArea(t *testing.T, id string) {
	t.Helper()
	if err := f.cleaners.SaveArea(context.Background(), &models.ServiceArea{ID: id, Name: id}); err != nil {
		t.Fatalf("SaveArea(%s) = %v", id, err)
	}
}

// addCleaner saves an active, available cleaner covering testArea who works 08:00-18:00 on the test day.
func (f *fixture) addCleaner(t *testing.T, id string, rating float64, years int) *models.Cleaner {
	t.Helper()
	c := &models.Cleaner{
		ID:              id,
		Name:            "Cleaner " + id,
		Active:          true,
		Available:       true,
		Rating:          rating,
		ExperienceYears: years,
		AreaIDs:         []string{testArea},
		WorkingWindows:  []models.WorkingWindow{f.window("08:00", "18:00")},
	}
	f.saveCleaner(t, c)
	return c
}

func (f *fixture) saveCleaner(t *testing.T, c *models.Cleaner) {
	t.Helper()
	if err := f.cleaners.Save(context.Background(), c); err != nil {
		t.Fatalf("Save(%s) = %v", c.ID, err)
	}
}

func (f *fixture) window(start, end string) models.WorkingWindow {
	s, _ := ParseClock(start)
	e, _ := ParseClock(end)
	return models.WorkingWindow{DayOfWeek: f.day, Start: s, End: e, Available: true}
}

// addBooking stores a booking in testArea on testDate.
func (f *fixture) addBooking(t *testing.T, cleanerID *string, status models.BookingStatus, start, end string) *models.Booking {
	t.Helper()
	s, _ := ParseClock(start)
	e, _ := ParseClock(end)
	b := &models.Booking{
		CustomerID: "customer-1",
		CleanerID:  cleanerID,
		AreaID:     testArea,
		Date:       testDate,
		Start:      s,
		End:        e,
		Status:     status,
		Bedrooms:   2,
		Bathrooms:  1,
	}
	if err := f.bookings.Create(context.Background(), b); err != nil {
		t.Fatalf("Create booking = %v", err)
	}
	return b
}

func (f *fixture) mustWindow(t *testing.T, start, end string) TimeWindow {
	t.Helper()
	w, err := NewTimeWindow(testDate, start, end)
	if err != nil {
		t.Fatalf("NewTimeWindow(%s, %s) = %v", start, end, err)
	}
	return w
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func candidateIDs(cs []models.Candidate) []string {
	ids := make([]string, len(cs))
	for i, c := range cs {
		ids[i] = c.CleanerID
	}
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
