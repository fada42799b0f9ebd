package booking

import (
	"context"
	"errors"
	"testing"

	"sparkclean/models"
)

func TestFindCoveringCleaners(t *testing.T) {
	f := newFixture(t)
	f.addCleaner(t, "c-b", 4.5, 3)
	f.addCleaner(t, "c-a", 4.8, 6)

	inactive := f.addCleaner(t, "c-inactive", 5, 10)
	inactive.Active = false
	f.saveCleaner(t, inactive)

	off := f.addCleaner(t, "c-off", 5, 10)
	off.Available = false
	f.saveCleaner(t, off)

	f.addArea(t, "area-2")
	f.saveCleaner(t, &models.Cleaner{
		ID: "c-elsewhere", Name: "Elsewhere", Active: true, Available: true, Rating: 5,
		AreaIDs: []string{"area-2"}, WorkingWindows: []models.WorkingWindow{f.window("08:00", "18:00")},
	})

	idx := f.pipeline.Index
	got, err := idx.FindCoveringCleaners(context.Background(), testArea, f.mustWindow(t, "10:00", "12:00"))
	if err != nil {
		t.Fatalf("FindCoveringCleaners = %v", err)
	}
	if want := []string{"c-a", "c-b"}; !equalIDs(got, want) {
		t.Fatalf("FindCoveringCleaners = %v, want %v", got, want)
	}
}

func TestFindCoveringCleanersRequiresFullContainment(t *testing.T) {
	f := newFixture(t)
	f.addCleaner(t, "c-1", 4, 1) // 08:00-18:00

	cases := []struct {
		start, end string
		want       int
	}{
		{"08:00", "18:00", 1},
		{"07:30", "09:00", 0},
		{"17:00", "18:30", 0},
		{"06:00", "07:00", 0},
	}
	for _, tc := range cases {
		got, err := f.pipeline.Index.FindCoveringCleaners(context.Background(), testArea, f.mustWindow(t, tc.start, tc.end))
		if err != nil {
			t.Fatalf("FindCoveringCleaners(%s-%s) = %v", tc.start, tc.end, err)
		}
		if len(got) != tc.want {
			t.Fatalf("FindCoveringCleaners(%s-%s) = %v, want %d cleaners", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestFindCoveringCleanersWrongWeekday(t *testing.T) {
	f := newFixture(t)
	c := f.addCleaner(t, "c-1", 4, 1)
	c.WorkingWindows[0].DayOfWeek = (f.day + 1) % 7
	f.saveCleaner(t, c)

	got, err := f.pipeline.Index.FindCoveringCleaners(context.Background(), testArea, f.mustWindow(t, "10:00", "12:00"))
	if err != nil {
		t.Fatalf("FindCoveringCleaners = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("FindCoveringCleaners = %v, want none", got)
	}
}

func TestFindCoveringCleanersUnknownArea(t *testing.T) {
	f := newFixture(t)
	_, err := f.pipeline.Index.FindCoveringCleaners(context.Background(), "nowhere", f.mustWindow(t, "10:00", "12:00"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}
}

func TestFindCoveringCleanersRejectsEmptyWindow(t *testing.T) {
	f := newFixture(t)
	w := TimeWindow{Date: testDate, Start: 600, End: 600}
	_, err := f.pipeline.Index.FindCoveringCleaners(context.Background(), testArea, w)
	if !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("err = %v, want InvalidWindow", err)
	}
}

func TestWorksThroughRequiresSingleWindow(t *testing.T) {
	windows := []models.WorkingWindow{
		{DayOfWeek: 1, Start: 720, End: 1020, Available: true}, // 12:00-17:00
		{DayOfWeek: 1, Start: 480, End: 720, Available: true},  // 08:00-12:00
		{DayOfWeek: 1, Start: 1080, End: 1200, Available: true},
		{DayOfWeek: 2, Start: 0, End: 1440, Available: true},
	}
	cases := []struct {
		start, end int
		want       bool
	}{
		{600, 840, false}, // 10:00-14:00 straddles two rows
		{480, 1020, false},
		{480, 720, true},
		{720, 1020, true},
		{1000, 1100, false},
		{1080, 1200, true},
		{1200, 1260, false},
	}
	for _, tc := range cases {
		if got := worksThrough(windows, 1, tc.start, tc.end); got != tc.want {
			t.Fatalf("worksThrough(%d-%d) = %v, want %v", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestFindCoveringCleanersSplitShift(t *testing.T) {
	f := newFixture(t)
	c := f.addCleaner(t, "c-split", 4, 2)
	c.WorkingWindows = []models.WorkingWindow{f.window("08:00", "12:00"), f.window("12:00", "16:00")}
	f.saveCleaner(t, c)

	ctx := context.Background()
	got, err := f.pipeline.Index.FindCoveringCleaners(ctx, testArea, f.mustWindow(t, "11:00", "13:00"))
	if err != nil {
		t.Fatalf("FindCoveringCleaners = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("window across two shifts matched %v, want none", got)
	}

	got, err = f.pipeline.Index.FindCoveringCleaners(ctx, testArea, f.mustWindow(t, "12:00", "14:00"))
	if err != nil {
		t.Fatalf("FindCoveringCleaners = %v", err)
	}
	if !equalIDs(got, []string{"c-split"}) {
		t.Fatalf("window inside the second shift = %v, want [c-split]", got)
	}
}

func TestWorksThroughIgnoresUnavailableWindows(t *testing.T) {
	windows := []models.WorkingWindow{{DayOfWeek: 1, Start: 480, End: 1080, Available: false}}
	if worksThrough(windows, 1, 600, 720) {
		t.Fatalf("worksThrough should ignore unavailable windows")
	}
}
