package booking

import (
	"context"
	"testing"

	"sparkclean/models"
)

func TestExcludeConflictingHalfOpen(t *testing.T) {
	f := newFixture(t)
	f.addCleaner(t, "c-1", 4, 1)
	f.addBooking(t, strPtr("c-1"), models.StatusConfirmed, "12:00", "14:00")

	filter := f.pipeline.Conflicts
	ctx := context.Background()

	// [10:00,12:00) touches [12:00,14:00) without overlapping.
	got, err := filter.ExcludeConflicting(ctx, []string{"c-1"}, f.mustWindow(t, "10:00", "12:00"), "")
	if err != nil {
		t.Fatalf("ExcludeConflicting = %v", err)
	}
	if !equalIDs(got, []string{"c-1"}) {
		t.Fatalf("adjacent window excluded cleaner: %v", got)
	}

	got, err = filter.ExcludeConflicting(ctx, []string{"c-1"}, f.mustWindow(t, "13:00", "15:00"), "")
	if err != nil {
		t.Fatalf("ExcludeConflicting = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("overlapping window kept cleaner: %v", got)
	}
}

func TestExcludeConflictingDifferentStartSameWindow(t *testing.T) {
	f := newFixture(t)
	f.addCleaner(t, "c-1", 4, 1)
	f.addBooking(t, strPtr("c-1"), models.StatusPending, "10:00", "12:00")

	got, err := f.pipeline.Conflicts.ExcludeConflicting(context.Background(), []string{"c-1"}, f.mustWindow(t, "11:00", "13:00"), "")
	if err != nil {
		t.Fatalf("ExcludeConflicting = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("[11:00,13:00) against [10:00,12:00) should conflict, got %v", got)
	}
}

func TestExcludeConflictingStatuses(t *testing.T) {
	cases := []struct {
		status models.BookingStatus
		blocks bool
	}{
		{models.StatusDraft, false},
		{models.StatusPending, true},
		{models.StatusConfirmed, true},
		{models.StatusInProgress, true},
		{models.StatusCompleted, false},
		{models.StatusCancelled, false},
		{models.StatusReadyForPayment, false},
	}
	for _, tc := range cases {
		f := newFixture(t)
		f.addCleaner(t, "c-1", 4, 1)
		f.addBooking(t, strPtr("c-1"), tc.status, "10:00", "12:00")

		got, err := f.pipeline.Conflicts.ExcludeConflicting(context.Background(), []string{"c-1"}, f.mustWindow(t, "10:00", "12:00"), "")
		if err != nil {
			t.Fatalf("%s: ExcludeConflicting = %v", tc.status, err)
		}
		if blocked := len(got) == 0; blocked != tc.blocks {
			t.Fatalf("%s: blocked = %v, want %v", tc.status, blocked, tc.blocks)
		}
	}
}

func TestExcludeConflictingSkipsOwnBooking(t *testing.T) {
	f := newFixture(t)
	f.addCleaner(t, "c-1", 4, 1)
	own := f.addBooking(t, strPtr("c-1"), models.StatusPending, "10:00", "12:00")

	got, err := f.pipeline.Conflicts.ExcludeConflicting(context.Background(), []string{"c-1"}, f.mustWindow(t, "10:00", "12:00"), own.ID)
	if err != nil {
		t.Fatalf("ExcludeConflicting = %v", err)
	}
	if !equalIDs(got, []string{"c-1"}) {
		t.Fatalf("booking conflicted with itself: %v", got)
	}
}

func TestExcludeConflictingOtherDateAndOrder(t *testing.T) {
	f := newFixture(t)
	for _, id := range []string{"c-3", "c-1", "c-2"} {
		f.addCleaner(t, id, 4, 1)
	}
	b := f.addBooking(t, strPtr("c-1"), models.StatusConfirmed, "10:00", "12:00")
	other := *b
	other.ID = ""
	other.Date = "2030-06-04"
	other.CleanerID = strPtr("c-2")
	if err := f.bookings.Create(context.Background(), &other); err != nil {
		t.Fatalf("Create = %v", err)
	}

	got, err := f.pipeline.Conflicts.ExcludeConflicting(context.Background(), []string{"c-3", "c-1", "c-2"}, f.mustWindow(t, "11:00", "12:00"), "")
	if err != nil {
		t.Fatalf("ExcludeConflicting = %v", err)
	}
	if want := []string{"c-3", "c-2"}; !equalIDs(got, want) {
		t.Fatalf("ExcludeConflicting = %v, want %v", got, want)
	}
}

func TestExcludeConflictingEmptyInput(t *testing.T) {
	f := newFixture(t)
	got, err := f.pipeline.Conflicts.ExcludeConflicting(context.Background(), nil, f.mustWindow(t, "10:00", "12:00"), "")
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("ExcludeConflicting(nil) = %v, %v; want empty list", got, err)
	}
}
