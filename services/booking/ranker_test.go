package booking

import (
	"context"
	"testing"

	"sparkclean/models"
)

func TestRankOrder(t *testing.T) {
	f := newFixture(t)
	f.addCleaner(t, "c-d", 4.5, 2)
	f.addCleaner(t, "c-c", 4.5, 7)
	f.addCleaner(t, "c-b", 4.8, 1)
	f.addCleaner(t, "c-a", 4.5, 7)

	got, err := f.pipeline.Ranker.Rank(context.Background(), []string{"c-d", "c-c", "c-b", "c-a"})
	if err != nil {
		t.Fatalf("Rank = %v", err)
	}
	if want := []string{"c-b", "c-a", "c-c", "c-d"}; !equalIDs(candidateIDs(got), want) {
		t.Fatalf("Rank order = %v, want %v", candidateIDs(got), want)
	}
	if !got[0].Preferred {
		t.Fatalf("head of list should be preferred")
	}
	for _, c := range got[1:] {
		if c.Preferred {
			t.Fatalf("%s should not be preferred", c.CleanerID)
		}
	}
}

func TestRankIsDeterministic(t *testing.T) {
	f := newFixture(t)
	ids := []string{"c-1", "c-2", "c-3"}
	for _, id := range ids {
		f.addCleaner(t, id, 4.2, 3)
	}
	first, err := f.pipeline.Ranker.Rank(context.Background(), ids)
	if err != nil {
		t.Fatalf("Rank = %v", err)
	}
	second, err := f.pipeline.Ranker.Rank(context.Background(), []string{"c-3", "c-1", "c-2"})
	if err != nil {
		t.Fatalf("Rank = %v", err)
	}
	if !equalIDs(candidateIDs(first), candidateIDs(second)) {
		t.Fatalf("rank differs by input order: %v vs %v", candidateIDs(first), candidateIDs(second))
	}
	for i := range first {
		if first[i].ETA != second[i].ETA {
			t.Fatalf("ETA for %s changed between calls", first[i].CleanerID)
		}
	}
}

func TestRankEmpty(t *testing.T) {
	f := newFixture(t)
	got, err := f.pipeline.Ranker.Rank(context.Background(), nil)
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("Rank(nil) = %v, %v; want empty list", got, err)
	}
}

func TestBadgesFor(t *testing.T) {
	got := BadgesFor(models.Cleaner{Rating: 4.5, ExperienceYears: 5, TotalRatings: 50})
	want := []string{BadgeTopRated, BadgeExperienced, BadgePopular, BadgeVerified}
	if !equalIDs(got, want) {
		t.Fatalf("BadgesFor = %v, want %v", got, want)
	}
	got = BadgesFor(models.Cleaner{Rating: 4.4, ExperienceYears: 4, TotalRatings: 49})
	if !equalIDs(got, []string{BadgeVerified}) {
		t.Fatalf("BadgesFor = %v, want only Verified", got)
	}
}

func TestETAForIsStable(t *testing.T) {
	valid := map[string]bool{}
	for _, b := range etaBuckets {
		valid[b] = true
	}
	for _, id := range []string{"c-1", "c-2", "cleaner-with-a-long-id"} {
		eta := ETAFor(id)
		if !valid[eta] {
			t.Fatalf("ETAFor(%s) = %q is not a known bucket", id, eta)
		}
		if ETAFor(id) != eta {
			t.Fatalf("ETAFor(%s) is not stable", id)
		}
	}
}

type stubAvatars struct{}

func (stubAvatars) AvatarURL(_ context.Context, ref string) string {
	if ref == "" {
		return ""
	}
	return "https://img.example/" + ref
}

func TestRankResolvesAvatars(t *testing.T) {
	f := newFixture(t)
	c := f.addCleaner(t, "c-1", 4, 1)
	c.AvatarRef = "cleaners/c-1"
	f.saveCleaner(t, c)

	ranker := &DefaultCandidateRanker{Cleaners: f.cleaners, Avatars: stubAvatars{}}
	got, err := ranker.Rank(context.Background(), []string{"c-1"})
	if err != nil {
		t.Fatalf("Rank = %v", err)
	}
	if got[0].Avatar != "https://img.example/cleaners/c-1" {
		t.Fatalf("Avatar = %q", got[0].Avatar)
	}
}
