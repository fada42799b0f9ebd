package booking

import (
	"context"
	"fmt"
	"sort"

	cleanerRepo "sparkclean/database/repository/cleaner"
	"sparkclean/models"
	"sparkclean/services/storage"

	"github.com/cespare/xxhash/v2"
)

const (
	BadgeTopRated    = "Top Rated"
	BadgeExperienced = "Experienced"
	BadgePopular     = "Popular"
	BadgeVerified    = "Verified"

	topRatedMin    = 4.5
	experiencedMin = 5
	popularMin     = 50
)

// etaBuckets are display estimates only; they carry no travel-time meaning.
var etaBuckets = []string{"15-30 mins", "30-45 mins", "45-60 mins", "1-2 hours"}

// CandidateRanker orders eligible cleaners and builds their display cards.
type CandidateRanker interface {
	Rank(ctx context.Context, ids []string) ([]models.Candidate, error)
}

// DefaultCandidateRanker implements CandidateRanker on the cleaner repository.
type DefaultCandidateRanker struct {
	Cleaners cleanerRepo.CleanerRepository
	Avatars  storage.AvatarResolver
}

// Rank sorts by rating desc, then experience desc, then id asc, so equal
// inputs always produce the same list.
func (r *DefaultCandidateRanker) Rank(ctx context.Context, ids []string) ([]models.Candidate, error) {
	if len(ids) == 0 {
		return []models.Candidate{}, nil
	}
	cleaners, err := r.Cleaners.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("candidate ranker: %w", err)
	}

	sort.SliceStable(cleaners, func(i, j int) bool {
		a, b := cleaners[i], cleaners[j]
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		if a.ExperienceYears != b.ExperienceYears {
			return a.ExperienceYears > b.ExperienceYears
		}
		return a.ID < b.ID
	})

	avatars := r.Avatars
	if avatars == nil {
		avatars = storage.PassthroughAvatars{}
	}

	out := make([]models.Candidate, 0, len(cleaners))
	for i, c := range cleaners {
		out = append(out, models.Candidate{
			CleanerID:       c.ID,
			Name:            c.Name,
			Rating:          c.Rating,
			TotalRatings:    c.TotalRatings,
			ExperienceYears: c.ExperienceYears,
			Bio:             c.Bio,
			Avatar:          avatars.AvatarURL(ctx, c.AvatarRef),
			HourlyRate:      c.HourlyRate,
			ETA:             ETAFor(c.ID),
			Badges:          BadgesFor(c),
			Preferred:       i == 0,
		})
	}
	return out, nil
}

// ETAFor picks a display bucket from a hash of the cleaner id.
func ETAFor(cleanerID string) string {
	return etaBuckets[xxhash.Sum64String(cleanerID)%uint64(len(etaBuckets))]
}

// BadgesFor derives badges in a fixed order.
func BadgesFor(c models.Cleaner) []string {
	badges := make([]string, 0, 4)
	if c.Rating >= topRatedMin {
		badges = append(badges, BadgeTopRated)
	}
	if c.ExperienceYears >= experiencedMin {
		badges = append(badges, BadgeExperienced)
	}
	if c.TotalRatings >= popularMin {
		badges = append(badges, BadgePopular)
	}
	return append(badges, BadgeVerified)
}
