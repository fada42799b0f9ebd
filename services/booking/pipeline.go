package booking

import (
	"context"

	"sparkclean/models"
)

// Pipeline chains the index, the conflict filter and the ranker.
type Pipeline struct {
	Index     AvailabilityIndex
	Conflicts ConflictFilter
	Ranker    CandidateRanker
}

// Run returns the ranked candidates free during w in areaID.
func (p *Pipeline) Run(ctx context.Context, areaID string, w TimeWindow, excludeBookingID string) ([]models.Candidate, error) {
	eligible, err := p.Index.FindCoveringCleaners(ctx, areaID, w)
	if err != nil {
		return nil, err
	}
	free, err := p.Conflicts.ExcludeConflicting(ctx, eligible, w, excludeBookingID)
	if err != nil {
		return nil, err
	}
	return p.Ranker.Rank(ctx, free)
}
