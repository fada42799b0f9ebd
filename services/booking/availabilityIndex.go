package booking

import (
	"context"
	"fmt"
	"sort"

	cleanerRepo "sparkclean/database/repository/cleaner"
	"sparkclean/models"

	"go.uber.org/zap"
)

// AvailabilityIndex answers which cleaners cover an area and work through a window.
type AvailabilityIndex interface {
	FindCoveringCleaners(ctx context.Context, areaID string, w TimeWindow) ([]string, error)
}

// DefaultAvailabilityIndex implements AvailabilityIndex on the cleaner repository.
type DefaultAvailabilityIndex struct {
	Cleaners cleanerRepo.CleanerRepository
	Logger   *zap.Logger
}

// FindCoveringCleaners returns, in ascending id order, the active and available
// cleaners covering areaID whose working hours on the window's weekday fully
// contain the window. An empty result is not an error.
func (idx *DefaultAvailabilityIndex) FindCoveringCleaners(ctx context.Context, areaID string, w TimeWindow) ([]string, error) {
	if w.Start >= w.End {
		return nil, newError(CodeInvalidWindow, "window start must be before end")
	}
	exists, err := idx.Cleaners.AreaExists(ctx, areaID)
	if err != nil {
		return nil, fmt.Errorf("availability index: %w", err)
	}
	if !exists {
		return nil, newError(CodeNotFound, "service area %s not found", areaID)
	}

	cleaners, err := idx.Cleaners.FindCovering(ctx, areaID)
	if err != nil {
		return nil, fmt.Errorf("availability index: %w", err)
	}

	ids := make([]string, 0, len(cleaners))
	for _, c := range cleaners {
		// The store already filters, but a stale cache or replica must not leak inactive cleaners.
		if !c.Active || !c.Available {
			continue
		}
		if worksThrough(c.WorkingWindows, int(w.Day), w.Start, w.End) {
			ids = append(ids, c.ID)
		}
	}
	sort.Strings(ids)

	if idx.Logger != nil {
		idx.Logger.Debug("availability index",
			zap.String("areaId", areaID),
			zap.String("window", w.String()),
			zap.Int("covering", len(cleaners)),
			zap.Int("eligible", len(ids)),
		)
	}
	return ids, nil
}

// worksThrough reports whether a single available window on day contains
// [start, end). Adjacent windows are not joined.
func worksThrough(windows []models.WorkingWindow, day, start, end int) bool {
	for _, ww := range windows {
		if ww.DayOfWeek == day && ww.Available && Contains(ww.Start, ww.End, start, end) {
			return true
		}
	}
	return false
}
