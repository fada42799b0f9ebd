package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"sparkclean/models"
	"sparkclean/services/cache"
	"sparkclean/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const defaultMaxCandidates = 20

var tracer = otel.Tracer("sparkclean/services/booking")

// MatchingService answers customer availability searches.
type MatchingService interface {
	QueryAvailability(ctx context.Context, q models.AvailabilityQuery) (*models.AvailabilityResult, error)
}

// DefaultMatchingService implements MatchingService. Results are cached per
// query; the assignment path never reads this cache.
type DefaultMatchingService struct {
	Pipeline      *Pipeline
	Cache         cache.CandidateCache
	CacheTTL      time.Duration
	MaxCandidates int
	Logger        *zap.Logger
}

// QueryAvailability validates q, then serves the ranked candidates, capped by
// q.Limit. TotalCount always reports the uncapped count.
func (s *DefaultMatchingService) QueryAvailability(ctx context.Context, q models.AvailabilityQuery) (*models.AvailabilityResult, error) {
	ctx, span := tracer.Start(ctx, "booking.QueryAvailability")
	defer span.End()
	span.SetAttributes(
		attribute.String("area.id", q.AreaID),
		attribute.String("booking.date", q.Date),
	)

	w, err := validateQuery(q)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	key := AvailabilityKey(q.AreaID, w, q.Bedrooms, q.Bathrooms)
	candidates, hit := s.readCache(ctx, key)
	if !hit {
		candidates, err = s.Pipeline.Run(ctx, q.AreaID, w, "")
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		s.writeCache(ctx, key, candidates)
	}
	span.SetAttributes(attribute.Bool("cache.hit", hit), attribute.Int("candidates.total", len(candidates)))

	limit := s.limitFor(q.Limit)
	shown := candidates
	if len(shown) > limit {
		shown = shown[:limit]
	}
	return &models.AvailabilityResult{Candidates: shown, TotalCount: len(candidates)}, nil
}

func (s *DefaultMatchingService) limitFor(requested int) int {
	ceiling := s.MaxCandidates
	if ceiling <= 0 {
		ceiling = defaultMaxCandidates
	}
	if requested <= 0 || requested > ceiling {
		return ceiling
	}
	return requested
}

// readCache fails open: any cache error is treated as a miss.
func (s *DefaultMatchingService) readCache(ctx context.Context, key string) ([]models.Candidate, bool) {
	if s.Cache == nil {
		return nil, false
	}
	raw, ok, err := s.Cache.Get(ctx, key)
	if err != nil {
		s.logger().Warn("availability cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var candidates []models.Candidate
	if err := json.Unmarshal(raw, &candidates); err != nil {
		s.logger().Warn("availability cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return candidates, true
}

func (s *DefaultMatchingService) writeCache(ctx context.Context, key string, candidates []models.Candidate) {
	if s.Cache == nil {
		return
	}
	raw, err := json.Marshal(candidates)
	if err != nil {
		s.logger().Warn("availability cache encode failed", zap.Error(err))
		return
	}
	if err := s.Cache.Set(ctx, key, raw, s.CacheTTL); err != nil {
		s.logger().Warn("availability cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *DefaultMatchingService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func validateQuery(q models.AvailabilityQuery) (TimeWindow, error) {
	if q.AreaID == "" {
		return TimeWindow{}, newError(CodeInvalidRequest, "areaId is required")
	}
	if q.Bedrooms != nil && *q.Bedrooms < 0 {
		return TimeWindow{}, newError(CodeInvalidRequest, "bedrooms cannot be negative")
	}
	if q.Bathrooms != nil && *q.Bathrooms < 0 {
		return TimeWindow{}, newError(CodeInvalidRequest, "bathrooms cannot be negative")
	}
	if q.Limit < 0 {
		return TimeWindow{}, newError(CodeInvalidRequest, "limit cannot be negative")
	}
	return NewTimeWindow(q.Date, q.StartTime, q.EndTime)
}

// AvailabilityPrefix covers every cached query for one area and date.
func AvailabilityPrefix(areaID, date string) string {
	return fmt.Sprintf("%s%s:%s:", utils.AvailabilityCachePrefix, areaID, date)
}

// AvailabilityKey identifies a cached query result.
func AvailabilityKey(areaID string, w TimeWindow, bedrooms, bathrooms *int) string {
	return fmt.Sprintf("%s%s-%s:%s:%s",
		AvailabilityPrefix(areaID, w.Date),
		FormatClock(w.Start), FormatClock(w.End),
		optionalCount(bedrooms), optionalCount(bathrooms),
	)
}

func optionalCount(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}
