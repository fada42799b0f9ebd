package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "sparkclean/database/repository/booking"
	cleanerRepo "sparkclean/database/repository/cleaner"
	"sparkclean/models"
	"sparkclean/services/cache"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const listenerTimeout = 5 * time.Second

// AssignmentService binds cleaners to bookings.
type AssignmentService interface {
	Assign(ctx context.Context, req models.AssignRequest) (*models.AssignmentResult, error)
}

// DefaultAssignmentService implements AssignmentService. Authorizer may be nil
// to skip caller checks. Cleaners is used to find every area whose cached
// availability lists the assigned cleaner; without it only the booking's area
// is invalidated.
type DefaultAssignmentService struct {
	Bookings   bookingRepo.BookingRepository
	Cleaners   cleanerRepo.CleanerRepository
	Pipeline   *Pipeline
	Authorizer Authorizer
	Cache      cache.CandidateCache
	Listeners  []AssignmentListener
	Logger     *zap.Logger
}

// Assign commits a manual or automatic cleaner choice. Eligibility and
// conflicts are recomputed from the store; the repository's conditional
// write is what finally settles a race.
func (s *DefaultAssignmentService) Assign(ctx context.Context, req models.AssignRequest) (*models.AssignmentResult, error) {
	ctx, span := tracer.Start(ctx, "booking.Assign")
	defer span.End()
	span.SetAttributes(
		attribute.String("booking.id", req.BookingID),
		attribute.Bool("booking.auto_assign", req.AutoAssign),
	)

	result, err := s.assign(ctx, req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("cleaner.id", result.CleanerID))
	return result, nil
}

func (s *DefaultAssignmentService) assign(ctx context.Context, req models.AssignRequest) (*models.AssignmentResult, error) {
	if req.BookingID == "" {
		return nil, newError(CodeInvalidRequest, "bookingId is required")
	}
	if (req.CleanerID == "") == !req.AutoAssign {
		return nil, newError(CodeInvalidRequest, "exactly one of cleanerId or autoAssign must be given")
	}

	booking, err := s.Bookings.GetByID(ctx, req.BookingID)
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return nil, newError(CodeNotFound, "booking %s not found", req.BookingID)
	}
	if err != nil {
		return nil, fmt.Errorf("load booking %s: %w", req.BookingID, err)
	}

	if s.Authorizer != nil {
		if err := s.Authorizer.AuthorizeAssignment(ctx, booking); err != nil {
			if CodeOf(err) == "" {
				err = wrapError(CodeUnauthorized, err, "caller may not assign booking %s", booking.ID)
			}
			return nil, err
		}
	}

	if booking.Status.Terminal() {
		return nil, newError(CodeConflict, "booking %s is %s", booking.ID, booking.Status)
	}
	w, err := WindowFromBooking(booking)
	if err != nil {
		return nil, err
	}

	var cleanerID string
	if req.AutoAssign {
		if booking.CleanerID != nil {
			// A retried auto-assign reports the binding it already made.
			return assignedResult(booking), nil
		}
		cleanerID, err = s.pickBest(ctx, booking, w)
	} else {
		cleanerID = req.CleanerID
		err = s.checkRequested(ctx, booking, w, cleanerID)
	}
	if err != nil {
		return nil, err
	}

	next := booking.Status
	if next == models.StatusDraft {
		next = models.StatusPending
	}
	if !booking.Status.CanTransition(next) {
		return nil, newError(CodeConflict, "booking %s cannot move from %s to %s", booking.ID, booking.Status, next)
	}
	if booking.AssignedTo(cleanerID) && next == booking.Status {
		return assignedResult(booking), nil
	}

	// Past this point the write may land, so the rest must not be abandoned with the caller.
	commitCtx := context.WithoutCancel(ctx)
	updated, err := s.Bookings.AssignCleaner(commitCtx, bookingRepo.AssignParams{
		BookingID:         booking.ID,
		CleanerID:         cleanerID,
		ExpectedCleanerID: booking.CleanerID,
		Status:            next,
	})
	if err != nil {
		return nil, s.mapCommitError(booking.ID, cleanerID, err)
	}

	s.logger().Info("cleaner assigned",
		zap.String("bookingId", updated.ID),
		zap.String("cleanerId", cleanerID),
		zap.Bool("autoAssign", req.AutoAssign),
		zap.String("status", string(updated.Status)),
	)
	s.afterCommit(commitCtx, *updated)
	return assignedResult(updated), nil
}

// pickBest runs a fresh pipeline and returns the head of the ranked list.
func (s *DefaultAssignmentService) pickBest(ctx context.Context, booking *models.Booking, w TimeWindow) (string, error) {
	candidates, err := s.Pipeline.Run(ctx, booking.AreaID, w, booking.ID)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", newError(CodeNoCleanersAvailable, "no cleaner is free for %s", w)
	}
	return candidates[0].CleanerID, nil
}

// checkRequested confirms a customer-picked cleaner is still eligible and free.
func (s *DefaultAssignmentService) checkRequested(ctx context.Context, booking *models.Booking, w TimeWindow, cleanerID string) error {
	if booking.CleanerID != nil && *booking.CleanerID != cleanerID {
		return newError(CodeConflict, "booking %s is already assigned", booking.ID)
	}
	eligible, err := s.Pipeline.Index.FindCoveringCleaners(ctx, booking.AreaID, w)
	if err != nil {
		return err
	}
	if !containsID(eligible, cleanerID) {
		return newError(CodeConflict, "cleaner %s does not cover %s", cleanerID, w)
	}
	free, err := s.Pipeline.Conflicts.ExcludeConflicting(ctx, []string{cleanerID}, w, booking.ID)
	if err != nil {
		return err
	}
	if len(free) == 0 {
		return newError(CodeConflict, "cleaner %s is already booked during %s", cleanerID, w)
	}
	return nil
}

func (s *DefaultAssignmentService) mapCommitError(bookingID, cleanerID string, err error) error {
	switch {
	case errors.Is(err, bookingRepo.ErrNotFound):
		return newError(CodeNotFound, "booking %s not found", bookingID)
	case errors.Is(err, bookingRepo.ErrCleanerBusy):
		return wrapError(CodeConflict, err, "cleaner %s was booked concurrently", cleanerID)
	case errors.Is(err, bookingRepo.ErrStaleBooking):
		return wrapError(CodeConflict, err, "booking %s changed concurrently", bookingID)
	case errors.Is(err, bookingRepo.ErrCleanerNotFound):
		return wrapError(CodeConflict, err, "cleaner %s is no longer available", cleanerID)
	}
	return fmt.Errorf("commit assignment of booking %s: %w", bookingID, err)
}

// afterCommit invalidates cached availability and notifies listeners. Failures are logged only.
func (s *DefaultAssignmentService) afterCommit(ctx context.Context, booking models.Booking) {
	if s.Cache != nil {
		for _, areaID := range s.affectedAreas(ctx, booking) {
			if err := s.Cache.Invalidate(ctx, AvailabilityPrefix(areaID, booking.Date)); err != nil {
				s.logger().Warn("availability cache invalidation failed",
					zap.String("bookingId", booking.ID), zap.String("areaId", areaID), zap.Error(err))
			}
		}
	}
	for _, l := range s.Listeners {
		lctx, cancel := context.WithTimeout(ctx, listenerTimeout)
		if err := l.BookingAssigned(lctx, booking); err != nil {
			s.logger().Warn("assignment listener failed",
				zap.String("bookingId", booking.ID), zap.Error(err))
		}
		cancel()
	}
}

// affectedAreas lists the booking's area followed by every other area the
// assigned cleaner covers, since cached results in each of them may list the cleaner.
func (s *DefaultAssignmentService) affectedAreas(ctx context.Context, booking models.Booking) []string {
	areas := []string{booking.AreaID}
	if s.Cleaners == nil || booking.CleanerID == nil {
		return areas
	}
	cleaners, err := s.Cleaners.GetByIDs(ctx, []string{*booking.CleanerID})
	if err != nil {
		s.logger().Warn("cleaner coverage lookup failed, invalidating booking area only",
			zap.String("bookingId", booking.ID), zap.Error(err))
		return areas
	}
	for _, c := range cleaners {
		for _, areaID := range c.AreaIDs {
			if areaID != booking.AreaID && !containsID(areas, areaID) {
				areas = append(areas, areaID)
			}
		}
	}
	return areas
}

func (s *DefaultAssignmentService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func assignedResult(b *models.Booking) *models.AssignmentResult {
	res := &models.AssignmentResult{
		Status:        models.AssignmentAssigned,
		BookingID:     b.ID,
		BookingStatus: b.Status,
	}
	if b.CleanerID != nil {
		res.CleanerID = *b.CleanerID
	}
	return res
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
