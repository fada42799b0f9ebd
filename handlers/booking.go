package handlers

import (
	"errors"
	"net/http"

	"sparkclean/models"
	"sparkclean/services/booking"
	"sparkclean/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves availability search and cleaner assignment.
type BookingHandler struct {
	Matching   booking.MatchingService
	Assignment booking.AssignmentService
}

func NewBookingHandler(matching booking.MatchingService, assignment booking.AssignmentService) *BookingHandler {
	return &BookingHandler{Matching: matching, Assignment: assignment}
}

// QueryAvailability handles POST /api/availability.
func (h *BookingHandler) QueryAvailability(c *gin.Context) {
	logger := getLogger(c)

	var q models.AvailabilityQuery
	if err := c.ShouldBindJSON(&q); err != nil {
		utils.JSONCodedError(c, http.StatusBadRequest, string(booking.CodeInvalidRequest), "Invalid request", err.Error())
		return
	}

	result, err := h.Matching.QueryAvailability(c.Request.Context(), q)
	if err != nil {
		logger.Debug("availability query failed", zap.String("areaId", q.AreaID), zap.Error(err))
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// AssignCleaner handles POST /api/assignments.
func (h *BookingHandler) AssignCleaner(c *gin.Context) {
	logger := getLogger(c)

	var req models.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONCodedError(c, http.StatusBadRequest, string(booking.CodeInvalidRequest), "Invalid request", err.Error())
		return
	}

	result, err := h.Assignment.Assign(c.Request.Context(), req)
	if err != nil {
		logger.Info("assignment not committed", zap.String("bookingId", req.BookingID), zap.Error(err))
		switch booking.CodeOf(err) {
		case booking.CodeConflict:
			c.JSON(http.StatusConflict, models.AssignmentResult{
				Status:    models.AssignmentConflict,
				BookingID: req.BookingID,
				Message:   messageOf(err),
			})
			return
		case booking.CodeNoCleanersAvailable:
			c.JSON(http.StatusUnprocessableEntity, models.AssignmentResult{
				Status:    models.AssignmentNoCleanersAvailable,
				BookingID: req.BookingID,
				Message:   messageOf(err),
			})
			return
		}
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// writeBookingError maps service errors to HTTP responses. Errors without a
// booking code are storage failures and come back as 500 so clients may retry.
func writeBookingError(c *gin.Context, err error) {
	code := booking.CodeOf(err)
	switch code {
	case booking.CodeNotFound:
		utils.JSONCodedError(c, http.StatusNotFound, string(code), "Not found", messageOf(err))
	case booking.CodeInvalidWindow, booking.CodeInvalidRequest:
		utils.JSONCodedError(c, http.StatusBadRequest, string(code), "Invalid request", messageOf(err))
	case booking.CodeUnauthorized:
		status := http.StatusUnauthorized
		if _, ok := booking.PrincipalFrom(c.Request.Context()); ok {
			status = http.StatusForbidden
		}
		utils.JSONCodedError(c, status, string(code), "Not permitted", messageOf(err))
	case booking.CodeConflict:
		utils.JSONCodedError(c, http.StatusConflict, string(code), "Conflict", messageOf(err))
	case booking.CodeNoCleanersAvailable:
		utils.JSONCodedError(c, http.StatusUnprocessableEntity, string(code), "No cleaners available", messageOf(err))
	default:
		getLogger(c).Error("booking request failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "Storage is temporarily unavailable. Please retry.")
	}
}

func messageOf(err error) string {
	var be *booking.BookingError
	if errors.As(err, &be) {
		return be.Message
	}
	return err.Error()
}
