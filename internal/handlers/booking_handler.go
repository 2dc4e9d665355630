package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mentorify/mentorify-api/internal/middleware"
	"github.com/mentorify/mentorify-api/internal/models"
	"github.com/mentorify/mentorify-api/internal/services"
	apperrors "github.com/mentorify/mentorify-api/pkg/errors"
)

// BookingHandler handles the mentee side of session booking
type BookingHandler struct {
	service services.BookingServiceInterface
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(service services.BookingServiceInterface) *BookingHandler {
	return &BookingHandler{service: service}
}

// BookSession handles POST /api/v1/mentee/sessions
func (h *BookingHandler) BookSession(c *gin.Context) {
	user, err := middleware.GetAuthUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req models.BookSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	session, err := h.service.ProposeBooking(c.Request.Context(), user.ID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSlotUnavailable):
			c.JSON(http.StatusConflict, models.BookSessionResponse{
				Success: false,
				Error:   "This slot is no longer available",
			})
			attachError(c, err)
		case errors.Is(err, services.ErrInvalidDate):
			c.JSON(http.StatusBadRequest, models.BookSessionResponse{
				Success: false,
				Error:   err.Error(),
			})
			attachError(c, err)
		default:
			respondError(c, http.StatusInternalServerError, "Failed to book session", err)
		}
		return
	}

	c.JSON(http.StatusCreated, models.BookSessionResponse{
		Success: true,
		Session: session,
	})
}

// ListSessions handles GET /api/v1/mentee/sessions?bucket=upcoming
func (h *BookingHandler) ListSessions(c *gin.Context) {
	user, err := middleware.GetAuthUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	bucket := c.DefaultQuery("bucket", "upcoming")
	sessions, err := h.service.ListMenteeSessions(c.Request.Context(), user.ID, bucket)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Failed to list sessions", err)
		return
	}

	c.JSON(http.StatusOK, models.SessionsResponse{
		Sessions: sessions,
		Total:    len(sessions),
	})
}

// CancelSession handles POST /api/v1/mentee/sessions/:sessionId/cancel
func (h *BookingHandler) CancelSession(c *gin.Context) {
	user, err := middleware.GetAuthUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	sessionID, err := uuid.Parse(c.Param("sessionId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid session ID", err)
		return
	}

	session, err := h.service.CancelSession(c.Request.Context(), user.ID, sessionID)
	if err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "session": session})
}

// GetMeetingLink handles GET /api/v1/mentee/sessions/:sessionId/meeting-link
func (h *BookingHandler) GetMeetingLink(c *gin.Context) {
	user, err := middleware.GetAuthUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	sessionID, err := uuid.Parse(c.Param("sessionId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid session ID", err)
		return
	}

	link, err := h.service.GetMeetingLink(c.Request.Context(), user.ID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoMeetingLink):
			respondError(c, http.StatusNotFound, "No meeting link attached yet", err)
		default:
			respondSessionError(c, err)
		}
		return
	}

	resp := models.MeetingLinkResponse{Success: true}
	resp.Data.MeetingLink = link
	c.JSON(http.StatusOK, resp)
}

// respondSessionError maps session lifecycle errors to HTTP responses
func respondSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		respondError(c, http.StatusNotFound, "Session not found", err)
	case errors.Is(err, services.ErrInvalidTransition):
		respondError(c, http.StatusConflict, "Session is not in a state that allows this action", err)
	case errors.Is(err, apperrors.ErrAccessDenied):
		respondError(c, http.StatusForbidden, "Access denied", err)
	default:
		respondError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
