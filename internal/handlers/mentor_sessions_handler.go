package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mentorify/mentorify-api/internal/middleware"
	"github.com/mentorify/mentorify-api/internal/models"
	"github.com/mentorify/mentorify-api/internal/services"
)

// MentorSessionsHandler handles the mentor side of the session lifecycle
type MentorSessionsHandler struct {
	service services.BookingServiceInterface
}

// NewMentorSessionsHandler creates a new mentor sessions handler
func NewMentorSessionsHandler(service services.BookingServiceInterface) *MentorSessionsHandler {
	return &MentorSessionsHandler{service: service}
}

// PendingRequests handles GET /api/v1/mentor/sessions/pending
func (h *MentorSessionsHandler) PendingRequests(c *gin.Context) {
	user, err := middleware.GetAuthUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	sessions, err := h.service.ListMentorSessions(c.Request.Context(), user.ID, "pending")
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list pending requests", err)
		return
	}

	c.JSON(http.StatusOK, models.PendingRequestsResponse{
		Requests: sessions,
		Total:    len(sessions),
	})
}

// ListSessions handles GET /api/v1/mentor/sessions?bucket=upcoming
func (h *MentorSessionsHandler) ListSessions(c *gin.Context) {
	user, err := middleware.GetAuthUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	bucket := c.DefaultQuery("bucket", "upcoming")
	sessions, err := h.service.ListMentorSessions(c.Request.Context(), user.ID, bucket)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Failed to list sessions", err)
		return
	}

	c.JSON(http.StatusOK, models.SessionsResponse{
		Sessions: sessions,
		Total:    len(sessions),
	})
}

// AcceptSession handles POST /api/v1/mentor/sessions/:sessionId/accept
func (h *MentorSessionsHandler) AcceptSession(c *gin.Context) {
	h.transition(c, h.service.AcceptSession)
}

// CompleteSession handles POST /api/v1/mentor/sessions/:sessionId/complete
func (h *MentorSessionsHandler) CompleteSession(c *gin.Context) {
	h.transition(c, h.service.CompleteSession)
}

// CancelSession handles POST /api/v1/mentor/sessions/:sessionId/cancel
func (h *MentorSessionsHandler) CancelSession(c *gin.Context) {
	h.transition(c, h.service.CancelSession)
}

func (h *MentorSessionsHandler) transition(c *gin.Context, op func(ctx context.Context, mentorID, sessionID uuid.UUID) (*models.Session, error)) {
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

	session, err := op(c.Request.Context(), user.ID, sessionID)
	if err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "session": session})
}

// AttachMeetingLink handles POST /api/v1/mentor/sessions/:sessionId/meeting-link
func (h *MentorSessionsHandler) AttachMeetingLink(c *gin.Context) {
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

	var req struct {
		MeetingLink string `json:"meetingLink" binding:"required,url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	session, err := h.service.AttachMeetingLink(c.Request.Context(), user.ID, sessionID, req.MeetingLink)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidLink):
			respondError(c, http.StatusBadRequest, "Meeting link must be a Google Meet URL", err)
		default:
			respondSessionError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "session": session})
}
