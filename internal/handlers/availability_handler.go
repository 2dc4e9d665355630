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

// AvailabilityHandler handles mentor schedule requests
type AvailabilityHandler struct {
	service services.AvailabilityServiceInterface
}

// NewAvailabilityHandler creates a new availability handler
func NewAvailabilityHandler(service services.AvailabilityServiceInterface) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

// SetAvailability handles POST /api/v1/mentor/availability.
// Replaces the whole schedule; all slots start free.
func (h *AvailabilityHandler) SetAvailability(c *gin.Context) {
	h.write(c, h.service.SetAvailability)
}

// UpdateAvailability handles PUT /api/v1/mentor/availability.
// Slots that keep their (day, start, end) identity keep their booked flag.
func (h *AvailabilityHandler) UpdateAvailability(c *gin.Context) {
	h.write(c, h.service.UpdateAvailability)
}

func (h *AvailabilityHandler) write(c *gin.Context, op func(ctx context.Context, mentorID uuid.UUID, req *models.SetAvailabilityRequest) (*models.Availability, error)) {
	user, err := middleware.GetAuthUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req models.SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	avail, err := op(c.Request.Context(), user.ID, &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSchedule) {
			respondError(c, http.StatusBadRequest, err.Error(), err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to save availability", err)
		return
	}

	c.JSON(http.StatusOK, models.AvailabilityResponse{
		Success:      true,
		Availability: avail,
	})
}

// GetOwnAvailability handles GET /api/v1/mentor/availability
func (h *AvailabilityHandler) GetOwnAvailability(c *gin.Context) {
	user, err := middleware.GetAuthUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	h.respondAvailability(c, user.ID)
}

// GetMentorAvailability handles GET /api/v1/mentors/:mentorId/availability.
// Mentee-facing view of a mentor's bookable slots.
func (h *AvailabilityHandler) GetMentorAvailability(c *gin.Context) {
	mentorID, err := uuid.Parse(c.Param("mentorId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid mentor ID", err)
		return
	}

	avail, err := h.service.GetAvailability(c.Request.Context(), mentorID)
	if err != nil {
		if errors.Is(err, services.ErrAvailabilityNotFound) {
			c.JSON(http.StatusOK, models.MentorAvailabilityResponse{MentorAvailability: nil})
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to fetch availability", err)
		return
	}

	c.JSON(http.StatusOK, models.MentorAvailabilityResponse{MentorAvailability: avail})
}

func (h *AvailabilityHandler) respondAvailability(c *gin.Context, mentorID uuid.UUID) {
	avail, err := h.service.GetAvailability(c.Request.Context(), mentorID)
	if err != nil {
		if errors.Is(err, services.ErrAvailabilityNotFound) {
			c.JSON(http.StatusOK, models.AvailabilityResponse{Success: true})
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to fetch availability", err)
		return
	}

	c.JSON(http.StatusOK, models.AvailabilityResponse{
		Success:      true,
		Availability: avail,
	})
}
