package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mentorify/mentorify-api/internal/models"
	"github.com/mentorify/mentorify-api/internal/services"
)

// MentorHandler serves the public mentor directory
type MentorHandler struct {
	service services.MentorServiceInterface
}

// NewMentorHandler creates a new mentor handler
func NewMentorHandler(service services.MentorServiceInterface) *MentorHandler {
	return &MentorHandler{service: service}
}

// GetMentorData handles GET /api/v1/mentors
func (h *MentorHandler) GetMentorData(c *gin.Context) {
	mentors, err := h.service.GetAllMentors(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch mentors", err)
		return
	}

	c.JSON(http.StatusOK, models.MentorDataResponse{
		Mentors: mentors,
		Total:   len(mentors),
	})
}

// GetMentorByID handles GET /api/v1/mentors/:mentorId
func (h *MentorHandler) GetMentorByID(c *gin.Context) {
	mentorID, err := uuid.Parse(c.Param("mentorId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid mentor ID", err)
		return
	}

	mentor, err := h.service.GetMentorByID(c.Request.Context(), mentorID)
	if err != nil {
		if errors.Is(err, services.ErrMentorNotFound) {
			respondError(c, http.StatusNotFound, "Mentor not found", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to fetch mentor", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"mentor": mentor})
}
