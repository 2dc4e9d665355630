package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mentorify/mentorify-api/internal/middleware"
	"github.com/mentorify/mentorify-api/internal/models"
	"github.com/mentorify/mentorify-api/internal/services"
)

// ReviewHandler handles mentee reviews of completed sessions
type ReviewHandler struct {
	service services.ReviewServiceInterface
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(service services.ReviewServiceInterface) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// SubmitReview handles POST /api/v1/mentee/reviews
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	user, err := middleware.GetAuthUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req models.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	review, err := h.service.SubmitReview(c.Request.Context(), user.ID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReviewAlreadyExists):
			respondError(c, http.StatusConflict, "You have already reviewed this session", err)
		case errors.Is(err, services.ErrReviewSessionNotDone):
			respondError(c, http.StatusConflict, "Only completed sessions can be reviewed", err)
		case errors.Is(err, services.ErrReviewWrongSession):
			respondError(c, http.StatusForbidden, "Session does not belong to this mentee and mentor", err)
		case errors.Is(err, services.ErrSessionNotFound):
			respondError(c, http.StatusNotFound, "Session not found", err)
		default:
			respondError(c, http.StatusInternalServerError, "Failed to submit review", err)
		}
		return
	}

	c.JSON(http.StatusCreated, models.SubmitReviewResponse{
		Success:  true,
		ReviewID: review.ID.String(),
	})
}

// GetSessionReview handles GET /api/v1/mentee/sessions/:sessionId/review
func (h *ReviewHandler) GetSessionReview(c *gin.Context) {
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

	review, err := h.service.GetSessionReview(c.Request.Context(), user.ID, sessionID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch review", err)
		return
	}

	var resp models.ReviewsResponse
	if review != nil {
		resp.Data.Reviews = []models.Review{*review}
	} else {
		resp.Data.Reviews = []models.Review{}
	}
	c.JSON(http.StatusOK, resp)
}

// ListMentorReviews handles GET /api/v1/mentors/:mentorId/reviews
func (h *ReviewHandler) ListMentorReviews(c *gin.Context) {
	mentorID, err := uuid.Parse(c.Param("mentorId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid mentor ID", err)
		return
	}

	reviews, err := h.service.ListMentorReviews(c.Request.Context(), mentorID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch reviews", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "total": len(reviews)})
}
