package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mentorify/mentorify-api/internal/middleware"
	"github.com/mentorify/mentorify-api/internal/models"
	"github.com/mentorify/mentorify-api/internal/services"
)

// ProfileHandler handles mentor profile edits and picture uploads
type ProfileHandler struct {
	service services.ProfileServiceInterface
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(service services.ProfileServiceInterface) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// UpdateProfile handles PUT /api/v1/mentor/profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	user, err := middleware.GetAuthUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	mentor, err := h.service.UpdateProfile(c.Request.Context(), user.ID, &req)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update profile", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "mentor": mentor})
}

// UploadPicture handles POST /api/v1/mentor/profile/picture (multipart form, field "image")
func (h *ProfileHandler) UploadPicture(c *gin.Context) {
	user, err := middleware.GetAuthUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Image file is required", err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Failed to read uploaded file", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Failed to read uploaded file", err)
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	imageURL, err := h.service.UploadPicture(c.Request.Context(), user.ID, data, contentType)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidImage):
			c.JSON(http.StatusBadRequest, models.UploadPictureResponse{
				Success: false,
				Error:   err.Error(),
			})
			attachError(c, err)
		default:
			respondError(c, http.StatusInternalServerError, "Failed to upload picture", err)
		}
		return
	}

	c.JSON(http.StatusOK, models.UploadPictureResponse{
		Success:  true,
		ImageURL: imageURL,
	})
}

// GetImageURL handles POST /api/v1/mentor-image-url
func (h *ProfileHandler) GetImageURL(c *gin.Context) {
	var req models.MentorImageURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	mentorID, err := uuid.Parse(req.MentorID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid mentor ID", err)
		return
	}

	url, err := h.service.GetImageURL(c.Request.Context(), mentorID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMentorNotFound):
			respondError(c, http.StatusNotFound, "Mentor not found", err)
		default:
			respondError(c, http.StatusInternalServerError, "Failed to fetch image URL", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "imageUrl": url})
}
