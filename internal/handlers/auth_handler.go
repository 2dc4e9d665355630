package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mentorify/mentorify-api/internal/models"
	"github.com/mentorify/mentorify-api/internal/services"
)

// AuthHandler handles OTP verification, signup and login requests
type AuthHandler struct {
	service services.AuthServiceInterface
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service services.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// SendOTP handles POST /api/v1/send-otp
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req models.SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	if err := h.service.SendOTP(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, services.ErrUserAlreadyExists) {
			respondError(c, http.StatusConflict, "User already registered", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to send verification code", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Verification code sent"})
}

// VerifyOTP handles POST /api/v1/verify-otp
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req models.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	if err := h.service.VerifyOTP(c.Request.Context(), req.Email, req.OTP); err != nil {
		if errors.Is(err, services.ErrInvalidOTP) {
			respondError(c, http.StatusUnauthorized, "Invalid or expired verification code", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to verify code", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email verified"})
}

// Signup handles POST /api/v1/signup and /api/v1/mentor-signup.
// The route decides which role the account gets.
func (h *AuthHandler) Signup(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
			return
		}

		resp, err := h.service.Signup(c.Request.Context(), role, &req)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserAlreadyExists):
				respondError(c, http.StatusConflict, "User already registered", err)
			case errors.Is(err, services.ErrEmailNotVerified):
				respondError(c, http.StatusForbidden, "Email not verified", err)
			default:
				respondError(c, http.StatusInternalServerError, "Failed to create account", err)
			}
			return
		}

		c.JSON(http.StatusCreated, resp)
	}
}

// Login handles POST /api/v1/login and /api/v1/mentor-login
func (h *AuthHandler) Login(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
			return
		}

		resp, err := h.service.Login(c.Request.Context(), role, &req)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				respondError(c, http.StatusUnauthorized, "Invalid email or password", err)
				return
			}
			respondError(c, http.StatusInternalServerError, "Failed to log in", err)
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

// Logout handles POST /api/v1/logout.
// Bearer tokens are stateless; the client discards its copy, and the
// endpoint exists so the frontend has a single logout call to make.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out",
	})
}
