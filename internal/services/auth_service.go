package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mentorify/mentorify-api/config"
	"github.com/mentorify/mentorify-api/internal/models"
	"github.com/mentorify/mentorify-api/internal/repository"
	"github.com/mentorify/mentorify-api/pkg/httpclient"
	"github.com/mentorify/mentorify-api/pkg/jwt"
	"github.com/mentorify/mentorify-api/pkg/logger"
	"github.com/mentorify/mentorify-api/pkg/metrics"
	"github.com/mentorify/mentorify-api/pkg/otp"
	"github.com/mentorify/mentorify-api/pkg/trigger"
)

var (
	ErrInvalidOTP         = errors.New("invalid or expired otp")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrUserAlreadyExists  = errors.New("user already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AuthService handles email verification, signup and login
type AuthService struct {
	userRepo     *repository.UserRepository
	otpStore     *otp.Store
	tokenManager *jwt.TokenManager
	config       *config.Config
	httpClient   httpclient.Client
}

// NewAuthService creates a new auth service instance
func NewAuthService(
	userRepo *repository.UserRepository,
	otpStore *otp.Store,
	tokenManager *jwt.TokenManager,
	cfg *config.Config,
	httpClient httpclient.Client,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		otpStore:     otpStore,
		tokenManager: tokenManager,
		config:       cfg,
		httpClient:   httpClient,
	}
}

// SendOTP issues a verification code for the email and hands it to the mail
// delivery function. Registered emails are rejected up front.
func (s *AuthService) SendOTP(ctx context.Context, email string) error {
	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		metrics.OTPRequests.WithLabelValues("issue", "error").Inc()
		return fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		metrics.OTPRequests.WithLabelValues("issue", "already_registered").Inc()
		return ErrUserAlreadyExists
	}

	code, err := s.otpStore.Issue(ctx, email)
	if err != nil {
		metrics.OTPRequests.WithLabelValues("issue", "error").Inc()
		logger.Error("Failed to issue OTP", zap.String("email", email), zap.Error(err))
		return fmt.Errorf("failed to issue otp: %w", err)
	}

	metrics.OTPRequests.WithLabelValues("issue", "success").Inc()
	logger.Info("OTP issued", zap.String("email", email))

	trigger.CallAsync(s.config.EventTriggers.OTPEmailTriggerURL, "otp_email", map[string]string{
		"email": email,
		"code":  code,
	}, s.httpClient)

	return nil
}

// VerifyOTP checks the submitted code and marks the email as verified
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) error {
	if err := s.otpStore.Verify(ctx, email, code); err != nil {
		if errors.Is(err, otp.ErrNotFound) || errors.Is(err, otp.ErrMismatch) {
			metrics.OTPRequests.WithLabelValues("verify", "invalid").Inc()
			return ErrInvalidOTP
		}
		metrics.OTPRequests.WithLabelValues("verify", "error").Inc()
		return fmt.Errorf("failed to verify otp: %w", err)
	}

	metrics.OTPRequests.WithLabelValues("verify", "success").Inc()
	logger.Info("OTP verified", zap.String("email", email))
	return nil
}

// Signup creates a user account for a verified email and returns a session
// token. The role comes from the route, not the payload.
func (s *AuthService) Signup(ctx context.Context, role models.UserRole, req *models.SignupRequest) (*models.AuthResponse, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	verified, err := s.otpStore.IsVerified(ctx, req.Email)
	if err != nil {
		metrics.Signups.WithLabelValues(string(role), "error").Inc()
		return nil, fmt.Errorf("failed to check verification: %w", err)
	}
	if !verified {
		metrics.Signups.WithLabelValues(string(role), "not_verified").Inc()
		return nil, ErrEmailNotVerified
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		metrics.Signups.WithLabelValues(string(role), "error").Inc()
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.userRepo.Create(ctx, req.Name, req.Email, string(hash), role, req.CurrentPosition, req.Experience)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			metrics.Signups.WithLabelValues(string(role), "already_registered").Inc()
			return nil, ErrUserAlreadyExists
		}
		metrics.Signups.WithLabelValues(string(role), "error").Inc()
		logger.Error("Failed to create user", zap.String("email", req.Email), zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.otpStore.Consume(ctx, req.Email); err != nil {
		logger.Warn("Failed to clear verified flag", zap.String("email", req.Email), zap.Error(err))
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		metrics.Signups.WithLabelValues(string(role), "error").Inc()
		return nil, fmt.Errorf("failed to load created user: %w", err)
	}

	token, err := s.tokenManager.GenerateToken(user.ID.String(), user.Email, user.Name, string(user.Role))
	if err != nil {
		metrics.Signups.WithLabelValues(string(role), "error").Inc()
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	metrics.Signups.WithLabelValues(string(role), "success").Inc()
	logger.Info("User signed up",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return &models.AuthResponse{
		Success: true,
		Message: "Signup successful",
		User:    user.Public(),
		Token:   token,
	}, nil
}

// Login verifies credentials for the role the endpoint serves.
// A mentee credential on the mentor login (or vice versa) fails the same way
// a wrong password does.
func (s *AuthService) Login(ctx context.Context, role models.UserRole, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if user.Role != role {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logger.Warn("Failed login attempt", zap.String("email", req.Email))
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokenManager.GenerateToken(user.ID.String(), user.Email, user.Name, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return &models.AuthResponse{
		Success: true,
		Message: "Login successful",
		User:    user.Public(),
		Token:   token,
	}, nil
}
