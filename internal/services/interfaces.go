package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/mentorify/mentorify-api/internal/models"
)

// AuthServiceInterface defines the interface for authentication operations
type AuthServiceInterface interface {
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) error
	Signup(ctx context.Context, role models.UserRole, req *models.SignupRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, role models.UserRole, req *models.LoginRequest) (*models.AuthResponse, error)
}

// AvailabilityServiceInterface defines the interface for schedule operations
type AvailabilityServiceInterface interface {
	SetAvailability(ctx context.Context, mentorID uuid.UUID, req *models.SetAvailabilityRequest) (*models.Availability, error)
	UpdateAvailability(ctx context.Context, mentorID uuid.UUID, req *models.SetAvailabilityRequest) (*models.Availability, error)
	GetAvailability(ctx context.Context, mentorID uuid.UUID) (*models.Availability, error)
}

// BookingServiceInterface defines the interface for session lifecycle operations
type BookingServiceInterface interface {
	ProposeBooking(ctx context.Context, menteeID uuid.UUID, req *models.BookSessionRequest) (*models.Session, error)
	AcceptSession(ctx context.Context, mentorID, sessionID uuid.UUID) (*models.Session, error)
	CompleteSession(ctx context.Context, mentorID, sessionID uuid.UUID) (*models.Session, error)
	CancelSession(ctx context.Context, participantID, sessionID uuid.UUID) (*models.Session, error)
	AttachMeetingLink(ctx context.Context, mentorID, sessionID uuid.UUID, link string) (*models.Session, error)
	GetMeetingLink(ctx context.Context, userID, sessionID uuid.UUID) (string, error)
	GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*models.Session, error)
	ListMenteeSessions(ctx context.Context, menteeID uuid.UUID, bucket string) ([]*models.Session, error)
	ListMentorSessions(ctx context.Context, mentorID uuid.UUID, bucket string) ([]*models.Session, error)
}

// MentorServiceInterface defines the interface for mentor directory operations
type MentorServiceInterface interface {
	GetAllMentors(ctx context.Context) ([]*models.Mentor, error)
	GetMentorByID(ctx context.Context, id uuid.UUID) (*models.Mentor, error)
	RefreshMentor(ctx context.Context, id uuid.UUID)
}

// ReviewServiceInterface defines the interface for review operations
type ReviewServiceInterface interface {
	SubmitReview(ctx context.Context, menteeID uuid.UUID, req *models.SubmitReviewRequest) (*models.Review, error)
	GetSessionReview(ctx context.Context, menteeID, sessionID uuid.UUID) (*models.Review, error)
	ListMentorReviews(ctx context.Context, mentorID uuid.UUID) ([]models.Review, error)
}

// ProfileServiceInterface defines the interface for profile operations
type ProfileServiceInterface interface {
	UpdateProfile(ctx context.Context, mentorID uuid.UUID, req *models.UpdateProfileRequest) (*models.Mentor, error)
	UploadPicture(ctx context.Context, mentorID uuid.UUID, data []byte, contentType string) (string, error)
	GetImageURL(ctx context.Context, mentorID uuid.UUID) (string, error)
}

// Ensure services implement their interfaces
var _ AuthServiceInterface = (*AuthService)(nil)
var _ AvailabilityServiceInterface = (*AvailabilityService)(nil)
var _ BookingServiceInterface = (*BookingService)(nil)
var _ MentorServiceInterface = (*MentorService)(nil)
var _ ReviewServiceInterface = (*ReviewService)(nil)
var _ ProfileServiceInterface = (*ProfileService)(nil)
