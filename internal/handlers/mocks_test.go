package handlers_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/mentorify/mentorify-api/internal/models"
)

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SendOTP(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthService) VerifyOTP(ctx context.Context, email, code string) error {
	return m.Called(ctx, email, code).Error(0)
}

func (m *MockAuthService) Signup(ctx context.Context, role models.UserRole, req *models.SignupRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, role, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, role models.UserRole, req *models.LoginRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, role, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

// MockBookingService implements BookingServiceInterface for testing
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) ProposeBooking(ctx context.Context, menteeID uuid.UUID, req *models.BookSessionRequest) (*models.Session, error) {
	args := m.Called(ctx, menteeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockBookingService) AcceptSession(ctx context.Context, mentorID, sessionID uuid.UUID) (*models.Session, error) {
	args := m.Called(ctx, mentorID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockBookingService) CompleteSession(ctx context.Context, mentorID, sessionID uuid.UUID) (*models.Session, error) {
	args := m.Called(ctx, mentorID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockBookingService) CancelSession(ctx context.Context, participantID, sessionID uuid.UUID) (*models.Session, error) {
	args := m.Called(ctx, participantID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockBookingService) AttachMeetingLink(ctx context.Context, mentorID, sessionID uuid.UUID, link string) (*models.Session, error) {
	args := m.Called(ctx, mentorID, sessionID, link)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockBookingService) GetMeetingLink(ctx context.Context, userID, sessionID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID, sessionID)
	return args.String(0), args.Error(1)
}

func (m *MockBookingService) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*models.Session, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockBookingService) ListMenteeSessions(ctx context.Context, menteeID uuid.UUID, bucket string) ([]*models.Session, error) {
	args := m.Called(ctx, menteeID, bucket)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Session), args.Error(1)
}

func (m *MockBookingService) ListMentorSessions(ctx context.Context, mentorID uuid.UUID, bucket string) ([]*models.Session, error) {
	args := m.Called(ctx, mentorID, bucket)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Session), args.Error(1)
}

// MockAvailabilityService implements AvailabilityServiceInterface for testing
type MockAvailabilityService struct {
	mock.Mock
}

func (m *MockAvailabilityService) SetAvailability(ctx context.Context, mentorID uuid.UUID, req *models.SetAvailabilityRequest) (*models.Availability, error) {
	args := m.Called(ctx, mentorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Availability), args.Error(1)
}

func (m *MockAvailabilityService) UpdateAvailability(ctx context.Context, mentorID uuid.UUID, req *models.SetAvailabilityRequest) (*models.Availability, error) {
	args := m.Called(ctx, mentorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Availability), args.Error(1)
}

func (m *MockAvailabilityService) GetAvailability(ctx context.Context, mentorID uuid.UUID) (*models.Availability, error) {
	args := m.Called(ctx, mentorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Availability), args.Error(1)
}

// MockReviewService implements ReviewServiceInterface for testing
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) SubmitReview(ctx context.Context, menteeID uuid.UUID, req *models.SubmitReviewRequest) (*models.Review, error) {
	args := m.Called(ctx, menteeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) GetSessionReview(ctx context.Context, menteeID, sessionID uuid.UUID) (*models.Review, error) {
	args := m.Called(ctx, menteeID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) ListMentorReviews(ctx context.Context, mentorID uuid.UUID) ([]models.Review, error) {
	args := m.Called(ctx, mentorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}
