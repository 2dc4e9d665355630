package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mentorify/mentorify-api/config"
	"github.com/mentorify/mentorify-api/internal/models"
	"github.com/mentorify/mentorify-api/internal/repository"
	"github.com/mentorify/mentorify-api/pkg/httpclient"
	"github.com/mentorify/mentorify-api/pkg/logger"
	"github.com/mentorify/mentorify-api/pkg/metrics"
	"github.com/mentorify/mentorify-api/pkg/trigger"
)

var (
	ErrReviewSessionNotDone = errors.New("session is not completed")
	ErrReviewAlreadyExists  = errors.New("review already exists for this session")
	ErrReviewWrongSession   = errors.New("session does not belong to this mentee")
)

// ReviewService handles mentee reviews of completed sessions
type ReviewService struct {
	reviewRepo    *repository.ReviewRepository
	sessionRepo   *repository.SessionRepository
	mentorService *MentorService
	config        *config.Config
	httpClient    httpclient.Client
}

// NewReviewService creates a new review service instance
func NewReviewService(
	reviewRepo *repository.ReviewRepository,
	sessionRepo *repository.SessionRepository,
	mentorService *MentorService,
	cfg *config.Config,
	httpClient httpclient.Client,
) *ReviewService {
	return &ReviewService{
		reviewRepo:    reviewRepo,
		sessionRepo:   sessionRepo,
		mentorService: mentorService,
		config:        cfg,
		httpClient:    httpClient,
	}
}

// SubmitReview stores a mentee's review of a completed session.
// One review per (mentee, session); only completed sessions qualify.
func (s *ReviewService) SubmitReview(ctx context.Context, menteeID uuid.UUID, req *models.SubmitReviewRequest) (*models.Review, error) {
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	mentorID, err := uuid.Parse(req.MentorID)
	if err != nil {
		return nil, ErrMentorNotFound
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.ReviewSubmissions.WithLabelValues("not_found").Inc()
			return nil, ErrSessionNotFound
		}
		metrics.ReviewSubmissions.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if session.MenteeID != menteeID || session.MentorID != mentorID {
		metrics.ReviewSubmissions.WithLabelValues("wrong_session").Inc()
		return nil, ErrReviewWrongSession
	}

	if session.Status != models.SessionCompleted {
		metrics.ReviewSubmissions.WithLabelValues("not_completed").Inc()
		return nil, ErrReviewSessionNotDone
	}

	review, err := s.reviewRepo.Create(ctx, &models.Review{
		SessionID: sessionID,
		MentorID:  mentorID,
		MenteeID:  menteeID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			metrics.ReviewSubmissions.WithLabelValues("already_exists").Inc()
			return nil, ErrReviewAlreadyExists
		}
		metrics.ReviewSubmissions.WithLabelValues("db_error").Inc()
		logger.Error("Failed to create review",
			zap.String("session_id", sessionID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	metrics.ReviewSubmissions.WithLabelValues("success").Inc()
	logger.Info("Review submitted",
		zap.String("review_id", review.ID.String()),
		zap.String("session_id", sessionID.String()),
		zap.Int("rating", review.Rating))

	// The directory entry carries the rating aggregate, so refresh it.
	s.mentorService.RefreshMentor(ctx, mentorID)

	trigger.CallAsync(s.config.EventTriggers.ReviewCreatedTriggerURL, "review_created", review, s.httpClient)

	return review, nil
}

// GetSessionReview returns the mentee's review for one session, if present
func (s *ReviewService) GetSessionReview(ctx context.Context, menteeID, sessionID uuid.UUID) (*models.Review, error) {
	review, err := s.reviewRepo.GetByMenteeAndSession(ctx, menteeID, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load review: %w", err)
	}
	return review, nil
}

// ListMentorReviews returns all reviews left for a mentor
func (s *ReviewService) ListMentorReviews(ctx context.Context, mentorID uuid.UUID) ([]models.Review, error) {
	reviews, err := s.reviewRepo.ListByMentor(ctx, mentorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}
