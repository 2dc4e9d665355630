package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mentorify/mentorify-api/config"
	"github.com/mentorify/mentorify-api/internal/cache"
	"github.com/mentorify/mentorify-api/internal/models"
	"github.com/mentorify/mentorify-api/internal/repository"
	"github.com/mentorify/mentorify-api/pkg/logger"
)

var ErrMentorNotFound = errors.New("mentor not found")

// MentorService serves the public mentor directory.
// Reads come from the in-memory cache unless the cache is disabled.
type MentorService struct {
	mentorRepo *repository.MentorRepository
	cache      *cache.MentorCache
	config     *config.Config
}

// NewMentorService creates a new mentor service instance
func NewMentorService(mentorRepo *repository.MentorRepository, mentorCache *cache.MentorCache, cfg *config.Config) *MentorService {
	return &MentorService{
		mentorRepo: mentorRepo,
		cache:      mentorCache,
		config:     cfg,
	}
}

// GetAllMentors returns the mentor directory with review aggregates
func (s *MentorService) GetAllMentors(ctx context.Context) ([]*models.Mentor, error) {
	if s.config.Cache.DisableMentorsCache || s.cache == nil || !s.cache.IsReady() {
		mentors, err := s.mentorRepo.FetchAllMentorsFromDB(ctx)
		if err != nil {
			logger.Error("Failed to fetch mentors from database", zap.Error(err))
			return nil, fmt.Errorf("failed to fetch mentors: %w", err)
		}
		return mentors, nil
	}

	mentors, err := s.cache.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to read mentor cache: %w", err)
	}
	return mentors, nil
}

// GetMentorByID returns one mentor directory entry
func (s *MentorService) GetMentorByID(ctx context.Context, id uuid.UUID) (*models.Mentor, error) {
	if !s.config.Cache.DisableMentorsCache && s.cache != nil && s.cache.IsReady() {
		if mentor, err := s.cache.GetByID(id); err == nil {
			return mentor, nil
		}
		// Fall through to the database; a fresh signup may not be cached yet.
	}

	mentor, err := s.mentorRepo.FetchMentorFromDB(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMentorNotFound
		}
		logger.Error("Failed to fetch mentor from database",
			zap.String("mentor_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to fetch mentor: %w", err)
	}
	return mentor, nil
}

// RefreshMentor updates the cached directory entry after a profile change
func (s *MentorService) RefreshMentor(ctx context.Context, id uuid.UUID) {
	if s.cache == nil || !s.cache.IsReady() {
		return
	}
	if err := s.cache.UpdateSingleMentor(ctx, id); err != nil {
		logger.Warn("Failed to refresh mentor cache entry",
			zap.String("mentor_id", id.String()),
			zap.Error(err))
	}
}
