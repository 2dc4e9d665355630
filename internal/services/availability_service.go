package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mentorify/mentorify-api/internal/models"
	"github.com/mentorify/mentorify-api/internal/repository"
	"github.com/mentorify/mentorify-api/pkg/logger"
	"github.com/mentorify/mentorify-api/pkg/metrics"
)

var (
	ErrInvalidSchedule      = errors.New("invalid schedule")
	ErrAvailabilityNotFound = errors.New("availability not found")
)

// AvailabilityService manages mentors' weekly recurring schedules
type AvailabilityService struct {
	availRepo *repository.AvailabilityRepository
}

// NewAvailabilityService creates a new availability service instance
func NewAvailabilityService(availRepo *repository.AvailabilityRepository) *AvailabilityService {
	return &AvailabilityService{availRepo: availRepo}
}

// SetAvailability replaces the mentor's schedule. All slots start free.
func (s *AvailabilityService) SetAvailability(ctx context.Context, mentorID uuid.UUID, req *models.SetAvailabilityRequest) (*models.Availability, error) {
	return s.write(ctx, mentorID, req, false)
}

// UpdateAvailability replaces the mentor's schedule but keeps the booked flag
// for every slot whose (day, start, end) identity survives the update.
func (s *AvailabilityService) UpdateAvailability(ctx context.Context, mentorID uuid.UUID, req *models.SetAvailabilityRequest) (*models.Availability, error) {
	return s.write(ctx, mentorID, req, true)
}

func (s *AvailabilityService) write(ctx context.Context, mentorID uuid.UUID, req *models.SetAvailabilityRequest, preserveBooked bool) (*models.Availability, error) {
	days, slotsPerDay, err := models.NormalizeSchedule(req.AvailableDays, req.SlotsPerDay)
	if err != nil {
		metrics.AvailabilityUpdates.WithLabelValues("invalid").Inc()
		logger.Warn("Rejected schedule payload",
			zap.String("mentor_id", mentorID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}

	avail, err := s.availRepo.Replace(ctx, mentorID, days, slotsPerDay, preserveBooked)
	if err != nil {
		metrics.AvailabilityUpdates.WithLabelValues("error").Inc()
		logger.Error("Failed to store schedule",
			zap.String("mentor_id", mentorID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to store schedule: %w", err)
	}

	metrics.AvailabilityUpdates.WithLabelValues("success").Inc()
	logger.Info("Schedule stored",
		zap.String("mentor_id", mentorID.String()),
		zap.Int("days", len(days)),
		zap.Bool("preserve_booked", preserveBooked))

	return avail, nil
}

// GetAvailability returns the mentor's current schedule
func (s *AvailabilityService) GetAvailability(ctx context.Context, mentorID uuid.UUID) (*models.Availability, error) {
	avail, err := s.availRepo.GetByMentor(ctx, mentorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAvailabilityNotFound
		}
		logger.Error("Failed to load schedule",
			zap.String("mentor_id", mentorID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	return avail, nil
}
