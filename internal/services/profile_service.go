package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mentorify/mentorify-api/internal/models"
	"github.com/mentorify/mentorify-api/internal/repository"
	"github.com/mentorify/mentorify-api/pkg/logger"
	"github.com/mentorify/mentorify-api/pkg/metrics"
	"github.com/mentorify/mentorify-api/pkg/retry"
	"github.com/mentorify/mentorify-api/pkg/storage"
)

var ErrInvalidImage = errors.New("invalid image")

// ProfileService handles mentor profile edits and picture uploads
type ProfileService struct {
	mentorRepo    *repository.MentorRepository
	storageClient *storage.Client
	mentorService *MentorService
}

// NewProfileService creates a new profile service instance
func NewProfileService(mentorRepo *repository.MentorRepository, storageClient *storage.Client, mentorService *MentorService) *ProfileService {
	return &ProfileService{
		mentorRepo:    mentorRepo,
		storageClient: storageClient,
		mentorService: mentorService,
	}
}

// UpdateProfile saves the mentor's editable profile fields
func (s *ProfileService) UpdateProfile(ctx context.Context, mentorID uuid.UUID, req *models.UpdateProfileRequest) (*models.Mentor, error) {
	if err := s.mentorRepo.UpdateProfile(ctx, mentorID, req); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.ProfileUpdates.WithLabelValues("not_found").Inc()
			return nil, ErrMentorNotFound
		}
		metrics.ProfileUpdates.WithLabelValues("error").Inc()
		logger.Error("Failed to update profile",
			zap.String("mentor_id", mentorID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	metrics.ProfileUpdates.WithLabelValues("success").Inc()
	logger.Info("Profile updated", zap.String("mentor_id", mentorID.String()))

	s.mentorService.RefreshMentor(ctx, mentorID)

	return s.mentorRepo.FetchMentorFromDB(ctx, mentorID)
}

// UploadPicture validates and stores a profile picture, then records its URL.
// The object key is content-addressed by mentor and upload time so stale CDN
// entries never shadow a new picture.
func (s *ProfileService) UploadPicture(ctx context.Context, mentorID uuid.UUID, data []byte, contentType string) (string, error) {
	if s.storageClient == nil {
		return "", errors.New("object storage is not configured")
	}

	if err := s.storageClient.ValidateImageType(contentType); err != nil {
		metrics.ProfilePictureUploads.WithLabelValues("invalid_type").Inc()
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if err := s.storageClient.ValidateImageSize(data); err != nil {
		metrics.ProfilePictureUploads.WithLabelValues("too_large").Inc()
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	key := fmt.Sprintf("avatars/%s/%d%s", mentorID, time.Now().Unix(), extensionFor(contentType))

	imageURL, err := retry.DoWithResult(ctx, retry.StorageConfig(), "upload_picture", func() (string, error) {
		return s.storageClient.UploadImage(ctx, data, key, contentType)
	})
	if err != nil {
		metrics.ProfilePictureUploads.WithLabelValues("storage_error").Inc()
		return "", fmt.Errorf("failed to upload picture: %w", err)
	}

	if err := s.mentorRepo.UpdateAvatar(ctx, mentorID, imageURL); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.ProfilePictureUploads.WithLabelValues("not_found").Inc()
			return "", ErrMentorNotFound
		}
		metrics.ProfilePictureUploads.WithLabelValues("db_error").Inc()
		return "", fmt.Errorf("failed to record avatar URL: %w", err)
	}

	metrics.ProfilePictureUploads.WithLabelValues("success").Inc()
	logger.Info("Profile picture uploaded",
		zap.String("mentor_id", mentorID.String()),
		zap.String("key", key))

	s.mentorService.RefreshMentor(ctx, mentorID)

	return imageURL, nil
}

// GetImageURL returns the mentor's current profile picture URL
func (s *ProfileService) GetImageURL(ctx context.Context, mentorID uuid.UUID) (string, error) {
	url, err := s.mentorRepo.GetAvatarURL(ctx, mentorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrMentorNotFound
		}
		return "", fmt.Errorf("failed to load avatar URL: %w", err)
	}
	return url, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
