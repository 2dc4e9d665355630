package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mentorify/mentorify-api/config"
	"github.com/mentorify/mentorify-api/internal/lock"
	"github.com/mentorify/mentorify-api/internal/models"
	"github.com/mentorify/mentorify-api/internal/repository"
	"github.com/mentorify/mentorify-api/internal/schedule"
	apperrors "github.com/mentorify/mentorify-api/pkg/errors"
	"github.com/mentorify/mentorify-api/pkg/httpclient"
	"github.com/mentorify/mentorify-api/pkg/logger"
	"github.com/mentorify/mentorify-api/pkg/metrics"
	"github.com/mentorify/mentorify-api/pkg/trigger"
)

var (
	ErrSlotUnavailable   = errors.New("slot is unavailable")
	ErrInvalidDate       = errors.New("invalid session date")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidLink       = errors.New("invalid meeting link")
	ErrSessionNotFound   = errors.New("session not found")
	ErrNoMeetingLink     = errors.New("no meeting link attached")
)

const (
	dateLayout        = "2006-01-02"
	meetingLinkHost   = "meet.google.com"
	timeSlotSeparator = " - "
)

// BookingService owns the session lifecycle: proposing a booking for an open
// slot, the mentor's accept/complete decisions, cancellation by either side,
// and the meeting link of confirmed sessions.
type BookingService struct {
	sessionRepo *repository.SessionRepository
	availRepo   *repository.AvailabilityRepository
	projector   *schedule.Projector
	locker      lock.Locker
	config      *config.Config
	httpClient  httpclient.Client
}

// NewBookingService creates a new booking service instance
func NewBookingService(
	sessionRepo *repository.SessionRepository,
	availRepo *repository.AvailabilityRepository,
	projector *schedule.Projector,
	locker lock.Locker,
	cfg *config.Config,
	httpClient httpclient.Client,
) *BookingService {
	return &BookingService{
		sessionRepo: sessionRepo,
		availRepo:   availRepo,
		projector:   projector,
		locker:      locker,
		config:      cfg,
		httpClient:  httpClient,
	}
}

// ProposeBooking books a slot for a mentee and creates a pending session.
// The date must be a real calendar date inside the booking horizon that falls
// on the requested weekday, and the slot must exist and be free.
func (s *BookingService) ProposeBooking(ctx context.Context, menteeID uuid.UUID, req *models.BookSessionRequest) (*models.Session, error) {
	mentorID, err := uuid.Parse(req.MentorID)
	if err != nil {
		metrics.BookingAttempts.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: bad mentor id", ErrSlotUnavailable)
	}

	date, err := s.validateDate(req.Date, req.Day)
	if err != nil {
		metrics.BookingAttempts.WithLabelValues("invalid_date").Inc()
		return nil, err
	}

	startTime, endTime, err := splitTimeSlot(req.TimeSlot)
	if err != nil {
		metrics.BookingAttempts.WithLabelValues("slot_unavailable").Inc()
		return nil, err
	}

	avail, err := s.availRepo.GetByMentor(ctx, mentorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.BookingAttempts.WithLabelValues("slot_unavailable").Inc()
			return nil, ErrSlotUnavailable
		}
		metrics.BookingAttempts.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to load availability: %w", err)
	}

	slot := avail.FindSlot(req.Day, startTime, endTime)
	if slot == nil || slot.IsBooked {
		metrics.BookingAttempts.WithLabelValues("slot_unavailable").Inc()
		return nil, ErrSlotUnavailable
	}

	// The lock narrows the race window; the conditional UPDATE inside
	// CreateBooking is still the point of truth.
	lockKey := fmt.Sprintf("slot:%s:%s:%s:%s", mentorID, req.Day, startTime, endTime)
	lockTTL := time.Duration(s.config.Booking.SlotLockTTLSeconds) * time.Second
	acquired, err := s.locker.Lock(ctx, lockKey, lockTTL)
	if err != nil {
		metrics.BookingAttempts.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to lock slot: %w", err)
	}
	if !acquired {
		metrics.BookingAttempts.WithLabelValues("slot_unavailable").Inc()
		return nil, ErrSlotUnavailable
	}
	defer func() {
		if unlockErr := s.locker.Unlock(ctx, lockKey); unlockErr != nil {
			logger.Warn("Failed to release slot lock",
				zap.String("key", lockKey),
				zap.Error(unlockErr))
		}
	}()

	session, err := s.sessionRepo.CreateBooking(ctx, menteeID, mentorID, req, startTime, endTime, date)
	if err != nil {
		if errors.Is(err, repository.ErrSlotTaken) || errors.Is(err, repository.ErrNotFound) {
			metrics.BookingAttempts.WithLabelValues("slot_unavailable").Inc()
			return nil, ErrSlotUnavailable
		}
		metrics.BookingAttempts.WithLabelValues("error").Inc()
		logger.Error("Failed to create booking",
			zap.String("mentor_id", mentorID.String()),
			zap.String("mentee_id", menteeID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	metrics.BookingAttempts.WithLabelValues("success").Inc()
	logger.Info("Session booked",
		zap.String("session_id", session.SessionID.String()),
		zap.String("mentor_id", mentorID.String()),
		zap.String("mentee_id", menteeID.String()),
		zap.String("day", req.Day),
		zap.String("time_slot", req.TimeSlot))

	trigger.CallAsync(s.config.EventTriggers.SessionBookedTriggerURL, "session_booked", session, s.httpClient)

	return session, nil
}

// validateDate checks the date format, weekday match and booking horizon
func (s *BookingService) validateDate(dateStr, day string) (time.Time, error) {
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a valid date", ErrInvalidDate, dateStr)
	}

	if date.Weekday().String() != day {
		return time.Time{}, fmt.Errorf("%w: %s falls on a %s, not a %s",
			ErrInvalidDate, dateStr, date.Weekday(), day)
	}

	if !s.projector.InHorizon(date, s.config.Booking.HorizonDays) {
		return time.Time{}, fmt.Errorf("%w: %s is outside the booking window", ErrInvalidDate, dateStr)
	}

	return date, nil
}

func splitTimeSlot(timeSlot string) (string, string, error) {
	parts := strings.Split(timeSlot, timeSlotSeparator)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: malformed time slot %q", ErrSlotUnavailable, timeSlot)
	}
	start := strings.TrimSpace(parts[0])
	end := strings.TrimSpace(parts[1])
	if _, err := models.ParseSlotTime(start); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrSlotUnavailable, err)
	}
	if _, err := models.ParseSlotTime(end); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrSlotUnavailable, err)
	}
	return start, end, nil
}

// AcceptSession confirms a pending session. Only the session's mentor may accept.
func (s *BookingService) AcceptSession(ctx context.Context, mentorID, sessionID uuid.UUID) (*models.Session, error) {
	session, err := s.sessionRepo.Accept(ctx, sessionID, mentorID)
	if err != nil {
		return nil, s.mapTransitionError(err, sessionID, models.SessionConfirmed)
	}

	metrics.SessionTransitions.WithLabelValues(string(models.SessionConfirmed), "success").Inc()
	logger.Info("Session accepted",
		zap.String("session_id", sessionID.String()),
		zap.String("mentor_id", mentorID.String()))

	trigger.CallAsync(s.config.EventTriggers.SessionAcceptedTriggerURL, "session_accepted", session, s.httpClient)

	return session, nil
}

// CompleteSession marks a confirmed session as completed. Mentor only.
func (s *BookingService) CompleteSession(ctx context.Context, mentorID, sessionID uuid.UUID) (*models.Session, error) {
	session, err := s.sessionRepo.Complete(ctx, sessionID, mentorID)
	if err != nil {
		return nil, s.mapTransitionError(err, sessionID, models.SessionCompleted)
	}

	metrics.SessionTransitions.WithLabelValues(string(models.SessionCompleted), "success").Inc()
	logger.Info("Session completed",
		zap.String("session_id", sessionID.String()),
		zap.String("mentor_id", mentorID.String()))

	trigger.CallAsync(s.config.EventTriggers.SessionUpdatedTriggerURL, "session_completed", session, s.httpClient)

	return session, nil
}

// CancelSession cancels a pending or confirmed session and frees its slot.
// Either participant may cancel.
func (s *BookingService) CancelSession(ctx context.Context, participantID, sessionID uuid.UUID) (*models.Session, error) {
	session, err := s.sessionRepo.Cancel(ctx, sessionID, participantID)
	if err != nil {
		return nil, s.mapTransitionError(err, sessionID, models.SessionCancelled)
	}

	metrics.SessionTransitions.WithLabelValues(string(models.SessionCancelled), "success").Inc()
	logger.Info("Session cancelled",
		zap.String("session_id", sessionID.String()),
		zap.String("participant_id", participantID.String()))

	trigger.CallAsync(s.config.EventTriggers.SessionUpdatedTriggerURL, "session_cancelled", session, s.httpClient)

	return session, nil
}

func (s *BookingService) mapTransitionError(err error, sessionID uuid.UUID, toStatus models.SessionStatus) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		metrics.SessionTransitions.WithLabelValues(string(toStatus), "not_found").Inc()
		return ErrSessionNotFound
	case errors.Is(err, repository.ErrStatusConflict):
		metrics.SessionTransitions.WithLabelValues(string(toStatus), "invalid_transition").Inc()
		return ErrInvalidTransition
	default:
		metrics.SessionTransitions.WithLabelValues(string(toStatus), "error").Inc()
		logger.Error("Session transition failed",
			zap.String("session_id", sessionID.String()),
			zap.String("to_status", string(toStatus)),
			zap.Error(err))
		return fmt.Errorf("failed to update session: %w", err)
	}
}

// validMeetingLink reports whether the link parses as an https URL whose
// host is exactly meet.google.com. Parsing pins the host itself, so
// lookalike domains such as meet.google.com.evil.com do not pass.
func validMeetingLink(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return u.Scheme == "https" && u.Host == meetingLinkHost
}

// AttachMeetingLink stores a Google Meet link on a confirmed session.
// Mentor only; the link host is pinned to meet.google.com.
func (s *BookingService) AttachMeetingLink(ctx context.Context, mentorID, sessionID uuid.UUID, link string) (*models.Session, error) {
	if !validMeetingLink(link) {
		return nil, fmt.Errorf("%w: link must be an https URL on %s", ErrInvalidLink, meetingLinkHost)
	}

	session, err := s.sessionRepo.SetMeetingLink(ctx, sessionID, mentorID, link)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrSessionNotFound
		case errors.Is(err, repository.ErrStatusConflict):
			return nil, ErrInvalidTransition
		default:
			logger.Error("Failed to attach meeting link",
				zap.String("session_id", sessionID.String()),
				zap.Error(err))
			return nil, fmt.Errorf("failed to attach meeting link: %w", err)
		}
	}

	logger.Info("Meeting link attached",
		zap.String("session_id", sessionID.String()),
		zap.String("mentor_id", mentorID.String()))

	trigger.CallAsync(s.config.EventTriggers.SessionUpdatedTriggerURL, "meeting_link_added", session, s.httpClient)

	return session, nil
}

// GetMeetingLink returns the meeting link of a session the user participates in
func (s *BookingService) GetMeetingLink(ctx context.Context, userID, sessionID uuid.UUID) (string, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrSessionNotFound
		}
		return "", fmt.Errorf("failed to fetch session: %w", err)
	}

	if session.MenteeID != userID && session.MentorID != userID {
		return "", apperrors.ErrAccessDenied
	}

	if session.MeetingLink == nil || *session.MeetingLink == "" {
		return "", ErrNoMeetingLink
	}

	return *session.MeetingLink, nil
}

// GetSession returns a session the user participates in
func (s *BookingService) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*models.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}

	if session.MenteeID != userID && session.MentorID != userID {
		return nil, apperrors.ErrAccessDenied
	}

	return session, nil
}

// ListMenteeSessions returns the mentee's sessions for a named bucket.
// "upcoming" covers both pending and confirmed sessions.
func (s *BookingService) ListMenteeSessions(ctx context.Context, menteeID uuid.UUID, bucket string) ([]*models.Session, error) {
	statuses, err := menteeBucketStatuses(bucket)
	if err != nil {
		return nil, err
	}

	sessions, err := s.sessionRepo.ListByMentee(ctx, menteeID, statuses)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// ListMentorSessions returns the mentor's sessions for a named bucket
func (s *BookingService) ListMentorSessions(ctx context.Context, mentorID uuid.UUID, bucket string) ([]*models.Session, error) {
	statuses, err := mentorBucketStatuses(bucket)
	if err != nil {
		return nil, err
	}

	sessions, err := s.sessionRepo.ListByMentor(ctx, mentorID, statuses)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

func menteeBucketStatuses(bucket string) ([]models.SessionStatus, error) {
	switch bucket {
	case "upcoming":
		return models.ActiveSessionStatuses, nil
	case "pending":
		return []models.SessionStatus{models.SessionPending}, nil
	case "completed":
		return []models.SessionStatus{models.SessionCompleted}, nil
	case "cancelled":
		return []models.SessionStatus{models.SessionCancelled}, nil
	default:
		return nil, fmt.Errorf("unknown session bucket %q", bucket)
	}
}

func mentorBucketStatuses(bucket string) ([]models.SessionStatus, error) {
	switch bucket {
	case "pending":
		return []models.SessionStatus{models.SessionPending}, nil
	case "upcoming":
		return []models.SessionStatus{models.SessionConfirmed}, nil
	case "completed":
		return []models.SessionStatus{models.SessionCompleted}, nil
	case "cancelled":
		return []models.SessionStatus{models.SessionCancelled}, nil
	default:
		return nil, fmt.Errorf("unknown session bucket %q", bucket)
	}
}
