package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mentorify/mentorify-api/internal/models"
)

const sessionColumns = `
	s.id, s.mentor_id, s.mentee_id, s.slot_id, s.day, s.session_date, s.time_slot,
	s.status, s.message, s.meeting_link, s.created_at, s.updated_at,
	mentee.name AS mentee_name, mentee.email AS mentee_email,
	mentor.name AS mentor_name, mentor.current_position AS mentor_position
`

const sessionJoins = `
	FROM sessions s
	JOIN users mentee ON mentee.id = s.mentee_id
	JOIN users mentor ON mentor.id = s.mentor_id
`

// SessionRepository handles booking sessions and their lifecycle.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// CreateBooking books the slot and records the pending session in one
// transaction. The conditional slot update is the single point of truth:
// a slot already booked by anyone else fails with ErrSlotTaken.
func (r *SessionRepository) CreateBooking(ctx context.Context, menteeID, mentorID uuid.UUID, req *models.BookSessionRequest, startTime, endTime string, date time.Time) (*models.Session, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	var slotID uuid.UUID
	err = tx.QueryRow(ctx, `
		UPDATE availability_slots
		SET is_booked = TRUE, updated_at = NOW()
		WHERE mentor_id = $1 AND day = $2 AND start_time = $3 AND end_time = $4
		  AND is_booked = FALSE
		RETURNING id
	`, mentorID, req.Day, startTime, endTime).Scan(&slotID)
	if err != nil {
		if err == pgx.ErrNoRows {
			// Either no such slot or it is already taken. Distinguish so the
			// caller can report a stale schedule versus a lost race.
			var exists bool
			if qErr := tx.QueryRow(ctx, `
				SELECT EXISTS (
					SELECT 1 FROM availability_slots
					WHERE mentor_id = $1 AND day = $2 AND start_time = $3 AND end_time = $4
				)
			`, mentorID, req.Day, startTime, endTime).Scan(&exists); qErr != nil {
				return nil, fmt.Errorf("failed to probe slot: %w", qErr)
			}
			if exists {
				return nil, ErrSlotTaken
			}
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to book slot: %w", err)
	}

	var sessionID uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO sessions (mentor_id, mentee_id, slot_id, day, session_date, time_slot, status, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, mentorID, menteeID, slotID, req.Day, date, req.TimeSlot, models.SessionPending, req.Message).Scan(&sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	row := tx.QueryRow(ctx, `SELECT `+sessionColumns+sessionJoins+` WHERE s.id = $1`, sessionID)
	session, err := models.ScanSession(row)
	if err != nil {
		return nil, fmt.Errorf("failed to read created session: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit booking: %w", err)
	}

	return session, nil
}

// GetByID fetches one session with participant details
func (r *SessionRepository) GetByID(ctx context.Context, sessionID uuid.UUID) (*models.Session, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+sessionColumns+sessionJoins+` WHERE s.id = $1`, sessionID)
	session, err := models.ScanSession(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}
	return session, nil
}

// ListByMentee returns the mentee's sessions in the given statuses, newest first
func (r *SessionRepository) ListByMentee(ctx context.Context, menteeID uuid.UUID, statuses []models.SessionStatus) ([]*models.Session, error) {
	return r.list(ctx, `s.mentee_id = $1`, menteeID, statuses)
}

// ListByMentor returns the mentor's sessions in the given statuses, newest first
func (r *SessionRepository) ListByMentor(ctx context.Context, mentorID uuid.UUID, statuses []models.SessionStatus) ([]*models.Session, error) {
	return r.list(ctx, `s.mentor_id = $1`, mentorID, statuses)
}

func (r *SessionRepository) list(ctx context.Context, owner string, id uuid.UUID, statuses []models.SessionStatus) ([]*models.Session, error) {
	query := `SELECT ` + sessionColumns + sessionJoins + `
		WHERE ` + owner + ` AND s.status = ANY($2)
		ORDER BY s.created_at DESC`

	rows, err := r.pool.Query(ctx, query, id, statuses)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	sessions, err := models.ScanSessions(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan sessions: %w", err)
	}
	return sessions, nil
}

// Accept moves a pending session to confirmed.
// Returns ErrStatusConflict when the session is not pending anymore.
func (r *SessionRepository) Accept(ctx context.Context, sessionID, mentorID uuid.UUID) (*models.Session, error) {
	return r.transition(ctx, sessionID, `
		UPDATE sessions SET status = $3, updated_at = NOW()
		WHERE id = $1 AND mentor_id = $2 AND status = $4
		RETURNING slot_id
	`, []any{sessionID, mentorID, models.SessionConfirmed, models.SessionPending}, nil)
}

// Complete moves a confirmed session to completed.
func (r *SessionRepository) Complete(ctx context.Context, sessionID, mentorID uuid.UUID) (*models.Session, error) {
	return r.transition(ctx, sessionID, `
		UPDATE sessions SET status = $3, updated_at = NOW()
		WHERE id = $1 AND mentor_id = $2 AND status = $4
		RETURNING slot_id
	`, []any{sessionID, mentorID, models.SessionCompleted, models.SessionConfirmed}, nil)
}

// Cancel moves a non-terminal session to cancelled and frees its slot,
// unless another live session still holds the same slot.
func (r *SessionRepository) Cancel(ctx context.Context, sessionID, participantID uuid.UUID) (*models.Session, error) {
	freeSlot := func(tx pgx.Tx, slotID uuid.UUID) error {
		_, err := tx.Exec(ctx, `
			UPDATE availability_slots
			SET is_booked = FALSE, updated_at = NOW()
			WHERE id = $1 AND NOT EXISTS (
				SELECT 1 FROM sessions
				WHERE slot_id = $1 AND status = ANY($2)
			)
		`, slotID, models.ActiveSessionStatuses)
		return err
	}
	return r.transition(ctx, sessionID, `
		UPDATE sessions SET status = $3, updated_at = NOW()
		WHERE id = $1 AND (mentor_id = $2 OR mentee_id = $2) AND status = ANY($4)
		RETURNING slot_id
	`, []any{sessionID, participantID, models.SessionCancelled, models.ActiveSessionStatuses}, freeSlot)
}

func (r *SessionRepository) transition(ctx context.Context, sessionID uuid.UUID, query string, args []any, after func(pgx.Tx, uuid.UUID) error) (*models.Session, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	var slotID uuid.UUID
	if err = tx.QueryRow(ctx, query, args...).Scan(&slotID); err != nil {
		if err == pgx.ErrNoRows {
			// Tell a missing session apart from one in the wrong state.
			var exists bool
			if qErr := tx.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM sessions WHERE id = $1)`, sessionID).Scan(&exists); qErr != nil {
				return nil, fmt.Errorf("failed to probe session: %w", qErr)
			}
			if exists {
				return nil, ErrStatusConflict
			}
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update session status: %w", err)
	}

	if after != nil {
		if err = after(tx, slotID); err != nil {
			return nil, fmt.Errorf("failed to update slot: %w", err)
		}
	}

	row := tx.QueryRow(ctx, `SELECT `+sessionColumns+sessionJoins+` WHERE s.id = $1`, sessionID)
	session, err := models.ScanSession(row)
	if err != nil {
		return nil, fmt.Errorf("failed to read updated session: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transition: %w", err)
	}

	return session, nil
}

// SetMeetingLink attaches a meeting link to a confirmed session.
// Returns ErrStatusConflict when the session is not confirmed.
func (r *SessionRepository) SetMeetingLink(ctx context.Context, sessionID, mentorID uuid.UUID, link string) (*models.Session, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE sessions SET meeting_link = $3, updated_at = NOW()
		WHERE id = $1 AND mentor_id = $2 AND status = $4
	`, sessionID, mentorID, link, models.SessionConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to set meeting link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if qErr := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM sessions WHERE id = $1 AND mentor_id = $2)`,
			sessionID, mentorID).Scan(&exists); qErr != nil {
			return nil, fmt.Errorf("failed to probe session: %w", qErr)
		}
		if exists {
			return nil, ErrStatusConflict
		}
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, sessionID)
}
