package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SessionStatus represents the lifecycle state of a mentoring session
type SessionStatus string

const (
	SessionPending   SessionStatus = "pending"
	SessionConfirmed SessionStatus = "confirmed"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// ActiveSessionStatuses are statuses that still hold a slot
var ActiveSessionStatuses = []SessionStatus{SessionPending, SessionConfirmed}

// IsTerminal returns true if the status is terminal (no further transitions allowed)
func (s SessionStatus) IsTerminal() bool {
	return s == SessionCompleted || s == SessionCancelled
}

// CanTransitionTo checks if a status transition is valid
func (s SessionStatus) CanTransitionTo(newStatus SessionStatus) bool {
	if s.IsTerminal() {
		return false
	}

	switch s {
	case SessionPending:
		return newStatus == SessionConfirmed || newStatus == SessionCancelled
	case SessionConfirmed:
		return newStatus == SessionCompleted || newStatus == SessionCancelled
	default:
		return false
	}
}

// Session represents a booked mentoring session. Mentee and mentor display
// fields are denormalized so list endpoints need no extra lookups.
type Session struct {
	SessionID      uuid.UUID     `json:"sessionId"`
	MentorID       uuid.UUID     `json:"mentorId"`
	MenteeID       uuid.UUID     `json:"menteeId"`
	SlotID         uuid.UUID     `json:"-"`
	MenteeName     string        `json:"menteeName"`
	MenteeEmail    string        `json:"menteeEmail"`
	MentorName     string        `json:"mentorName"`
	MentorPosition string        `json:"mentorPosition"`
	Day            string        `json:"day"`
	Date           time.Time     `json:"date"`
	TimeSlot       string        `json:"timeSlot"`
	Status         SessionStatus `json:"status"`
	Message        string        `json:"message"`
	MeetingLink    *string       `json:"meetingLink"`
	CreatedAt      time.Time     `json:"createdAt"`
	ModifiedAt     time.Time     `json:"modifiedAt"`
}

// BookSessionRequest is the mentee booking payload
type BookSessionRequest struct {
	MentorID string `json:"mentorId" binding:"required,uuid"`
	Day      string `json:"day" binding:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	Date     string `json:"date" binding:"required"` // YYYY-MM-DD
	TimeSlot string `json:"timeSlot" binding:"required"`
	Message  string `json:"message" binding:"required,min=1,max=2000"`
}

// BookSessionResponse is returned after a booking attempt
type BookSessionResponse struct {
	Success bool     `json:"success"`
	Session *Session `json:"session,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// SessionActionRequest identifies a session for accept/complete actions
type SessionActionRequest struct {
	SessionID string `json:"sessionId" binding:"required,uuid"`
}

// AddMeetingLinkRequest attaches a video call link to a confirmed session
type AddMeetingLinkRequest struct {
	SessionID   string `json:"sessionId" binding:"required,uuid"`
	MeetingLink string `json:"meetingLink" binding:"required,url"`
}

// SessionsResponse is the response for session list endpoints
type SessionsResponse struct {
	Sessions []*Session `json:"sessions"`
	Total    int        `json:"total"`
}

// PendingRequestsResponse is the mentor's incoming-requests payload
type PendingRequestsResponse struct {
	Requests []*Session `json:"requests"`
	Total    int        `json:"total"`
}

// MeetingLinkResponse is the mentee-facing meeting link payload
type MeetingLinkResponse struct {
	Success bool `json:"success"`
	Data    struct {
		MeetingLink string `json:"meetingLink"`
	} `json:"data"`
}

// ScanSession scans a single PostgreSQL row into a Session struct.
// Expected columns: id, mentor_id, mentee_id, slot_id, day, session_date,
// time_slot, status, message, meeting_link, created_at, updated_at,
// mentee_name, mentee_email, mentor_name, mentor_position (from JOIN users).
func ScanSession(row pgx.Row) (*Session, error) {
	var s Session
	var meetingLink *string
	var mentorPosition *string

	err := row.Scan(
		&s.SessionID,
		&s.MentorID,
		&s.MenteeID,
		&s.SlotID,
		&s.Day,
		&s.Date,
		&s.TimeSlot,
		&s.Status,
		&s.Message,
		&meetingLink,
		&s.CreatedAt,
		&s.ModifiedAt,
		&s.MenteeName,
		&s.MenteeEmail,
		&s.MentorName,
		&mentorPosition,
	)
	if err != nil {
		return nil, err
	}

	s.MeetingLink = meetingLink
	if mentorPosition != nil {
		s.MentorPosition = *mentorPosition
	}

	return &s, nil
}

// ScanSessions scans multiple PostgreSQL rows into a slice of Session structs
func ScanSessions(rows pgx.Rows) ([]*Session, error) {
	defer rows.Close()

	sessions := []*Session{}
	for rows.Next() {
		session, err := ScanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}
