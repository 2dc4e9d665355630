package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a mentee's rating of a completed session.
// At most one review may exist per (menteeId, sessionId) pair.
type Review struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"sessionId"`
	MentorID  uuid.UUID `json:"mentorId"`
	MenteeID  uuid.UUID `json:"menteeId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`

	// MenteeName is joined in for mentor-facing listings.
	MenteeName string `json:"menteeName,omitempty"`
}

// SubmitReviewRequest is a review form submission from a mentee
type SubmitReviewRequest struct {
	SessionID string `json:"sessionId" binding:"required,uuid"`
	MentorID  string `json:"mentorId" binding:"required,uuid"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment" binding:"required,min=1,max=5000"`
}

// SubmitReviewResponse is returned after submitting a review
type SubmitReviewResponse struct {
	Success  bool   `json:"success"`
	ReviewID string `json:"reviewId,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ReviewsResponse is the per-session review lookup payload
type ReviewsResponse struct {
	Data struct {
		Reviews []Review `json:"reviews"`
	} `json:"data"`
}
