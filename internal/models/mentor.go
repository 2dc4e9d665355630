package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MentorRating aggregates review scores for the directory listing
type MentorRating struct {
	Average      float64 `json:"average"`
	TotalReviews int     `json:"totalReviews"`
}

// Mentor is the public directory entry shown to mentees
type Mentor struct {
	ID              uuid.UUID    `json:"id"`
	Name            string       `json:"name"`
	Email           string       `json:"email"`
	CurrentPosition string       `json:"currentPosition"`
	Experience      string       `json:"experience"`
	AvatarURL       string       `json:"avatarUrl,omitempty"`
	Rating          MentorRating `json:"rating"`
	CreatedAt       time.Time    `json:"createdAt"`
}

// MentorDataResponse is the public directory payload
type MentorDataResponse struct {
	Mentors []*Mentor `json:"mentors"`
	Total   int       `json:"total"`
}

// UpdateProfileRequest is the mentor profile edit payload
type UpdateProfileRequest struct {
	Name            string `json:"name" binding:"required,min=2,max=100"`
	Experience      string `json:"experience" binding:"required,max=50"`
	CurrentPosition string `json:"currentPosition" binding:"required,max=200"`
}

// MentorImageURLRequest asks for a mentor's current profile picture URL
type MentorImageURLRequest struct {
	MentorID string `json:"mentorId" binding:"required,uuid"`
}

// UploadPictureResponse is returned after a profile picture upload
type UploadPictureResponse struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ScanMentor scans a single PostgreSQL row into a Mentor struct.
// Expected columns: id, name, email, current_position, experience,
// avatar_url, created_at, avg_rating, total_reviews (from LEFT JOIN reviews).
func ScanMentor(row pgx.Row) (*Mentor, error) {
	var m Mentor
	var position, experience, avatarURL *string
	var avgRating *float64

	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Email,
		&position,
		&experience,
		&avatarURL,
		&m.CreatedAt,
		&avgRating,
		&m.Rating.TotalReviews,
	)
	if err != nil {
		return nil, err
	}

	if position != nil {
		m.CurrentPosition = *position
	}
	if experience != nil {
		m.Experience = *experience
	}
	if avatarURL != nil {
		m.AvatarURL = *avatarURL
	}
	if avgRating != nil {
		m.Rating.Average = *avgRating
	}

	return &m, nil
}

// ScanMentors scans multiple PostgreSQL rows into a slice of Mentor structs
func ScanMentors(rows pgx.Rows) ([]*Mentor, error) {
	defer rows.Close()

	mentors := []*Mentor{}
	for rows.Next() {
		mentor, err := ScanMentor(rows)
		if err != nil {
			return nil, err
		}
		mentors = append(mentors, mentor)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return mentors, nil
}
