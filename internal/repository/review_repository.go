package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mentorify/mentorify-api/internal/models"
)

// ReviewRepository handles mentee reviews of completed sessions.
type ReviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Create stores a review. The unique (mentee_id, session_id) constraint
// surfaces as ErrDuplicate.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO reviews (session_id, mentor_id, mentee_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, review.SessionID, review.MentorID, review.MenteeID, review.Rating, review.Comment).
		Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return review, nil
}

// GetByMenteeAndSession returns the mentee's review for a session, if any
func (r *ReviewRepository) GetByMenteeAndSession(ctx context.Context, menteeID, sessionID uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.pool.QueryRow(ctx, `
		SELECT id, session_id, mentor_id, mentee_id, rating, comment, created_at
		FROM reviews
		WHERE mentee_id = $1 AND session_id = $2
	`, menteeID, sessionID).Scan(&review.ID, &review.SessionID, &review.MentorID,
		&review.MenteeID, &review.Rating, &review.Comment, &review.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch review: %w", err)
	}
	return &review, nil
}

// ListByMentor returns all reviews left for a mentor, newest first
func (r *ReviewRepository) ListByMentor(ctx context.Context, mentorID uuid.UUID) ([]models.Review, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.id, r.session_id, r.mentor_id, r.mentee_id, r.rating, r.comment, r.created_at,
		       mentee.name AS mentee_name
		FROM reviews r
		JOIN users mentee ON mentee.id = r.mentee_id
		WHERE r.mentor_id = $1
		ORDER BY r.created_at DESC
	`, mentorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var review models.Review
		if err := rows.Scan(&review.ID, &review.SessionID, &review.MentorID, &review.MenteeID,
			&review.Rating, &review.Comment, &review.CreatedAt, &review.MenteeName); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read review rows: %w", err)
	}
	return reviews, nil
}
