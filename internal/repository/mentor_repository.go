package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mentorify/mentorify-api/internal/models"
)

// mentorColumns selects the directory shape with review aggregates
const mentorColumns = `
	u.id, u.name, u.email, u.current_position, u.experience, u.avatar_url, u.created_at,
	AVG(r.rating)::float8 AS avg_rating,
	COUNT(r.id)::int AS total_reviews
`

// MentorRepository handles mentor directory and profile data access
type MentorRepository struct {
	pool *pgxpool.Pool
}

// NewMentorRepository creates a new mentor repository
func NewMentorRepository(pool *pgxpool.Pool) *MentorRepository {
	return &MentorRepository{pool: pool}
}

// FetchAllMentorsFromDB loads every mentor with rating aggregates.
// Used as the mentor cache fetcher.
func (r *MentorRepository) FetchAllMentorsFromDB(ctx context.Context) ([]*models.Mentor, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users u
		LEFT JOIN reviews r ON r.mentor_id = u.id
		WHERE u.role = 'mentor'
		GROUP BY u.id
		ORDER BY u.created_at
	`, mentorColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query mentors: %w", err)
	}

	return models.ScanMentors(rows)
}

// FetchMentorFromDB loads a single mentor with rating aggregates.
// Returns ErrNotFound if the ID is unknown or not a mentor account.
func (r *MentorRepository) FetchMentorFromDB(ctx context.Context, id uuid.UUID) (*models.Mentor, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users u
		LEFT JOIN reviews r ON r.mentor_id = u.id
		WHERE u.role = 'mentor' AND u.id = $1
		GROUP BY u.id
	`, mentorColumns)

	mentor, err := models.ScanMentor(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query mentor: %w", err)
	}

	return mentor, nil
}

// UpdateProfile updates a mentor's editable profile fields
func (r *MentorRepository) UpdateProfile(ctx context.Context, id uuid.UUID, req *models.UpdateProfileRequest) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET name = $2, experience = $3, current_position = $4, updated_at = now()
		WHERE id = $1 AND role = 'mentor'
	`, id, req.Name, req.Experience, req.CurrentPosition)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateAvatar stores the uploaded profile picture URL
func (r *MentorRepository) UpdateAvatar(ctx context.Context, id uuid.UUID, imageURL string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET avatar_url = $2, updated_at = now()
		WHERE id = $1 AND role = 'mentor'
	`, id, imageURL)
	if err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetAvatarURL returns the mentor's current profile picture URL ("" if unset)
func (r *MentorRepository) GetAvatarURL(ctx context.Context, id uuid.UUID) (string, error) {
	var avatarURL *string
	err := r.pool.QueryRow(ctx,
		`SELECT avatar_url FROM users WHERE id = $1 AND role = 'mentor'`, id).Scan(&avatarURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to fetch avatar url: %w", err)
	}
	if avatarURL == nil {
		return "", nil
	}
	return *avatarURL, nil
}
