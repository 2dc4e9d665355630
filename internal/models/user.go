package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole is the account type. Route guarding matches on this exhaustively;
// there is no third variant.
type UserRole string

const (
	RoleMentee UserRole = "mentee"
	RoleMentor UserRole = "mentor"
)

// Valid reports whether the role is one of the known variants.
func (r UserRole) Valid() bool {
	return r == RoleMentee || r == RoleMentor
}

// User is a platform account (mentee or mentor)
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	ModifiedAt   time.Time `json:"modifiedAt"`
}

// PublicUser is the user shape returned to clients after login
type PublicUser struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  UserRole  `json:"role"`
}

// Public strips credentials from a User
func (u *User) Public() *PublicUser {
	return &PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// SendOTPRequest is the payload for requesting a signup verification code
type SendOTPRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

// VerifyOTPRequest is the payload for verifying a signup code
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
	OTP   string `json:"otp" binding:"required,len=6,numeric"`
}

// SignupRequest is the payload for mentee and mentor signup.
// The email must have passed OTP verification first.
type SignupRequest struct {
	Name            string `json:"name" binding:"required,min=2,max=100"`
	Email           string `json:"email" binding:"required,email,max=255"`
	Password        string `json:"password" binding:"required,min=8,max=72"`
	CurrentPosition string `json:"currentPosition" binding:"max=200"`
	Experience      string `json:"experience" binding:"max=50"`
}

// LoginRequest is the payload for mentee and mentor login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=72"`
}

// AuthResponse is returned by signup/login endpoints
type AuthResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	User    *PublicUser `json:"user,omitempty"`
	Token   string      `json:"token,omitempty"`
}
