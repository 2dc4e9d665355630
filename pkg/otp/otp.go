package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrNotFound means no code is pending for the email, or it expired.
	ErrNotFound = errors.New("otp not found or expired")
	// ErrMismatch means the submitted code is wrong.
	ErrMismatch = errors.New("otp does not match")
	// ErrNotVerified means signup was attempted without passing verification.
	ErrNotVerified = errors.New("email not verified")
)

const (
	codeLength  = 6
	codePrefix  = "otp:code:"
	verifPrefix = "otp:verified:"
)

// Store issues and verifies email verification codes backed by Redis.
// Codes expire on their own; a successful verification leaves a short-lived
// verified flag that the signup flow consumes.
type Store struct {
	client      *redis.Client
	codeTTL     time.Duration
	verifiedTTL time.Duration
}

// NewStore creates an OTP store using an existing Redis client
func NewStore(client *redis.Client, codeTTL, verifiedTTL time.Duration) *Store {
	return &Store{client: client, codeTTL: codeTTL, verifiedTTL: verifiedTTL}
}

// Issue generates a fresh 6-digit code for the email and stores it with TTL.
// Issuing again replaces any pending code.
func (s *Store) Issue(ctx context.Context, email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}

	if err := s.client.Set(ctx, codePrefix+email, code, s.codeTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store otp: %w", err)
	}

	return code, nil
}

// Verify compares the submitted code against the pending one.
// On success the code is consumed and the email is marked verified.
func (s *Store) Verify(ctx context.Context, email, code string) error {
	stored, err := s.client.Get(ctx, codePrefix+email).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrNotFound
		}
		return fmt.Errorf("failed to read otp: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return ErrMismatch
	}

	if err := s.client.Del(ctx, codePrefix+email).Err(); err != nil {
		return fmt.Errorf("failed to consume otp: %w", err)
	}
	if err := s.client.Set(ctx, verifPrefix+email, "1", s.verifiedTTL).Err(); err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}

	return nil
}

// IsVerified reports whether the email passed verification recently
func (s *Store) IsVerified(ctx context.Context, email string) (bool, error) {
	_, err := s.client.Get(ctx, verifPrefix+email).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to read verified flag: %w", err)
	}
	return true, nil
}

// Consume clears the verified flag once signup completes
func (s *Store) Consume(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, verifPrefix+email).Err(); err != nil {
		return fmt.Errorf("failed to clear verified flag: %w", err)
	}
	return nil
}

func generateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < codeLength; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeLength, n), nil
}
