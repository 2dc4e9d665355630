package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrSlotTaken indicates a conditional slot update found the slot already booked
	ErrSlotTaken = errors.New("slot already booked")

	// ErrDuplicate indicates a unique constraint was violated
	ErrDuplicate = errors.New("record already exists")

	// ErrStatusConflict indicates a conditional status update matched no row,
	// meaning the session moved to another state concurrently
	ErrStatusConflict = errors.New("session status changed concurrently")
)
