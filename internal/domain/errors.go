package domain

import "errors"

// Sentinel errors shared by services, repositories and controllers.
// Callers match them with errors.Is; services may wrap them with context.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrForbidden          = errors.New("forbidden")
	ErrPastBlock          = errors.New("block has already started")
	ErrDuplicateBooking   = errors.New("reservation already exists")
	ErrBlockFull          = errors.New("block is full")
	ErrStorageConflict    = errors.New("storage conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already in use")
)
