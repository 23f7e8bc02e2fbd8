package repository

import "errors"

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateID is returned when an identifier was already issued.
	ErrDuplicateID = errors.New("identifier already issued")
	// ErrDuplicateEmail is returned when another user owns the email.
	ErrDuplicateEmail = errors.New("email already registered")
)
