package store

import "errors"

var (
	// ErrNotFound is returned when no user document exists for an id.
	ErrNotFound = errors.New("user not found")
	// ErrExists is returned by Create when the id is already taken.
	ErrExists = errors.New("user already exists")
	// ErrConflict is returned by Save when the stored version moved since the document was read.
	ErrConflict = errors.New("user version conflict")
)
