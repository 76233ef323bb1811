package core

import "errors"

// Common errors.
var (
	// ErrNotFound is returned when a user ID or ISBN does not resolve.
	ErrNotFound = errors.New("user or book not found")

	// ErrNotAvailable is returned when borrowing a book that is already out.
	ErrNotAvailable = errors.New("book is not available")

	// ErrNotBorrowed is returned when returning a book the user does not hold.
	ErrNotBorrowed = errors.New("user did not borrow this book")

	// ErrDuplicate is returned by AddBook/AddUser when unique keys are enforced.
	ErrDuplicate = errors.New("duplicate key")

	// ErrParse marks a malformed record.
	ErrParse = errors.New("malformed record")

	// ErrPersist marks a failed save. The in-memory change has already been applied.
	ErrPersist = errors.New("failed to persist catalog")

	// ErrReadOnly is returned by stores opened in read-only mode.
	ErrReadOnly = errors.New("store is in read-only mode")
)
