package core

import "context"

// Store defines the contract for persisting the catalog.
// Implementations rewrite the whole collection on every save.
type Store interface {
	// LoadBooks returns all persisted books in file order.
	// A store that has never been written returns an empty slice.
	LoadBooks(ctx context.Context) ([]Book, error)

	// LoadUsers returns all persisted users in file order.
	// Borrowed ISBNs are returned as stored, unresolved.
	LoadUsers(ctx context.Context) ([]User, error)

	// SaveBooks replaces the persisted books.
	SaveBooks(ctx context.Context, books []Book) error

	// SaveUsers replaces the persisted users.
	SaveUsers(ctx context.Context, users []User) error
}

// Watchable defines an interface for stores that can report out-of-band changes.
type Watchable interface {
	Watch(ctx context.Context) (<-chan Event, error)
}
