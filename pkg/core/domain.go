// Package core holds the catalog domain: books, users and the borrow/return rules.
package core

import (
	"slices"
)

// Book is a single catalog entry identified by its ISBN.
type Book struct {
	Title     string `json:"title" yaml:"title"`
	Author    string `json:"author" yaml:"author"`
	ISBN      string `json:"isbn" yaml:"isbn"`
	Year      int    `json:"year" yaml:"year"`
	Available bool   `json:"available" yaml:"available"`
}

// User is a library patron.
// Borrowed holds ISBNs in borrow order. They are references into the catalog,
// the user never owns the books.
type User struct {
	Name     string   `json:"name" yaml:"name"`
	ID       int      `json:"id" yaml:"id"`
	Borrowed []string `json:"borrowed" yaml:"borrowed"`
}

// Holds reports whether the user currently has the given ISBN.
func (u User) Holds(isbn string) bool {
	return slices.Contains(u.Borrowed, isbn)
}

func (u User) clone() User {
	u.Borrowed = slices.Clone(u.Borrowed)
	return u
}

// EventType represents the type of change observed on the persisted catalog.
type EventType string

const (
	EventBooksChanged EventType = "BOOKS_CHANGED"
	EventUsersChanged EventType = "USERS_CHANGED"
)

// Event represents an out-of-band change to one of the data files.
type Event struct {
	Type      EventType
	Path      string
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer.
func (e Event) String() string {
	return string(e.Type) + " " + e.Path
}
