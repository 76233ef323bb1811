package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Catalog owns every Book and User and enforces the borrow/return rules.
//
// Books and users keep insertion order. Lookups go through first-occurrence
// indexes, so with duplicate keys the earliest entry wins. Every mutation runs
// under a single lock that also covers the follow-up save, keeping the books
// and users files written in a consistent order.
type Catalog struct {
	store  Store
	logger *slog.Logger
	unique bool

	mu       sync.RWMutex
	books    []Book
	users    []User
	bookIdx  map[string]int
	userIdx  map[int]int
	loadedAt time.Time
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithCatalogLogger sets the logger. Defaults to slog.Default().
func WithCatalogLogger(logger *slog.Logger) CatalogOption {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithUniqueKeys makes AddBook and AddUser reject an ISBN or user ID that is
// already present. By default duplicates are accepted and shadowed by the
// first entry.
func WithUniqueKeys(enabled bool) CatalogOption {
	return func(c *Catalog) {
		c.unique = enabled
	}
}

// NewCatalog creates an empty catalog backed by store. Call Load to read the
// persisted state.
func NewCatalog(store Store, opts ...CatalogOption) *Catalog {
	c := &Catalog{
		store:   store,
		logger:  slog.Default(),
		bookIdx: make(map[string]int),
		userIdx: make(map[int]int),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load replaces the in-memory state with what the store holds.
//
// Books are loaded first and their availability flags are taken as stored.
// Each user's borrowed ISBNs are then resolved against those books; ISBNs
// with no matching book are dropped.
func (c *Catalog) Load(ctx context.Context) error {
	books, err := c.store.LoadBooks(ctx)
	if err != nil {
		return fmt.Errorf("failed to load books: %w", err)
	}
	users, err := c.store.LoadUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.books = slices.Clone(books)
	c.users = nil
	c.bookIdx = make(map[string]int, len(books))
	c.userIdx = make(map[int]int, len(users))
	for i, b := range c.books {
		if _, ok := c.bookIdx[b.ISBN]; !ok {
			c.bookIdx[b.ISBN] = i
		}
	}

	for _, u := range users {
		var resolved []string
		for _, isbn := range u.Borrowed {
			if _, ok := c.bookIdx[isbn]; !ok {
				c.logger.Debug("dropping unresolved borrowed book", "user_id", u.ID, "isbn", isbn)
				continue
			}
			resolved = append(resolved, isbn)
		}
		u.Borrowed = resolved
		c.appendUser(u)
	}

	c.loadedAt = time.Now()
	c.logger.Debug("catalog loaded", "books", len(c.books), "users", len(c.users))
	return nil
}

// AddBook appends a new, available book and persists the books file.
func (c *Catalog) AddBook(ctx context.Context, b Book) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.bookIdx[b.ISBN]; exists && c.unique {
		return fmt.Errorf("book %q: %w", b.ISBN, ErrDuplicate)
	}

	b.Available = true
	c.books = append(c.books, b)
	if _, ok := c.bookIdx[b.ISBN]; !ok {
		c.bookIdx[b.ISBN] = len(c.books) - 1
	}
	c.logger.Info("book added", "isbn", b.ISBN, "title", b.Title)

	return c.persist(ctx, true, false)
}

// AddUser appends a new user with no borrowed books and persists the users file.
func (c *Catalog) AddUser(ctx context.Context, u User) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.userIdx[u.ID]; exists && c.unique {
		return fmt.Errorf("user %d: %w", u.ID, ErrDuplicate)
	}

	u.Borrowed = nil
	c.appendUser(u)
	c.logger.Info("user added", "user_id", u.ID, "name", u.Name)

	return c.persist(ctx, false, true)
}

func (c *Catalog) appendUser(u User) {
	c.users = append(c.users, u)
	if _, ok := c.userIdx[u.ID]; !ok {
		c.userIdx[u.ID] = len(c.users) - 1
	}
}

// FindBook returns a copy of the first book with the given ISBN.
func (c *Catalog) FindBook(isbn string) (Book, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.bookIdx[isbn]
	if !ok {
		return Book{}, false
	}
	return c.books[i], true
}

// FindUser returns a copy of the first user with the given ID.
func (c *Catalog) FindUser(id int) (User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.userIdx[id]
	if !ok {
		return User{}, false
	}
	return c.users[i].clone(), true
}

// Books returns a snapshot of all books in insertion order.
func (c *Catalog) Books() []Book {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.books)
}

// Users returns a snapshot of all users in insertion order.
func (c *Catalog) Users() []User {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]User, len(c.users))
	for i, u := range c.users {
		out[i] = u.clone()
	}
	return out
}

// Borrow lends the book to the user.
//
// Lookup failures return ErrNotFound and an unavailable book returns
// ErrNotAvailable; neither mutates anything. On success both files are
// rewritten. If that save fails the loan still stands in memory and the
// receipt is returned alongside an error wrapping ErrPersist.
func (c *Catalog) Borrow(ctx context.Context, userID int, isbn string) (Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ui, bi, err := c.resolve(userID, isbn)
	if err != nil {
		return Receipt{}, err
	}

	book := &c.books[bi]
	if !book.Available {
		return Receipt{}, fmt.Errorf("%s: %w", isbn, ErrNotAvailable)
	}

	user := &c.users[ui]
	user.Borrowed = append(user.Borrowed, isbn)
	book.Available = false

	rcpt := newReceipt(ActionBorrow, *user, *book)
	c.logger.Info("book borrowed", "user_id", userID, "isbn", isbn, "receipt", rcpt.ID)

	return rcpt, c.persist(ctx, true, true)
}

// Return takes the book back from the user.
//
// Lookup failures return ErrNotFound. If the user does not hold the ISBN the
// result is ErrNotBorrowed and nothing changes. Only the first matching entry
// of the borrowed list is removed.
func (c *Catalog) Return(ctx context.Context, userID int, isbn string) (Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ui, bi, err := c.resolve(userID, isbn)
	if err != nil {
		return Receipt{}, err
	}

	user := &c.users[ui]
	pos := slices.Index(user.Borrowed, isbn)
	if pos < 0 {
		return Receipt{}, fmt.Errorf("user %d, book %s: %w", userID, isbn, ErrNotBorrowed)
	}

	user.Borrowed = slices.Delete(user.Borrowed, pos, pos+1)
	book := &c.books[bi]
	book.Available = true

	rcpt := newReceipt(ActionReturn, *user, *book)
	c.logger.Info("book returned", "user_id", userID, "isbn", isbn, "receipt", rcpt.ID)

	return rcpt, c.persist(ctx, true, true)
}

func (c *Catalog) resolve(userID int, isbn string) (userPos, bookPos int, err error) {
	ui, uok := c.userIdx[userID]
	bi, bok := c.bookIdx[isbn]
	if !uok || !bok {
		return 0, 0, fmt.Errorf("user %d, book %s: %w", userID, isbn, ErrNotFound)
	}
	return ui, bi, nil
}

// persist must be called with c.mu held. Books are always written before users.
func (c *Catalog) persist(ctx context.Context, books, users bool) error {
	var errs []error
	if books {
		if err := c.store.SaveBooks(ctx, c.books); err != nil {
			c.logger.Error("saving books failed", "error", err)
			errs = append(errs, err)
		}
	}
	if users {
		if err := c.store.SaveUsers(ctx, c.users); err != nil {
			c.logger.Error("saving users failed", "error", err)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrPersist, errors.Join(errs...))
	}
	return nil
}

// Action names a borrow/return transition.
type Action string

const (
	ActionBorrow Action = "borrowed"
	ActionReturn Action = "returned"
)

// Receipt records a successful borrow or return.
type Receipt struct {
	ID       uuid.UUID `json:"id"`
	Action   Action    `json:"action"`
	UserID   int       `json:"user_id"`
	UserName string    `json:"user_name"`
	ISBN     string    `json:"isbn"`
	Title    string    `json:"title"`
	At       time.Time `json:"at"`
}

func newReceipt(action Action, u User, b Book) Receipt {
	return Receipt{
		ID:       uuid.New(),
		Action:   action,
		UserID:   u.ID,
		UserName: u.Name,
		ISBN:     b.ISBN,
		Title:    b.Title,
		At:       time.Now(),
	}
}

// String returns the status message shown to the operator.
func (r Receipt) String() string {
	return fmt.Sprintf("%s successfully %s %s", r.UserName, r.Action, r.Title)
}
