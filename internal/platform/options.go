package platform

import (
	"log/slog"

	"github.com/aretw0/shelf/pkg/core"
)

// options holds the internal configuration for a shelf catalog.
type options struct {
	store         core.Store
	logger        *slog.Logger
	booksFile     string
	usersFile     string
	mustExist     bool
	readOnly      bool
	skipMalformed bool
	uniqueKeys    bool
	errorHandler  func(error)
}

// Option defines a functional option for configuring shelf.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{}
}

// WithLogger sets the logger for the catalog and its store.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStore allows injecting a custom store (e.g. a mock).
// If provided, the flat-file gateway is skipped and file options are ignored.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithBooksFile overrides the books file name ("books.txt").
func WithBooksFile(name string) Option {
	return func(o *options) {
		o.booksFile = name
	}
}

// WithUsersFile overrides the users file name ("users.txt").
func WithUsersFile(name string) Option {
	return func(o *options) {
		o.usersFile = name
	}
}

// WithMustExist ensures the data directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithReadOnly enables read-only mode.
// Loading works as usual; every save fails with core.ErrReadOnly and the
// data directory is never created.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithSkipMalformed logs and skips lines that fail to decode instead of
// failing the whole load.
func WithSkipMalformed(enabled bool) Option {
	return func(o *options) {
		o.skipMalformed = enabled
	}
}

// WithUniqueKeys rejects books with an ISBN, or users with an ID, that is
// already in the catalog. Off by default: duplicates are accepted and the
// first entry wins on lookup.
func WithUniqueKeys(enabled bool) Option {
	return func(o *options) {
		o.uniqueKeys = enabled
	}
}

// WithWatcherErrorHandler registers a callback for errors raised while watching
// the data files. They are logged either way.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}
