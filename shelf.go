package shelf

import (
	"context"
	"log/slog"

	"github.com/aretw0/shelf/internal/platform"
	"github.com/aretw0/shelf/pkg/core"
)

// --- Configuration ---

// Option defines a functional option for configuring shelf.
type Option = platform.Option

// WithLogger sets the logger for the catalog and its store.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStore allows injecting a custom storage adapter.
func WithStore(store core.Store) Option {
	return platform.WithStore(store)
}

// WithBooksFile overrides the books file name.
func WithBooksFile(name string) Option {
	return platform.WithBooksFile(name)
}

// WithUsersFile overrides the users file name.
func WithUsersFile(name string) Option {
	return platform.WithUsersFile(name)
}

// WithMustExist ensures the data directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly makes every save fail with core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithSkipMalformed skips undecodable lines on load instead of failing.
func WithSkipMalformed(enabled bool) Option {
	return platform.WithSkipMalformed(enabled)
}

// WithUniqueKeys rejects duplicate ISBNs and user IDs on add.
func WithUniqueKeys(enabled bool) Option {
	return platform.WithUniqueKeys(enabled)
}

// WithWatcherErrorHandler registers a callback for file watcher errors.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New creates a catalog over the data directory dir and loads it.
func New(ctx context.Context, dir string, opts ...Option) (*core.Catalog, error) {
	return platform.New(ctx, dir, opts...)
}

// Init prepares the store for dir without loading a catalog.
func Init(dir string, opts ...Option) (core.Store, error) {
	return platform.Init(dir, opts...)
}

// FindDataDir recursively looks upwards for a directory holding catalog files.
func FindDataDir(startDir string, markers ...string) (string, error) {
	return platform.FindRoot(startDir, markers...)
}
