package platform

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/shelf/pkg/adapters/fs"
	"github.com/aretw0/shelf/pkg/core"
)

// Init prepares the store for the data directory dir.
// It returns the injected store if one was given, otherwise an initialized
// flat-file gateway.
func Init(dir string, opts ...Option) (core.Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initStore(dir, o)
}

func initStore(dir string, o *options) (core.Store, error) {
	if o.store != nil {
		return o.store, nil
	}

	g := fs.NewGateway(fs.Config{
		Dir:           dir,
		BooksFile:     o.booksFile,
		UsersFile:     o.usersFile,
		MustExist:     o.mustExist,
		ReadOnly:      o.readOnly,
		SkipMalformed: o.skipMalformed,
		Logger:        o.logger,
		ErrorHandler:  o.errorHandler,
	})
	if err := g.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return g, nil
}

// New creates a catalog over the data directory and loads it.
//
//	cat, err := shelf.New("./library", shelf.WithUniqueKeys(true))
func New(ctx context.Context, dir string, opts ...Option) (*core.Catalog, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	store, err := initStore(dir, o)
	if err != nil {
		return nil, err
	}

	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	cat := core.NewCatalog(store,
		core.WithCatalogLogger(logger),
		core.WithUniqueKeys(o.uniqueKeys),
	)
	if err := cat.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load catalog from %s: %w", dir, err)
	}
	return cat, nil
}
