package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/shelf/pkg/core"
)

// ImportResult summarizes an Import call.
type ImportResult struct {
	Books int
	Users int
	Loans int
}

// Import adds every book and user of the snapshot to the catalog and then
// replays each user's borrowed list as loans, so availability is derived
// from the borrowed lists rather than trusted from the snapshot.
//
// Failures of individual records do not stop the import; they are joined
// into the returned error.
func Import(ctx context.Context, c *core.Catalog, snap Snapshot) (ImportResult, error) {
	var (
		res  ImportResult
		errs []error
	)

	for _, b := range snap.Books {
		if err := c.AddBook(ctx, b); err != nil {
			errs = append(errs, fmt.Errorf("book %s: %w", b.ISBN, err))
			if !errors.Is(err, core.ErrPersist) {
				continue
			}
		}
		res.Books++
	}

	for _, u := range snap.Users {
		if err := c.AddUser(ctx, u); err != nil {
			errs = append(errs, fmt.Errorf("user %d: %w", u.ID, err))
			if !errors.Is(err, core.ErrPersist) {
				continue
			}
		}
		res.Users++
	}

	for _, u := range snap.Users {
		for _, isbn := range u.Borrowed {
			if _, err := c.Borrow(ctx, u.ID, isbn); err != nil {
				errs = append(errs, fmt.Errorf("loan %d/%s: %w", u.ID, isbn, err))
				if !errors.Is(err, core.ErrPersist) {
					continue
				}
			}
			res.Loans++
		}
	}

	return res, errors.Join(errs...)
}
