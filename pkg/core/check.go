package core

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// InconsistencyKind classifies a disagreement between book availability and
// the users' borrowed lists.
type InconsistencyKind string

const (
	// KindOrphaned: the book is marked unavailable but nobody holds it.
	KindOrphaned InconsistencyKind = "orphaned"
	// KindPhantomLoan: a user holds the book but it is marked available.
	KindPhantomLoan InconsistencyKind = "phantom-loan"
	// KindMultipleHolders: more than one borrowed-list entry points at the book.
	KindMultipleHolders InconsistencyKind = "multiple-holders"
)

// Inconsistency describes one book whose state violates the availability rule.
type Inconsistency struct {
	ISBN    string            `json:"isbn"`
	Kind    InconsistencyKind `json:"kind"`
	Holders []int             `json:"holders,omitempty"`
}

func (i Inconsistency) String() string {
	if len(i.Holders) == 0 {
		return fmt.Sprintf("%s: %s", i.ISBN, i.Kind)
	}
	return fmt.Sprintf("%s: %s (users %v)", i.ISBN, i.Kind, i.Holders)
}

// Check reports every book whose availability flag disagrees with the
// borrowed lists. Availability is loaded verbatim, so the two files can drift
// after a crash between saves or a manual edit. Check only reports; it never
// repairs.
func (c *Catalog) Check() []Inconsistency {
	c.mu.RLock()
	defer c.mu.RUnlock()

	holders := make(map[string][]int)
	for _, u := range c.users {
		for _, isbn := range u.Borrowed {
			holders[isbn] = append(holders[isbn], u.ID)
		}
	}

	var out []Inconsistency
	for i, b := range c.books {
		if c.bookIdx[b.ISBN] != i {
			continue // shadowed duplicate
		}
		h := holders[b.ISBN]
		switch {
		case len(h) > 1:
			out = append(out, Inconsistency{ISBN: b.ISBN, Kind: KindMultipleHolders, Holders: h})
		case len(h) == 1 && b.Available:
			out = append(out, Inconsistency{ISBN: b.ISBN, Kind: KindPhantomLoan, Holders: h})
		case len(h) == 0 && !b.Available:
			out = append(out, Inconsistency{ISBN: b.ISBN, Kind: KindOrphaned})
		}
	}
	return out
}

// Search returns the books whose title, author or ISBN matches the glob
// pattern. Matching is case-insensitive and uses doublestar syntax, e.g.
// "*tolkien*" or "978-0-{13,20}*".
func (c *Catalog) Search(pattern string) ([]Book, error) {
	pattern = strings.ToLower(pattern)
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Book
	for _, b := range c.books {
		for _, field := range []string{b.Title, b.Author, b.ISBN} {
			ok, err := doublestar.Match(pattern, strings.ToLower(field))
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, b)
				break
			}
		}
	}
	return out, nil
}
