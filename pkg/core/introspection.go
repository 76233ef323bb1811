package core

import (
	"time"

	"github.com/aretw0/introspection"
)

// CatalogState exposes internal state for observability.
type CatalogState struct {
	Books      int        `json:"books"`
	Available  int        `json:"available"`
	Borrowed   int        `json:"borrowed"`
	Users      int        `json:"users"`
	UniqueKeys bool       `json:"unique_keys"`
	StoreType  string     `json:"store_type"`
	LoadedAt   *time.Time `json:"loaded_at,omitempty"`
}

// State implements introspection.Introspectable.
func (c *Catalog) State() any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	storeType := "unknown"
	if c.store != nil {
		storeType = "store"
		if comp, ok := c.store.(introspection.Component); ok {
			storeType = comp.ComponentType()
		}
	}

	st := CatalogState{
		Books:      len(c.books),
		Users:      len(c.users),
		UniqueKeys: c.unique,
		StoreType:  storeType,
	}
	for _, b := range c.books {
		if b.Available {
			st.Available++
		} else {
			st.Borrowed++
		}
	}
	if !c.loadedAt.IsZero() {
		t := c.loadedAt
		st.LoadedAt = &t
	}
	return st
}

// ComponentType implements introspection.Component.
func (c *Catalog) ComponentType() string {
	return "catalog"
}

var _ introspection.Introspectable = (*Catalog)(nil)
var _ introspection.Component = (*Catalog)(nil)
