package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// GatewayState exposes internal state for observability.
type GatewayState struct {
	Dir           string     `json:"dir"`
	BooksPath     string     `json:"books_path"`
	UsersPath     string     `json:"users_path"`
	ReadOnly      bool       `json:"read_only"`
	SkipMalformed bool       `json:"skip_malformed"`
	Saves         int        `json:"saves"`
	Skipped       int        `json:"skipped_lines"`
	WatcherActive bool       `json:"watcher_active"`
	LastSave      *time.Time `json:"last_save,omitempty"`
}

// State implements introspection.Introspectable.
func (g *Gateway) State() any {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return GatewayState{
		Dir:           g.config.Dir,
		BooksPath:     g.BooksPath(),
		UsersPath:     g.UsersPath(),
		ReadOnly:      g.config.ReadOnly,
		SkipMalformed: g.config.SkipMalformed,
		Saves:         g.saves,
		Skipped:       g.skipped,
		WatcherActive: g.watcherActive,
		LastSave:      g.lastSave,
	}
}

// ComponentType implements introspection.Component.
func (g *Gateway) ComponentType() string {
	return "flatfile"
}

var _ introspection.Introspectable = (*Gateway)(nil)
var _ introspection.Component = (*Gateway)(nil)

func (g *Gateway) setWatcherActive(active bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.watcherActive = active
}
