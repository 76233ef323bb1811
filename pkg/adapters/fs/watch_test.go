package fs_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/shelf/pkg/core"
)

func TestWatch(t *testing.T) {
	g, dir := setupGateway(t)
	require.NoError(t, os.MkdirAll(dir, 0755))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := g.Watch(ctx)
	require.NoError(t, err)

	// Give the watcher a moment to register.
	time.Sleep(50 * time.Millisecond)

	// Unrelated files are ignored.
	writeFile(t, dir+"/notes.txt", "hello")
	require.NoError(t, g.SaveBooks(ctx, []core.Book{{Title: "Dune", ISBN: "X1", Year: 1965}}))

	select {
	case e := <-events:
		assert.Equal(t, core.EventBooksChanged, e.Type)
		assert.Equal(t, g.BooksPath(), e.Path)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for books event")
	}

	require.NoError(t, g.SaveUsers(ctx, []core.User{{Name: "Ada", ID: 7}}))
	select {
	case e := <-events:
		assert.Equal(t, core.EventUsersChanged, e.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for users event")
	}

	cancel()
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-events:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond, "events channel should close after cancel")
}

func TestWatch_CancelledContext(t *testing.T) {
	g, dir := setupGateway(t)
	require.NoError(t, os.MkdirAll(dir, 0755))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.Watch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
