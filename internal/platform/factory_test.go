package platform_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/shelf/internal/platform"
	"github.com/aretw0/shelf/pkg/adapters/fs"
	"github.com/aretw0/shelf/pkg/core"
)

type stubStore struct{ loaded bool }

func (s *stubStore) LoadBooks(context.Context) ([]core.Book, error) {
	s.loaded = true
	return []core.Book{{Title: "Dune", ISBN: "X1", Available: true}}, nil
}
func (s *stubStore) LoadUsers(context.Context) ([]core.User, error) { return nil, nil }
func (s *stubStore) SaveBooks(context.Context, []core.Book) error   { return nil }
func (s *stubStore) SaveUsers(context.Context, []core.User) error   { return nil }

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty Directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "lib")
		cat, err := platform.New(ctx, dir)
		require.NoError(t, err)
		assert.Empty(t, cat.Books())
		assert.Empty(t, cat.Users())

		_, err = os.Stat(dir)
		assert.NoError(t, err, "directory created")
	})

	t.Run("Persist And Reload", func(t *testing.T) {
		dir := t.TempDir()
		cat, err := platform.New(ctx, dir, platform.WithBooksFile("b.txt"), platform.WithUsersFile("u.txt"))
		require.NoError(t, err)
		require.NoError(t, cat.AddBook(ctx, core.Book{Title: "Dune", ISBN: "X1", Year: 1965}))
		require.NoError(t, cat.AddUser(ctx, core.User{Name: "Ada", ID: 7}))
		_, err = cat.Borrow(ctx, 7, "X1")
		require.NoError(t, err)

		_, err = os.Stat(filepath.Join(dir, "b.txt"))
		require.NoError(t, err)

		again, err := platform.New(ctx, dir, platform.WithBooksFile("b.txt"), platform.WithUsersFile("u.txt"))
		require.NoError(t, err)
		b, ok := again.FindBook("X1")
		require.True(t, ok)
		assert.False(t, b.Available)
	})

	t.Run("Injected Store", func(t *testing.T) {
		stub := &stubStore{}
		cat, err := platform.New(ctx, "ignored", platform.WithStore(stub))
		require.NoError(t, err)
		assert.True(t, stub.loaded)
		assert.Len(t, cat.Books(), 1)
	})

	t.Run("Must Exist", func(t *testing.T) {
		_, err := platform.New(ctx, filepath.Join(t.TempDir(), "missing"), platform.WithMustExist(true))
		assert.Error(t, err)
	})

	t.Run("Read Only", func(t *testing.T) {
		dir := t.TempDir()
		cat, err := platform.New(ctx, dir, platform.WithReadOnly(true))
		require.NoError(t, err)
		err = cat.AddBook(ctx, core.Book{ISBN: "X1"})
		assert.True(t, errors.Is(err, core.ErrReadOnly))
		assert.True(t, errors.Is(err, core.ErrPersist))
	})

	t.Run("Malformed Books File", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, fs.DefaultBooksFile), []byte("Dune|Herbert|X1|soon|1\n"), 0644))

		_, err := platform.New(ctx, dir)
		assert.ErrorIs(t, err, core.ErrParse)

		cat, err := platform.New(ctx, dir, platform.WithSkipMalformed(true))
		require.NoError(t, err)
		assert.Empty(t, cat.Books())
	})

	t.Run("Unique Keys", func(t *testing.T) {
		cat, err := platform.New(ctx, t.TempDir(), platform.WithUniqueKeys(true))
		require.NoError(t, err)
		require.NoError(t, cat.AddUser(ctx, core.User{Name: "Ada", ID: 7}))
		assert.ErrorIs(t, cat.AddUser(ctx, core.User{Name: "Ada", ID: 7}), core.ErrDuplicate)
	})
}

func TestInit(t *testing.T) {
	store, err := platform.Init(t.TempDir())
	require.NoError(t, err)
	_, ok := store.(*fs.Gateway)
	assert.True(t, ok, "default store is the flat-file gateway")
}
