package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/shelf/pkg/core"
)

// run executes the CLI in-process against dir and returns stdout.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd(&out, &errOut)
	root.SetArgs(append([]string{"--dir", dir}, args...))
	err := root.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := run(t, dir, args...)
	require.NoError(t, err, "shelf %s", strings.Join(args, " "))
	return out
}

func TestCLI_BorrowReturnFlow(t *testing.T) {
	dir := t.TempDir()

	out := mustRun(t, dir, "book", "add", "--title", "Dune", "--author", "Frank Herbert", "--isbn", "X1", "--year", "1965")
	assert.Contains(t, out, "Book 'Dune' added.")
	mustRun(t, dir, "user", "add", "--name", "Ada", "--id", "7")

	raw, err := os.ReadFile(filepath.Join(dir, "books.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Dune|Frank Herbert|X1|1965|1\n", string(raw))

	out = mustRun(t, dir, "borrow", "7", "X1")
	assert.Equal(t, "Ada successfully borrowed Dune\n", out)

	raw, err = os.ReadFile(filepath.Join(dir, "users.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Ada|7|X1\n", string(raw))

	_, err = run(t, dir, "borrow", "7", "X1")
	assert.ErrorIs(t, err, core.ErrNotAvailable)
	assert.Equal(t, "Book is not available.", statusMessage(err))

	out = mustRun(t, dir, "user", "list")
	assert.Contains(t, out, "  - Dune (ISBN: X1)")

	out = mustRun(t, dir, "book", "list")
	assert.Contains(t, out, "Availability: Not Available")

	out = mustRun(t, dir, "return", "7", "X1")
	assert.Equal(t, "Ada successfully returned Dune\n", out)

	_, err = run(t, dir, "return", "7", "X1")
	assert.ErrorIs(t, err, core.ErrNotBorrowed)
	assert.Equal(t, "This user did not borrow this book.", statusMessage(err))

	_, err = run(t, dir, "borrow", "99", "X1")
	assert.Equal(t, "User or book not found.", statusMessage(err))

	_, err = run(t, dir, "borrow", "seven", "X1")
	assert.Error(t, err)
}

func TestCLI_ListJSONAndSearch(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "book", "add", "--title", "The Hobbit", "--author", "J.R.R. Tolkien", "--isbn", "H1", "--year", "1937")
	mustRun(t, dir, "book", "add", "--title", "Emma", "--author", "Jane Austen", "--isbn", "E1", "--year", "1815")

	out := mustRun(t, dir, "book", "list", "--json")
	assert.Contains(t, out, `"isbn": "H1"`)

	out = mustRun(t, dir, "book", "search", "*tolkien*")
	assert.Contains(t, out, "H1  The Hobbit - J.R.R. Tolkien (1937) [available]")
	assert.NotContains(t, out, "Emma")
}

func TestCLI_StrictRejectsDuplicates(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "user", "add", "--name", "Ada", "--id", "7")

	_, err := run(t, dir, "--strict", "user", "add", "--name", "Eve", "--id", "7")
	assert.ErrorIs(t, err, core.ErrDuplicate)

	// Permissive default keeps the reference behaviour.
	mustRun(t, dir, "user", "add", "--name", "Eve", "--id", "7")
	out := mustRun(t, dir, "user", "list", "--json")
	assert.Equal(t, 2, strings.Count(out, `"id": 7`))
}

func TestCLI_ExportImport(t *testing.T) {
	src := t.TempDir()
	mustRun(t, src, "book", "add", "--title", "Dune", "--isbn", "X1", "--year", "1965")
	mustRun(t, src, "book", "add", "--title", "Emma", "--isbn", "X2", "--year", "1815")
	mustRun(t, src, "user", "add", "--name", "Ada", "--id", "7")
	mustRun(t, src, "borrow", "7", "X2")

	snapshot := filepath.Join(t.TempDir(), "snap.yaml")
	mustRun(t, src, "export", "--format", "yaml", "--output", snapshot)

	out := mustRun(t, src, "export", "--format", "text")
	assert.Contains(t, out, "[users]\nAda|7|X2\n")

	dst := t.TempDir()
	out = mustRun(t, dst, "import", snapshot)
	assert.Equal(t, "Imported 2 books, 1 users, 1 loans.\n", out)

	out = mustRun(t, dst, "check")
	assert.Equal(t, "OK\n", out)

	_, err := run(t, dst, "export", "--format", "xml")
	assert.Error(t, err)
}

func TestCLI_CheckReportsDrift(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "books.txt"), []byte("Dune|Herbert|X1|1965|0\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.txt"), []byte("Ada|7\n"), 0644))

	out, err := run(t, dir, "check")
	assert.ErrorIs(t, err, errInconsistent)
	assert.Contains(t, out, "X1: orphaned")
}

func TestCLI_ReadOnly(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "--read-only", "book", "add", "--title", "Dune", "--isbn", "X1")
	assert.ErrorIs(t, err, core.ErrReadOnly)
	assert.True(t, strings.HasPrefix(statusMessage(err), "Warning:"))

	_, statErr := os.Stat(filepath.Join(dir, "books.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCLI_StatusAndVersion(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "book", "add", "--title", "Dune", "--isbn", "X1")

	out := mustRun(t, dir, "status")
	assert.Contains(t, out, `"books": 1`)
	assert.Contains(t, out, `"store_type": "flatfile"`)

	out = mustRun(t, dir, "version")
	assert.Equal(t, "shelf version dev\n", out)
}

func TestCLI_EnvDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvDir, dir)

	var out, errOut bytes.Buffer
	root := newRootCmd(&out, &errOut)
	root.SetArgs([]string{"user", "add", "--name", "Ada", "--id", "7"})
	require.NoError(t, root.Execute())

	_, err := os.Stat(filepath.Join(dir, "users.txt"))
	assert.NoError(t, err)
}
