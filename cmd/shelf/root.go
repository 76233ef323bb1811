package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/aretw0/shelf"
	"github.com/aretw0/shelf/pkg/core"
)

// EnvDir names the environment variable holding the data directory.
const EnvDir = "SHELF_DIR"

// globals carries the persistent flags shared by every subcommand.
type globals struct {
	dir           string
	booksFile     string
	usersFile     string
	verbose       bool
	strict        bool
	skipMalformed bool
	readOnly      bool
	logger        *slog.Logger
}

func (g *globals) options() []shelf.Option {
	return []shelf.Option{
		shelf.WithLogger(g.logger),
		shelf.WithBooksFile(g.booksFile),
		shelf.WithUsersFile(g.usersFile),
		shelf.WithUniqueKeys(g.strict),
		shelf.WithSkipMalformed(g.skipMalformed),
		shelf.WithReadOnly(g.readOnly),
	}
}

func (g *globals) openCatalog(ctx context.Context) (*core.Catalog, error) {
	cat, err := shelf.New(ctx, g.dir, g.options()...)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	return cat, nil
}

// resolveDir applies, in order: --dir, $SHELF_DIR, the nearest directory
// above the working directory holding catalog files, the working directory.
func (g *globals) resolveDir(cmd *cobra.Command) error {
	if g.dir != "" {
		return nil
	}
	if env := os.Getenv(EnvDir); env != "" {
		g.dir = env
		return nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	markers := []string{g.booksFile, g.usersFile}
	if root, err := shelf.FindDataDir(cwd, markers...); err == nil {
		g.dir = root
		return nil
	}
	g.dir = cwd
	return nil
}

// newRootCmd builds the command tree. Output goes to out, logs to errOut.
func newRootCmd(out, errOut io.Writer) *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:   "shelf",
		Short: "A small library catalog kept in two plain text files",
		Long: `shelf tracks books and users and who has borrowed what.
State lives in books.txt and users.txt, rewritten in full after every change.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, iofs.ErrNotExist) {
				return fmt.Errorf("failed to load .env: %w", err)
			}

			level := slog.LevelInfo
			if g.verbose {
				level = slog.LevelDebug
			}
			opts := &slog.HandlerOptions{
				Level: level,
			}
			g.logger = slog.New(slog.NewTextHandler(errOut, opts))
			slog.SetDefault(g.logger)

			return g.resolveDir(cmd)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&g.dir, "dir", "d", "", "Data directory (default: $SHELF_DIR, nearest catalog, or current directory)")
	pf.StringVar(&g.booksFile, "books-file", "books.txt", "Books file name")
	pf.StringVar(&g.usersFile, "users-file", "users.txt", "Users file name")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "Enable verbose logging")
	pf.BoolVar(&g.strict, "strict", false, "Reject duplicate ISBNs and user IDs")
	pf.BoolVar(&g.skipMalformed, "skip-malformed", false, "Skip undecodable lines instead of failing")
	pf.BoolVar(&g.readOnly, "read-only", false, "Never write the data files")

	root.AddCommand(
		newBookCmd(g),
		newUserCmd(g),
		newBorrowCmd(g),
		newReturnCmd(g),
		newExportCmd(g),
		newImportCmd(g),
		newCheckCmd(g),
		newStatusCmd(g),
		newWatchCmd(g),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, statusMessage(err))
		return 1
	}
	return 0
}

// statusMessage turns catalog errors into the operator-facing wording.
func statusMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrPersist):
		return fmt.Sprintf("Warning: change kept in memory but not saved: %v", err)
	case errors.Is(err, core.ErrNotFound):
		return "User or book not found."
	case errors.Is(err, core.ErrNotAvailable):
		return "Book is not available."
	case errors.Is(err, core.ErrNotBorrowed):
		return "This user did not borrow this book."
	default:
		return "Error: " + err.Error()
	}
}
