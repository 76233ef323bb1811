package fs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/shelf/pkg/codec"
	"github.com/aretw0/shelf/pkg/core"
)

const (
	// DefaultBooksFile is the books file name used when Config.BooksFile is empty.
	DefaultBooksFile = "books.txt"
	// DefaultUsersFile is the users file name used when Config.UsersFile is empty.
	DefaultUsersFile = "users.txt"
)

// Config holds the configuration for the flat-file gateway.
type Config struct {
	Dir           string
	BooksFile     string // relative to Dir unless absolute
	UsersFile     string // relative to Dir unless absolute
	MustExist     bool
	ReadOnly      bool
	SkipMalformed bool // log and skip undecodable lines instead of failing the load
	Logger        *slog.Logger
	ErrorHandler  func(error) // receives watcher errors
}

// Gateway implements core.Store on two pipe-delimited text files.
// Every save rewrites the whole file.
type Gateway struct {
	config Config

	mu            sync.RWMutex
	watcherActive bool
	lastSave      *time.Time
	saves         int
	skipped       int
}

// NewGateway creates a gateway. Empty file names fall back to the defaults.
func NewGateway(config Config) *Gateway {
	if config.Dir == "" {
		config.Dir = "."
	}
	if config.BooksFile == "" {
		config.BooksFile = DefaultBooksFile
	}
	if config.UsersFile == "" {
		config.UsersFile = DefaultUsersFile
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Gateway{config: config}
}

// Initialize makes sure the data directory is usable.
func (g *Gateway) Initialize(ctx context.Context) error {
	if g.config.MustExist || g.config.ReadOnly {
		info, err := os.Stat(g.config.Dir)
		if os.IsNotExist(err) {
			return fmt.Errorf("data directory does not exist: %s", g.config.Dir)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("data path is not a directory: %s", g.config.Dir)
		}
		return nil
	}

	if err := os.MkdirAll(g.config.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// BooksPath returns the resolved path of the books file.
func (g *Gateway) BooksPath() string {
	return g.resolve(g.config.BooksFile)
}

// UsersPath returns the resolved path of the users file.
func (g *Gateway) UsersPath() string {
	return g.resolve(g.config.UsersFile)
}

func (g *Gateway) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(g.config.Dir, name)
}

// LoadBooks implements core.Store.
func (g *Gateway) LoadBooks(ctx context.Context) ([]core.Book, error) {
	return loadRecords(ctx, g, g.BooksPath(), codec.DecodeBook)
}

// LoadUsers implements core.Store.
func (g *Gateway) LoadUsers(ctx context.Context) ([]core.User, error) {
	return loadRecords(ctx, g, g.UsersPath(), codec.DecodeUser)
}

// SaveBooks implements core.Store.
func (g *Gateway) SaveBooks(ctx context.Context, books []core.Book) error {
	lines := make([]string, len(books))
	for i, b := range books {
		lines[i] = codec.EncodeBook(b)
	}
	return g.Save(ctx, g.BooksPath(), lines)
}

// SaveUsers implements core.Store.
func (g *Gateway) SaveUsers(ctx context.Context, users []core.User) error {
	lines := make([]string, len(users))
	for i, u := range users {
		lines[i] = codec.EncodeUser(u)
	}
	return g.Save(ctx, g.UsersPath(), lines)
}

// Save replaces the file at path with one line per entry.
func (g *Gateway) Save(ctx context.Context, path string, lines []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if g.config.ReadOnly {
		return fmt.Errorf("save %s: %w", path, core.ErrReadOnly)
	}

	size, err := writeLinesAtomic(path, lines, 0644)
	if err != nil {
		return fmt.Errorf("unable to write %s: %w", path, err)
	}

	g.recordSave()
	g.config.Logger.Debug("saved", "path", path, "records", len(lines), "bytes", size)
	return nil
}

// Load returns the non-empty lines of the file at path.
// A missing file is not an error and yields no lines.
func (g *Gateway) Load(ctx context.Context, path string) ([]string, error) {
	numbered, err := g.readLines(ctx, path)
	if err != nil {
		return nil, err
	}
	lines := make([]string, len(numbered))
	for i, l := range numbered {
		lines[i] = l.text
	}
	return lines, nil
}

type line struct {
	num  int
	text string
}

func (g *Gateway) readLines(ctx context.Context, path string) ([]line, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			g.config.Logger.Info("no existing file found, starting fresh", "path", path)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var out []line
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		text := strings.TrimSuffix(scanner.Text(), "\r")
		if text == "" {
			continue
		}
		out = append(out, line{num: n, text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return out, nil
}

func loadRecords[T any](ctx context.Context, g *Gateway, path string, decode func(string) (T, error)) ([]T, error) {
	lines, err := g.readLines(ctx, path)
	if err != nil {
		return nil, err
	}

	records := make([]T, 0, len(lines))
	for _, l := range lines {
		rec, err := decode(l.text)
		if err != nil {
			var pe *codec.ParseError
			if errors.As(err, &pe) {
				pe.Line = l.num
			}
			if g.config.SkipMalformed {
				g.config.Logger.Warn("skipping malformed record", "path", path, "line", l.num, "error", err)
				g.recordSkip()
				continue
			}
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		records = append(records, rec)
	}

	g.config.Logger.Debug("loaded", "path", path, "records", len(records))
	return records, nil
}

func (g *Gateway) recordSave() {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := time.Now()
	g.lastSave = &now
	g.saves++
}

func (g *Gateway) recordSkip() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.skipped++
}

var _ core.Store = (*Gateway)(nil)
var _ core.Watchable = (*Gateway)(nil)
