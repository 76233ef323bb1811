package shelf_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/shelf"
	"github.com/aretw0/shelf/pkg/core"
)

func Example() {
	dir, err := os.MkdirTemp("", "shelf-example-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cat, err := shelf.New(ctx, dir, shelf.WithLogger(logger))
	if err != nil {
		panic(err)
	}

	_ = cat.AddBook(ctx, core.Book{Title: "Dune", Author: "Frank Herbert", ISBN: "X1", Year: 1965})
	_ = cat.AddUser(ctx, core.User{Name: "Ada", ID: 7})

	receipt, err := cat.Borrow(ctx, 7, "X1")
	if err != nil {
		panic(err)
	}
	fmt.Println(receipt)

	if _, err := cat.Borrow(ctx, 7, "X1"); err != nil {
		fmt.Println(err)
	}

	receipt, _ = cat.Return(ctx, 7, "X1")
	fmt.Println(receipt)

	// Output:
	// Ada successfully borrowed Dune
	// X1: book is not available
	// Ada successfully returned Dune
}
