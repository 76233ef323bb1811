// Package shelf is the composition root of a flat-file library catalog.
//
// It wires the catalog domain (pkg/core) to the flat-file gateway
// (pkg/adapters/fs). Books and users live in two pipe-delimited text files
// that are rewritten in full after every change:
//
//	books.txt  title|author|isbn|year|available
//	users.txt  name|id|isbn1|isbn2|...
//
// Usage:
//
//	cat, err := shelf.New(ctx, "./library",
//		shelf.WithLogger(logger),
//		shelf.WithUniqueKeys(true),
//	)
//
//	err = cat.AddBook(ctx, core.Book{Title: "Dune", ISBN: "978-0441013593", Year: 1965})
//	receipt, err := cat.Borrow(ctx, 7, "978-0441013593")
package shelf
