package core

import (
	"fmt"
	"io"
)

const displaySeparator = "-----------------"

// WriteBooks writes a human-readable dump of every book.
func (c *Catalog) WriteBooks(w io.Writer) error {
	books := c.Books()

	if _, err := fmt.Fprintln(w, "--- All Books ---"); err != nil {
		return err
	}
	for _, b := range books {
		availability := "Available"
		if !b.Available {
			availability = "Not Available"
		}
		_, err := fmt.Fprintf(w, "Title: %s\nAuthor: %s\nISBN: %s\nPublication Year: %d\nAvailability: %s\n%s\n",
			b.Title, b.Author, b.ISBN, b.Year, availability, displaySeparator)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteUsers writes a human-readable dump of every user and the titles they hold.
func (c *Catalog) WriteUsers(w io.Writer) error {
	users := c.Users()

	if _, err := fmt.Fprintln(w, "--- All Users ---"); err != nil {
		return err
	}
	for _, u := range users {
		if _, err := fmt.Fprintf(w, "Name: %s\nUser ID: %d\nBorrowed Books:\n", u.Name, u.ID); err != nil {
			return err
		}
		if len(u.Borrowed) == 0 {
			if _, err := fmt.Fprintln(w, "  - None"); err != nil {
				return err
			}
		}
		for _, isbn := range u.Borrowed {
			title := "(unknown)"
			if b, ok := c.FindBook(isbn); ok {
				title = b.Title
			}
			if _, err := fmt.Fprintf(w, "  - %s (ISBN: %s)\n", title, isbn); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, displaySeparator); err != nil {
			return err
		}
	}
	return nil
}
