package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/shelf/pkg/core"
)

func newBookCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Add, list and search books",
	}
	cmd.AddCommand(newBookAddCmd(g), newBookListCmd(g), newBookSearchCmd(g))
	return cmd
}

func newBookAddCmd(g *globals) *cobra.Command {
	var b core.Book

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := g.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			if err := cat.AddBook(cmd.Context(), b); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Book '%s' added.\n", b.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&b.Title, "title", "", "Book title")
	cmd.Flags().StringVar(&b.Author, "author", "", "Author")
	cmd.Flags().StringVar(&b.ISBN, "isbn", "", "ISBN")
	cmd.Flags().IntVar(&b.Year, "year", 0, "Publication year")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("isbn")
	return cmd
}

func newBookListCmd(g *globals) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Display all books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := g.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), cat.Books())
			}
			return cat.WriteBooks(cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func newBookSearchCmd(g *globals) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search <pattern>",
		Short: "Find books whose title, author or ISBN matches a glob pattern",
		Example: `  shelf book search '*tolkien*'
  shelf book search '978-0-{13,20}*'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := g.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			found, err := cat.Search(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), found)
			}
			for _, b := range found {
				status := "available"
				if !b.Available {
					status = "borrowed"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s - %s (%d) [%s]\n", b.ISBN, b.Title, b.Author, b.Year, status)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}
