package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aretw0/shelf/pkg/core"
)

func newBorrowCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "borrow <user-id> <isbn>",
		Short: "Lend a book to a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoan(cmd, g, args, (*core.Catalog).Borrow)
		},
	}
}

func newReturnCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "return <user-id> <isbn>",
		Short: "Take a book back from a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoan(cmd, g, args, (*core.Catalog).Return)
		},
	}
}

type loanOp func(*core.Catalog, context.Context, int, string) (core.Receipt, error)

func runLoan(cmd *cobra.Command, g *globals, args []string, op loanOp) error {
	userID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", args[0], err)
	}

	cat, err := g.openCatalog(cmd.Context())
	if err != nil {
		return err
	}

	// A failed save still leaves the loan applied, so the receipt is printed.
	rcpt, err := op(cat, cmd.Context(), userID, args[1])
	if err != nil && !errors.Is(err, core.ErrPersist) {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), rcpt)
	return err
}
