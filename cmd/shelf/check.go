package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errInconsistent = errors.New("catalog is inconsistent")

func newCheckCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report books whose availability disagrees with the users file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := g.openCatalog(cmd.Context())
			if err != nil {
				return err
			}

			issues := cat.Check()
			if len(issues) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "OK")
				return nil
			}
			for _, i := range issues {
				fmt.Fprintln(cmd.OutOrStdout(), i)
			}
			return fmt.Errorf("%w: %d problem(s)", errInconsistent, len(issues))
		},
	}
}
