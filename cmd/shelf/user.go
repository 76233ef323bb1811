package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/shelf/pkg/core"
)

func newUserCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Add and list users",
	}
	cmd.AddCommand(newUserAddCmd(g), newUserListCmd(g))
	return cmd
}

func newUserAddCmd(g *globals) *cobra.Command {
	var u core.User

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := g.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			if err := cat.AddUser(cmd.Context(), u); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User '%s' added with ID %d.\n", u.Name, u.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&u.Name, "name", "", "User name")
	cmd.Flags().IntVar(&u.ID, "id", 0, "Numeric user ID")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("id")
	return cmd
}

func newUserListCmd(g *globals) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Display all users and what they hold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := g.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), cat.Users())
			}
			return cat.WriteUsers(cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}
