package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/shelf/pkg/export"
)

func newExportCmd(g *globals) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a snapshot of the whole catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := export.Lookup(format)
			if err != nil {
				return err
			}
			cat, err := g.openCatalog(cmd.Context())
			if err != nil {
				return err
			}

			data, err := s.Serialize(export.Take(cat))
			if err != nil {
				return fmt.Errorf("failed to serialize snapshot: %w", err)
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			g.logger.Info("snapshot exported", "path", output, "format", format)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Snapshot format (json, yaml, text)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

func newImportCmd(g *globals) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Add the books, users and loans of a snapshot to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if format == "" {
				format = filepath.Ext(path)
			}
			s, err := export.Lookup(format)
			if err != nil {
				return err
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			snap, err := s.Parse(f)
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", path, err)
			}

			cat, err := g.openCatalog(cmd.Context())
			if err != nil {
				return err
			}

			res, err := export.Import(cmd.Context(), cat, snap)
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d books, %d users, %d loans.\n", res.Books, res.Users, res.Loans)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Snapshot format (default: from file extension)")
	return cmd
}
