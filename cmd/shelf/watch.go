package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/aretw0/shelf"
	shelflifecycle "github.com/aretw0/shelf/pkg/adapters/lifecycle"
	"github.com/aretw0/shelf/pkg/core"
)

func newWatchCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Reload and re-check the catalog whenever its files change",
		Long: `Watch the data directory and reload the catalog after every change to the
books or users file, printing the new counters and any availability drift.
Stops on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			store, err := shelf.Init(g.dir, g.options()...)
			if err != nil {
				return err
			}
			w, ok := store.(core.Watchable)
			if !ok {
				return fmt.Errorf("store does not support watching")
			}

			cat := core.NewCatalog(store, core.WithCatalogLogger(g.logger))
			if err := cat.Load(ctx); err != nil {
				return err
			}

			events, err := w.Watch(ctx)
			if err != nil {
				return err
			}
			src := shelflifecycle.NewSource(events)
			if err := src.Start(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", g.dir)
			for e := range src.Events() {
				if err := cat.Load(ctx); err != nil {
					g.logger.Error("reload failed", "event", fmt.Sprint(e), "error", err)
					continue
				}
				st := cat.State().(core.CatalogState)
				fmt.Fprintf(out, "%v: %d books (%d borrowed), %d users\n", e, st.Books, st.Borrowed, st.Users)
				for _, issue := range cat.Check() {
					fmt.Fprintf(out, "  ! %s\n", issue)
				}
			}
			return nil
		},
	}
}
