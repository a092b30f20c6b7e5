package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newSeedCmd(app *App) *cobra.Command {
	var (
		players   int
		perPlayer int
		seed      uint64
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write a demo dataset for the current quarter into the store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if players < 1 || perPlayer < 1 {
				return errors.New("players and per-player must be positive")
			}
			store, err := app.Service.Store()
			if err != nil {
				return err
			}

			ds := DemoDataset(players, perPlayer, app.Now(), app.Location, seed)
			ctx := cmd.Context()
			if err := store.AddSessions(ctx, ds.Sessions...); err != nil {
				return fmt.Errorf("seed sessions: %w", err)
			}
			if err := store.AddTransactions(ctx, ds.Transactions...); err != nil {
				return fmt.Errorf("seed transactions: %w", err)
			}
			if err := store.AddProgress(ctx, ds.Progress...); err != nil {
				return fmt.Errorf("seed progress: %w", err)
			}

			_, _ = fmt.Fprintf(app.Out, "seeded %d players: %d transactions, %d progress rows, %d sessions\n",
				len(ds.Players), len(ds.Transactions), len(ds.Progress), len(ds.Sessions))
			return nil
		},
	}

	cmd.Flags().IntVar(&players, "players", 12, "Number of players")
	cmd.Flags().IntVar(&perPlayer, "per-player", 40, "Check-ins per player")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "Random seed")
	return cmd
}
