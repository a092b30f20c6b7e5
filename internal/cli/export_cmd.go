package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/pitchside/internal/report"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		out     string
		pillars string
	)

	cmd := &cobra.Command{
		Use:   "export [player_id...]",
		Short: "Write team spider charts to an xlsx workbook",
		Long:  "Builds every listed player's charts (all players in the store when none are given) and writes one sheet per pillar.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ps, err := parsePillars(pillars)
			if err != nil {
				return err
			}
			players := args
			if len(players) == 0 {
				if players, err = app.Service.Players(cmd.Context()); err != nil {
					return fmt.Errorf("list players: %w", err)
				}
			}
			if len(players) == 0 {
				return errors.New("no players to export")
			}

			sheets := make([]report.Sheet, 0, len(ps))
			var failed error
			for _, p := range ps {
				charts, err := app.Service.TeamCharts(cmd.Context(), players, p)
				if err != nil {
					failed = errors.Join(failed, err)
				}
				sheets = append(sheets, report.Sheet{Pillar: p, Charts: charts})
			}
			if err := report.Save(out, sheets); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(app.Out, "wrote %d players x %d pillars to %s\n", len(players), len(ps), out)
			return failed
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "team.xlsx", "Output workbook path")
	cmd.Flags().StringVar(&pillars, "pillars", "all", "Comma-separated pillars, or all")
	return cmd
}
