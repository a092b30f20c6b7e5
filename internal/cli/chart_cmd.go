package cli

import (
	"github.com/spf13/cobra"

	"github.com/okian/pitchside/internal/domain/pillar"
)

func newChartCmd(app *App) *cobra.Command {
	var pillarName string

	cmd := &cobra.Command{
		Use:   "chart <player_id>",
		Short: "Print a player's spider chart for the current quarter as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pillar.Parse(pillarName)
			if err != nil {
				return err
			}
			chart, err := app.Service.BuildChart(cmd.Context(), args[0], p)
			if err != nil {
				return err
			}
			return app.printJSON(chart)
		},
	}

	cmd.Flags().StringVar(&pillarName, "pillar", pillar.Technical.String(), "Pillar: tactical, technical, physical or mental")
	return cmd
}

func newPointsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "points <player_id>",
		Short: "Print a player's active points for the current quarter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := app.Service.PointsSummary(cmd.Context(), args[0], app.Now())
			if err != nil {
				return err
			}
			return app.printJSON(sum)
		},
	}
}
