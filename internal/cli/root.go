// Package cli implements the spiderctl commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	service "github.com/okian/pitchside/internal/app"
	"github.com/okian/pitchside/internal/domain/pillar"
)

// App holds what the commands run against.
type App struct {
	Service  *service.Service
	Out      io.Writer
	Now      func() time.Time
	Location *time.Location
}

// NewRootCmd creates the top-level "spiderctl" command and registers all
// subcommands against app.
func NewRootCmd(app *App) *cobra.Command {
	if app.Now == nil {
		app.Now = time.Now
	}
	if app.Location == nil {
		app.Location = time.Local
	}

	root := &cobra.Command{
		Use:           "spiderctl",
		Short:         "Build, export and seed curriculum spider charts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(app.Out)

	root.AddCommand(
		newChartCmd(app),
		newPointsCmd(app),
		newExportCmd(app),
		newSeedCmd(app),
	)
	return root
}

func (a *App) printJSON(v any) error {
	enc := json.NewEncoder(a.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parsePillars accepts a comma-separated list or "all".
func parsePillars(list string) ([]pillar.Pillar, error) {
	if strings.EqualFold(strings.TrimSpace(list), "all") {
		return pillar.All, nil
	}
	var out []pillar.Pillar
	for _, name := range strings.Split(list, ",") {
		p, err := pillar.Parse(name)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty list", pillar.ErrUnknownPillar)
	}
	return out, nil
}
