package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agisilaos/gfare/internal/pricing"
)

func (a App) searchCmd(g *globalFlags) *cobra.Command {
	var q pricing.Query
	c := &cobra.Command{
		Use:   "search",
		Short: "One-shot flight search",
		Example: `  gfare search --from RGN --to BKK --date 2026-05-10
  gfare search --from rgn --to bkk --date 2026-05-10 --from-label Yangon --to-label Bangkok --json`,
		Args: exactArgs(0, "gfare search --from CODE --to CODE --date YYYY-MM-DD"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := a.bootstrap(g, false)
			if err != nil {
				return err
			}
			defer rt.close()

			out := rt.service.Run(cmd.Context(), q)
			if g.JSON {
				if err := writeJSON(cmd.OutOrStdout(), out); err != nil {
					return wrapExitError(ExitGenericFailure, err)
				}
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), out.Response)
			}
			return searchExitError(out)
		},
	}
	f := c.Flags()
	f.StringVar(&q.Origin, "from", "", "Origin IATA code")
	f.StringVar(&q.Destination, "to", "", "Destination IATA code")
	f.StringVar(&q.Date, "date", "", "Departure date YYYY-MM-DD")
	f.StringVar(&q.OriginLabel, "from-label", "", "Origin display name")
	f.StringVar(&q.DestinationLabel, "to-label", "", "Destination display name")
	return c
}

// searchExitError maps an outcome to the process exit code. The response
// has already been printed.
func searchExitError(out pricing.Outcome) error {
	switch out.Status {
	case pricing.StatusOK:
		return nil
	case pricing.StatusNoFlights:
		return newExitError(ExitNoMatches, "no flights found")
	case pricing.StatusIncomplete, pricing.StatusInvalid:
		return wrapExitError(ExitInvalidUsage, out.Err)
	default:
		return wrapProviderError(out.Err)
	}
}
