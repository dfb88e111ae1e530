package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agisilaos/gfare/internal/pricing"
)

func (a App) doctorCmd(g *globalFlags) *cobra.Command {
	var strict bool
	c := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, credentials and a live search",
		Long: `gfare doctor - Run preflight checks

CHECKS:
  - config path writability, base URL, branding file, logging
  - Amadeus credential presence and token cache state
  - one live search RGN -> BKK

BEHAVIOR:
  - default: warnings do not fail command
  - --strict: warnings are treated as failures`,
		Args: exactArgs(0, "gfare doctor [--strict]"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := a.bootstrap(g, false)
			if err != nil {
				return err
			}
			defer rt.close()

			report := runDoctorChecks(cmd.Context(), rt)
			if g.JSON {
				if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
					return wrapExitError(ExitGenericFailure, err)
				}
			} else {
				printDoctorReport(cmd.OutOrStdout(), report, newStatusStyler(cmd.OutOrStdout(), g.NoColor))
			}

			if report.Failures > 0 {
				return newExitError(ExitGenericFailure, "doctor found %d failing check(s)", report.Failures)
			}
			if strict && report.Warnings > 0 {
				return newExitError(ExitGenericFailure, "doctor strict mode found %d warning(s)", report.Warnings)
			}
			return nil
		},
	}
	c.Flags().BoolVar(&strict, "strict", false, "Treat warnings as failures")
	return c
}

func runDoctorChecks(ctx context.Context, rt *runtime) pricing.Report {
	report := rt.service.Diagnose(ctx)
	report.Checks = append(configReadinessChecks(rt.cfg), report.Checks...)
	report.Failures, report.Warnings = 0, 0
	for _, c := range report.Checks {
		switch c.Status {
		case pricing.CheckFail:
			report.Failures++
		case pricing.CheckWarn:
			report.Warnings++
		}
	}
	report.OK = report.Failures == 0
	return report
}

func printDoctorReport(w io.Writer, report pricing.Report, style statusStyler) {
	for _, c := range report.Checks {
		fmt.Fprintf(w, "%s\t%s\t%s\n", style.render(c.Status), c.Name, c.Message)
	}
	fmt.Fprintf(w, "summary\tfailures=%d\twarnings=%d\n", report.Failures, report.Warnings)
}
