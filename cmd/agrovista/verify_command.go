package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"agrovista/internal/legal"
	"agrovista/internal/report"
	"agrovista/internal/services"
)

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "verify <parcel_id>",
		Short: "Check a parcel against legal restriction layers",
		Long: "Check a parcel boundary against the configured restriction layers\n" +
			"(water network setbacks, protected areas, indigenous reserves and\n" +
			"páramos). Exits 0 when compliant, 1 when non-compliant and 2 when\n" +
			"any layer was unavailable.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(func(engine *report.Engine) error {
				result, err := engine.VerifyParcel(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				printVerification(cmd.OutOrStdout(), result)

				if outPath != "" {
					if err := result.WriteJSON(outPath); err != nil {
						return services.Wrap(services.ErrRenderer, "cli", "write verification json", outPath, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Result written to %s\n", outPath)
				}

				switch {
				case result.LayersUnavailable():
					return &exitCodeError{code: services.ExitRenderer, reason: "one or more layers unavailable"}
				case !result.Compliance:
					return &exitCodeError{code: services.ExitNoData, reason: "parcel is non-compliant"}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "Write the full result as JSON to this path")
	return cmd
}

func printVerification(out io.Writer, result *legal.Result) {
	verdict := "COMPLIANT"
	if !result.Compliance {
		verdict = "NON-COMPLIANT"
	}
	fmt.Fprintf(out, "Parcel %s: %s\n", result.ParcelID, verdict)
	fmt.Fprintf(out, "Total area:      %.2f ha\n", result.TotalAreaHa)
	fmt.Fprintf(out, "Restricted area: %.2f ha\n", result.RestrictedHa)
	if result.Cultivable.Determinable {
		fmt.Fprintf(out, "Cultivable area: %.2f ha\n", result.Cultivable.ValueHa)
	} else {
		fmt.Fprintf(out, "Cultivable area: not determinable (%s)\n", result.Cultivable.Note)
	}

	if len(result.Findings) > 0 {
		fmt.Fprintln(out, findingTable(result.Findings))
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(out, "warning: %s\n", warning)
	}
}
