package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"agrovista/internal/report"
	"agrovista/internal/series"
	"agrovista/internal/services"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var months int
	var outPath string

	cmd := &cobra.Command{
		Use:   "report <parcel_id>",
		Short: "Generate the PDF monitoring report for a parcel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withEngine(func(engine *report.Engine) error {
				path, err := engine.GenerateReport(cmd.Context(), args[0], months, outPath)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&months, "months", 0, "Number of months to include (default from config)")
	cmd.Flags().StringVar(&outPath, "out", "", "Write the PDF to this path instead of the media directory")
	return cmd
}

func newVideoCommand(ctx *commandContext) *cobra.Command {
	var months int
	var indexName string
	var outPath string

	cmd := &cobra.Command{
		Use:   "video <parcel_id>",
		Short: "Render the timeline MP4 for one index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := series.ParseKind(indexName)
			if err != nil {
				return services.Wrap(services.ErrValidation, "cli", "video", "", err)
			}
			return ctx.withEngine(func(engine *report.Engine) error {
				path, err := engine.GenerateVideo(cmd.Context(), args[0], kind, months, outPath)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&months, "months", 0, "Number of months to include (default from config)")
	cmd.Flags().StringVar(&indexName, "index", "ndvi", "Index to render: ndvi, ndmi or savi")
	cmd.Flags().StringVar(&outPath, "out", "", "Write the MP4 to this path instead of the media directory")
	return cmd
}
