package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLayersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "layers",
		Short: "Show the loaded restriction layers",
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := ctx.loadLayers()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, layerTable(set))
			for _, warning := range set.Warnings() {
				fmt.Fprintf(out, "warning: %s\n", warning)
			}
			return nil
		},
	}
}
