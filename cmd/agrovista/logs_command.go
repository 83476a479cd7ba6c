package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"agrovista/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent pipeline log output",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := ctx.logFilePath()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return logs.Tail(cmd.Context(), path, logs.TailOptions{Limit: lines, Follow: follow},
				func(line string) { fmt.Fprintln(out, line) })
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep watching for new lines")
	return cmd
}
