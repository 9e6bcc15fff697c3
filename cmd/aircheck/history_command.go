package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"aircheck/internal/history"
)

func newHistoryCommand(cctx *commandContext) *cobra.Command {
	var limit int
	var prune int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past recording runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if cmd.Flags().Changed("prune") {
				removed, err := store.Prune(ctx, prune)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Pruned %d finished runs\n", removed)
			}

			runs, err := store.List(ctx, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No recordings yet")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.Station,
					run.Status,
					run.StartedAt.Local().Format("2006-01-02 15:04"),
					formatRunDuration(run),
					formatRunSize(run),
					strconv.Itoa(run.Attempts),
					run.OutputPath,
				})
			}

			fmt.Fprintln(out, renderTable(
				[]string{"Station", "Status", "Started", "Duration", "Size", "Attempts", "Output"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 shows all)")
	cmd.Flags().IntVar(&prune, "prune", 0, "Delete finished runs beyond the newest N before listing")
	return cmd
}

func formatRunDuration(run history.Run) string {
	if run.Seconds <= 0 {
		return "-"
	}
	return (time.Duration(run.Seconds) * time.Second).String()
}

func formatRunSize(run history.Run) string {
	if run.Bytes <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f MiB", float64(run.Bytes)/(1024*1024))
}
