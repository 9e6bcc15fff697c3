package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"aircheck/internal/deps"
)

func newDepsCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check availability of external tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries(deps.Default(cfg.FFmpegBinary()))
			rows := make([][]string, 0, len(statuses))
			missing := false
			for _, status := range statuses {
				detail := status.Detail
				if status.Available {
					detail = status.Command
				} else if !status.Optional {
					missing = true
				}
				rows = append(rows, []string{
					status.Name,
					yesNo(status.Available),
					detail,
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Tool", "Available", "Detail"},
				rows,
				nil,
			))
			if missing {
				return errors.New("required tools are missing")
			}
			return nil
		},
	}
}
