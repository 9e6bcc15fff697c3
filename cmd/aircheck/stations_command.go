package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"aircheck/internal/config"
)

func newStationsCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stations",
		Short: "List configured stations and their destinations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			names := cfg.StationNames()
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No stations configured; run `aircheck config init` and add a [stations.<name>] section")
				return nil
			}

			rows := make([][]string, 0, len(names))
			for _, name := range names {
				station, _ := cfg.Station(name)
				rows = append(rows, []string{
					name,
					station.Stream,
					destinationSummary(station),
					yesNo(station.PodcastRefreshURL != ""),
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Station", "Stream", "Destinations", "Podcast"},
				rows,
				nil,
			))
			return nil
		},
	}
}

func destinationSummary(station config.Station) string {
	var parts []string
	if station.SaveDir != "" {
		parts = append(parts, "library")
	}
	if station.SaveFlatDir != "" {
		parts = append(parts, "flat")
	}
	if station.SFTP.Host != "" {
		parts = append(parts, "sftp")
	}
	if station.WebDAV.URL != "" {
		parts = append(parts, "webdav")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}
