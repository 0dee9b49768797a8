package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/pitwall/internal/catalog"
	"github.com/yourusername/pitwall/internal/datasource"
)

func newListCmd() *cobra.Command {
	var season int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List locally stored race data and simulatable circuits",
		RunE: func(cmd *cobra.Command, args []string) error {
			quietConsole()
			cat := catalog.Default()
			manager := newDataManager(cat)
			out := cmd.OutOrStdout()

			listings, err := manager.ListAvailable(season)
			if err != nil {
				return err
			}
			if season > 0 {
				fmt.Fprintf(out, "Available race data for season %d:\n", season)
			} else {
				fmt.Fprintln(out, "Available race data:")
			}
			if len(listings) == 0 {
				fmt.Fprintln(out, "  none stored; run 'pitwall update' to fetch")
			}
			for _, l := range listings {
				fmt.Fprintf(out, "  %d: %s\n", l.Season, strings.Join(l.GrandsPrix, ", "))
			}

			fmt.Fprintln(out, "\nCircuits available for simulation:")
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, c := range cat.Circuits() {
				fmt.Fprintf(tw, "  %s\t%s\t%s\t%d laps\n", c.ID, c.Name, c.Country, c.Laps)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&season, "season", "s", 0, "Filter by season")
	return cmd
}

func newUpdateCmd() *cobra.Command {
	var (
		seasons  []int
		previous int
		all      bool
	)
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Fetch race data into the local store",
		RunE: func(cmd *cobra.Command, args []string) error {
			quietConsole()
			manager := newDataManager(catalog.Default())
			selected, err := datasource.ParseSeasons(seasons, previous, all, manager.CurrentSeason())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Updating race data for %d season(s)...\n", len(selected))
			report, err := manager.Update(cmd.Context(), selected)
			if report != nil {
				fmt.Fprintf(out, "Stored %d races, skipped %d, %d failures in %s\n",
					report.Races, report.Skipped, report.Failures, report.Duration.Round(time.Millisecond))
			}
			return err
		},
	}
	cmd.Flags().IntSliceVarP(&seasons, "seasons", "s", nil, "Specific seasons to fetch (e.g. 2010,2015,2020)")
	cmd.Flags().IntVarP(&previous, "previous", "p", datasource.DefaultPreviousSeasons, "Previous seasons to fetch in addition to the current one")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Fetch every season since 1950")
	return cmd
}
