package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yourusername/pitwall/internal/catalog"
	"github.com/yourusername/pitwall/internal/models"
	"github.com/yourusername/pitwall/internal/service"
	"github.com/yourusername/pitwall/internal/simulator"
)

func newHistoricalCmd() *cobra.Command {
	var (
		season       int
		gp           string
		session      string
		seed         int64
		recordedLaps bool
	)
	cmd := &cobra.Command{
		Use:   "historical",
		Short: "Replay a recorded session using actual results",
		RunE: func(cmd *cobra.Command, args []string) error {
			quietConsole()
			manager := newDataManager(catalog.Default())
			svc := service.NewHistoricalService(manager, simulator.ReconstructOptions{PreferRecordedLaps: recordedLaps}, appLog)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Loading historical data for %s GP %d - %s session\n", gp, season, session)
			replay, err := svc.Replay(cmd.Context(), season, gp, session, seed)
			if err != nil {
				return err
			}
			printReplay(out, replay)
			return nil
		},
	}
	cmd.Flags().IntVarP(&season, "season", "s", 0, "Season year (e.g. 2023)")
	cmd.Flags().StringVarP(&gp, "gp", "g", "", "Grand prix name (e.g. monaco, spa, monza)")
	cmd.Flags().StringVarP(&session, "session", "t", "race", "Session: race, qualifying, practice, fp1, fp2 or fp3")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed for retirement lap reconstruction")
	cmd.Flags().BoolVar(&recordedLaps, "recorded-laps", false, "Place retirements on the recorded lap count when available")
	_ = cmd.MarkFlagRequired("season")
	_ = cmd.MarkFlagRequired("gp")
	return cmd
}

func printReplay(out io.Writer, replay *service.Replay) {
	switch {
	case replay.Race != nil:
		race := replay.Race
		fmt.Fprintf(out, "\n%s - %s\n", race.Name, race.Date.Format("2006-01-02"))
		fmt.Fprintf(out, "%s, %s, %s\n", race.Circuit.Name, race.Circuit.City, race.Circuit.Country)
		if len(replay.Narrative) > 0 {
			fmt.Fprintln(out, "\nRace incidents:")
			for _, line := range replay.Narrative {
				fmt.Fprintln(out, "  "+line)
			}
		}
		fmt.Fprintln(out)
		fmt.Fprint(out, simulator.GenerateResultsReport("Final Results", race.Results, nil))
	case replay.Qualifying != nil:
		printQualifying(out, replay.Qualifying)
	default:
		fmt.Fprintf(out, "%d practice results\n", len(replay.Practice))
	}
}

func printQualifying(out io.Writer, q *models.QualifyingSession) {
	fmt.Fprintf(out, "\n%s - Qualifying\n", q.Name)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Pos\tDriver\tTeam\tQ1\tQ2\tQ3")
	for _, r := range q.Results {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", r.Position, r.Driver.Name, r.Driver.Team, orDash(r.Q1), orDash(r.Q2), orDash(r.Q3))
	}
	tw.Flush()
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
