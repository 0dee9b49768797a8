package main

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/pitwall/internal/catalog"
	"github.com/yourusername/pitwall/internal/models"
	"github.com/yourusername/pitwall/internal/service"
	"github.com/yourusername/pitwall/internal/simulator"
)

const lapReportTop = 5

type simulateOptions struct {
	season      int
	gp          string
	mode        string
	seed        int64
	reliability float64
	weather     float64
	noIncidents bool
	interactive bool
	lapDelay    time.Duration
	pauseEvery  int
}

func newSimulateCmd() *cobra.Command {
	opts := &simulateOptions{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate a custom race with adjustable parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, opts)
		},
	}
	cmd.Flags().IntVarP(&opts.season, "season", "s", 0, "Season year (informational)")
	cmd.Flags().StringVarP(&opts.gp, "gp", "g", "", "Grand prix name (e.g. monaco, spa, monza)")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", "Simulation mode: lap or quick")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "Random seed (0 uses the configured seed or the clock)")
	cmd.Flags().Float64VarP(&opts.reliability, "reliability", "r", 0, "Reliability factor, higher means fewer mechanical failures")
	cmd.Flags().Float64VarP(&opts.weather, "weather", "w", 0, "Weather factor, lower means wetter conditions")
	cmd.Flags().BoolVarP(&opts.noIncidents, "no-incidents", "n", false, "Disable random incidents")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "Show lap-by-lap updates")
	cmd.Flags().DurationVar(&opts.lapDelay, "lap-delay", -1, "Delay between laps in interactive mode")
	cmd.Flags().IntVar(&opts.pauseEvery, "pause-every", -1, "Wait for Enter every N laps in interactive mode (0 disables)")
	_ = cmd.MarkFlagRequired("gp")
	return cmd
}

func runSimulate(cmd *cobra.Command, opts *simulateOptions) error {
	quietConsole()
	cat := catalog.Default()
	sim, err := newSimulator(cat)
	if err != nil {
		return err
	}
	svc, err := service.NewSimulationService(sim, cat, cfg.Simulation, appLog)
	if err != nil {
		return err
	}

	params := svc.Parameters(nil)
	if opts.reliability > 0 {
		params.ReliabilityFactor = opts.reliability
	}
	if opts.weather > 0 {
		params.WeatherFactor = opts.weather
	}
	if opts.noIncidents {
		params.RandomIncidents = false
	}

	circuit, err := cat.LookupCircuit(opts.gp)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	printSimulationHeader(out, circuit, opts.season, params)

	var observe simulator.LapObserver
	if opts.interactive && opts.mode != string(simulator.ModeQuick) {
		delay := cfg.Simulation.LapDelay
		if opts.lapDelay >= 0 {
			delay = opts.lapDelay
		}
		pauseEvery := cfg.Simulation.PauseEvery
		if opts.pauseEvery >= 0 {
			pauseEvery = opts.pauseEvery
		}
		stdin := bufio.NewReader(cmd.InOrStdin())
		fmt.Fprintln(out, "\nPress Enter to start the race...")
		_, _ = stdin.ReadString('\n')
		observe = interactiveObserver(out, stdin, delay, pauseEvery)
	}

	outcome, err := svc.Simulate(cmd.Context(), service.SimulationRequest{
		GrandPrix:  opts.gp,
		Mode:       opts.mode,
		Seed:       opts.seed,
		Parameters: &params,
	}, observe)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprint(out, simulator.GenerateResultsReport("RACE RESULTS", outcome.Results, outcome.FastestLap))
	if len(outcome.Retirements) > 0 {
		fmt.Fprintln(out, "\nRetirements:")
		for _, line := range simulator.Narrate(outcome.Retirements) {
			fmt.Fprintln(out, "  "+line)
		}
	}
	return nil
}

func printSimulationHeader(out io.Writer, circuit models.Circuit, season int, params models.SimulationParameters) {
	if season > 0 {
		fmt.Fprintf(out, "Simulating %s %d\n", circuit.Name, season)
	} else {
		fmt.Fprintf(out, "Simulating %s\n", circuit.Name)
	}
	fmt.Fprintf(out, "%d laps, %.3f km\n", circuit.Laps, circuit.LengthKM)
	fmt.Fprintln(out, "Simulation parameters:")
	fmt.Fprintf(out, "  - Reliability factor: %.2f\n", params.ReliabilityFactor)
	fmt.Fprintf(out, "  - Weather factor: %.2f\n", params.WeatherFactor)
	fmt.Fprintf(out, "  - Random incidents: %v\n", params.RandomIncidents)
}

// interactiveObserver prints each lap, then either waits for Enter (every
// pauseEvery laps and on the penultimate lap) or sleeps for delay
func interactiveObserver(out io.Writer, in *bufio.Reader, delay time.Duration, pauseEvery int) simulator.LapObserver {
	return func(snap simulator.Snapshot) error {
		fmt.Fprintln(out)
		fmt.Fprint(out, simulator.GenerateLapReport(snap, lapReportTop))
		if snap.Lap >= snap.TotalLaps {
			return nil
		}
		if pauseEvery > 0 && (snap.Lap%pauseEvery == 0 || snap.Lap == snap.TotalLaps-1) {
			fmt.Fprintln(out, "\nPress Enter to continue...")
			if _, err := in.ReadString('\n'); err != nil && err != io.EOF {
				return err
			}
			return nil
		}
		if delay > 0 {
			time.Sleep(delay)
		}
		return nil
	}
}
