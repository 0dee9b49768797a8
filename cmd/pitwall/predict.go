package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yourusername/pitwall/internal/catalog"
	"github.com/yourusername/pitwall/internal/repository"
	"github.com/yourusername/pitwall/internal/service"
	"github.com/yourusername/pitwall/internal/simulator"
)

type predictOptions struct {
	season  int
	gp      string
	runs    int
	workers int
	seed    int64
	mode    string
	persist bool
	csv     string
	html    string
	json    string
}

func newPredictCmd() *cobra.Command {
	opts := &predictOptions{}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Forecast a race by aggregating many simulation runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPredict(cmd, opts)
		},
	}
	cmd.Flags().IntVarP(&opts.season, "season", "s", 0, "Season year (defaults to the current season)")
	cmd.Flags().StringVarP(&opts.gp, "gp", "g", "", "Grand prix name (e.g. monaco, spa, monza)")
	cmd.Flags().IntVarP(&opts.runs, "runs", "r", 0, "Number of simulation runs (defaults to the configured runs)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Parallel workers (0 uses the configured value or all CPUs)")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "Base random seed (0 uses the configured seed or the clock)")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", "Simulation mode: lap or quick")
	cmd.Flags().BoolVar(&opts.persist, "persist", false, "Store the forecast in the database")
	cmd.Flags().StringVar(&opts.csv, "csv", "", "Write the forecast to a CSV file")
	cmd.Flags().StringVar(&opts.html, "html", "", "Write the forecast to an HTML report")
	cmd.Flags().StringVar(&opts.json, "json", "", "Write the forecast to a JSON file")
	_ = cmd.MarkFlagRequired("gp")
	return cmd
}

func runPredict(cmd *cobra.Command, opts *predictOptions) error {
	quietConsole()
	ctx := cmd.Context()
	cat := catalog.Default()
	sim, err := newSimulator(cat)
	if err != nil {
		return err
	}

	var repo repository.PredictionRepository
	if opts.persist {
		_, repos, closeDB, err := openRepositories(ctx)
		if err != nil {
			return err
		}
		defer closeDB()
		if repos == nil {
			return service.ErrPersistenceDisabled
		}
		repo = repos.Prediction
	}

	svc, err := service.NewPredictionService(sim, cat, repo, service.PredictionOptions{
		Defaults: cfg.Simulation,
		Season:   cfg.DataSource.CurrentSeason,
	}, appLog)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	outcome, err := svc.Predict(ctx, service.PredictionRequest{
		Season:    opts.season,
		GrandPrix: opts.gp,
		Runs:      opts.runs,
		Workers:   opts.workers,
		Seed:      opts.seed,
		Mode:      opts.mode,
		Persist:   opts.persist,
	}, progressPrinter())
	fmt.Fprintln(os.Stderr)
	if outcome == nil {
		return err
	}
	if err != nil {
		fmt.Fprintf(out, "Forecast incomplete: %v\n", err)
	}

	fmt.Fprint(out, simulator.GeneratePredictionReport(outcome.Result))
	if outcome.Stored {
		fmt.Fprintf(out, "\nStored prediction %s\n", outcome.Run.ID)
	}

	exports := []struct {
		path  string
		write func(*simulator.MonteCarloResult, string) error
	}{
		{opts.csv, simulator.GenerateCSVExport},
		{opts.html, simulator.GenerateHTMLReport},
		{opts.json, simulator.GenerateJSONExport},
	}
	for _, e := range exports {
		if e.path == "" {
			continue
		}
		if werr := e.write(outcome.Result, e.path); werr != nil {
			return werr
		}
		fmt.Fprintf(out, "Wrote %s\n", e.path)
	}
	return err
}

// progressPrinter reports every tenth of the requested runs on stderr
func progressPrinter() func(completed, total int) {
	return func(completed, total int) {
		step := total / 10
		if step == 0 {
			step = 1
		}
		if completed%step == 0 || completed == total {
			fmt.Fprintf(os.Stderr, "\rSimulating... %d/%d runs", completed, total)
		}
	}
}
