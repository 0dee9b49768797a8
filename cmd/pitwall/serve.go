package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/pitwall/internal/api"
	"github.com/yourusername/pitwall/internal/catalog"
	"github.com/yourusername/pitwall/internal/repository"
	"github.com/yourusername/pitwall/internal/scheduler"
	"github.com/yourusername/pitwall/internal/service"
	"github.com/yourusername/pitwall/internal/simulator"
)

func newServeCmd() *cobra.Command {
	var address string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, lap stream and scheduled data refresh",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if address != "" {
				cfg.Server.Address = address
			}
			appLog.WithFields(logrus.Fields{
				"environment": cfg.App.Environment,
				"version":     Version,
			}).Info("pitwall starting")

			cat := catalog.Default()
			sim, err := newSimulator(cat)
			if err != nil {
				return err
			}
			manager := newDataManager(cat)

			db, repos, closeDB, err := openRepositories(ctx)
			if err != nil {
				return err
			}
			defer closeDB()

			var predictionRepo repository.PredictionRepository
			var pinger api.DatabasePinger
			if repos != nil {
				predictionRepo = repos.Prediction
				pinger = db
			}

			sims, err := service.NewSimulationService(sim, cat, cfg.Simulation, appLog)
			if err != nil {
				return err
			}
			preds, err := service.NewPredictionService(sim, cat, predictionRepo, service.PredictionOptions{
				Defaults: cfg.Simulation,
				MaxRuns:  cfg.Server.MaxRuns,
				Season:   cfg.DataSource.CurrentSeason,
			}, appLog)
			if err != nil {
				return err
			}

			if cfg.Schedule.Enabled {
				sched := scheduler.NewScheduler(manager, appLog)
				if err := sched.ScheduleDataRefresh(cfg.Schedule.RefreshCron, cfg.Schedule.RefreshSeasons); err != nil {
					return err
				}
				if err := sched.Start(); err != nil {
					return err
				}
				defer func() {
					if err := sched.Stop(); err != nil {
						appLog.WithError(err).Warn("Scheduler did not stop cleanly")
					}
				}()
			}

			srv := api.NewServer(api.Config{
				ServiceName: cfg.App.Name,
				Version:     Version,
				Server:      cfg.Server,
				Metrics:     cfg.Metrics,
				LapDelay:    cfg.Simulation.LapDelay,
				Logger:      appLog,
				DB:          pinger,
				Simulations: sims,
				Predictions: preds,
				Historical:  service.NewHistoricalService(manager, simulator.ReconstructOptions{}, appLog),
			})
			return srv.Start(ctx)
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "Listen address (overrides server.address)")
	return cmd
}
