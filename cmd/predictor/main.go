// Package main provides the sports predictor CLI.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/masterkanin/sports-predictor/internal/collectors"
	"github.com/masterkanin/sports-predictor/internal/config"
	"github.com/masterkanin/sports-predictor/internal/database"
	"github.com/masterkanin/sports-predictor/internal/health"
	applogger "github.com/masterkanin/sports-predictor/internal/logger"
	"github.com/masterkanin/sports-predictor/internal/metrics"
	"github.com/masterkanin/sports-predictor/internal/model"
	"github.com/masterkanin/sports-predictor/internal/models"
	"github.com/masterkanin/sports-predictor/internal/monitoring"
	"github.com/masterkanin/sports-predictor/internal/normalize"
	"github.com/masterkanin/sports-predictor/internal/pipeline"
	"github.com/masterkanin/sports-predictor/internal/repository"
	"github.com/masterkanin/sports-predictor/internal/scheduler"
	"github.com/masterkanin/sports-predictor/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	dateFlag   string
	paramsFile string

	logger       *logrus.Logger
	cfg          *config.Config
	db           *database.DB
	predictorSvc *service.PredictorService
	manager      *collectors.Manager
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	predictCmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Game date (YYYY-MM-DD, default today)")
	trackCmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Game date (YYYY-MM-DD, default yesterday)")
	collectCmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Game date (YYYY-MM-DD, default yesterday)")
	fitCmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Game date to fit from (YYYY-MM-DD, default yesterday)")
	fitCmd.Flags().StringVarP(&paramsFile, "output", "o", "normalization_params.json", "Path for fitted normalization parameters")
}

var rootCmd = &cobra.Command{
	Use:   "predictor",
	Short: "Multi-sport player prop prediction pipeline",
	Long:  `Collects player statistics, generates prop predictions with uncertainty estimates, and tracks prediction performance over time.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return setupDependencies(cmd.Context())
	},
}

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect settled results for a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := resolveDate(dateFlag, time.Now().UTC().AddDate(0, 0, -1))
		if err != nil {
			return err
		}
		return predictorSvc.RunDailyCollection(cmd.Context(), date)
	},
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Generate predictions for a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := resolveDate(dateFlag, time.Now().UTC())
		if err != nil {
			return err
		}

		results, err := predictorSvc.RunDailyPredictions(cmd.Context(), date)
		if err != nil {
			return err
		}
		for sport, predictions := range results {
			logger.WithFields(logrus.Fields{
				"sport":       sport,
				"predictions": len(predictions),
			}).Info("Predictions generated")
		}
		return nil
	},
}

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Track prediction performance for a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := resolveDate(dateFlag, time.Now().UTC().AddDate(0, 0, -1))
		if err != nil {
			return err
		}

		snapshots, err := predictorSvc.RunDailyTracking(cmd.Context(), date)
		if err != nil {
			return err
		}
		for _, snap := range snapshots {
			logger.WithFields(logrus.Fields{
				"sport":    snap.Sport,
				"mse":      snap.MSE,
				"accuracy": snap.Accuracy,
				"samples":  snap.SampleCount,
			}).Info("Performance tracked")
		}
		return nil
	},
}

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit normalization parameters from collected stats",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := resolveDate(dateFlag, time.Now().UTC().AddDate(0, 0, -1))
		if err != nil {
			return err
		}

		bundles := manager.CollectAll(cmd.Context(), date)
		data := make(map[models.Sport][]models.GameRecord, len(bundles))
		for sport, bundle := range bundles {
			data[sport] = bundle.PlayerStats
		}
		if len(data) == 0 {
			return fmt.Errorf("no stats collected for %s", date.Format("2006-01-02"))
		}

		normalizer := normalize.NewNormalizer(logger)
		normalizer.Fit(data)
		if err := normalizer.Save(paramsFile); err != nil {
			return err
		}
		logger.WithField("path", paramsFile).Info("Normalization parameters saved")
		return nil
	},
}

var automateCmd = &cobra.Command{
	Use:   "automate",
	Short: "Run the daily pipeline on a schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		// A typed nil *database.DB must not reach the pinger interface,
		// or the readiness check would dereference a nil pool.
		var pinger health.DatabasePinger
		if db != nil {
			pinger = db
		}
		healthServer := health.NewServer(cfg.App.Name, "", pinger, logger)
		healthServer.Start(ctx)

		metricsServer := metrics.NewServer(cfg.Metrics, logger)
		metricsServer.Start(ctx)

		sched := scheduler.NewScheduler(predictorSvc, logger)
		if err := sched.ScheduleAll(cfg.Collectors.Schedule); err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
		healthServer.SetReady(true)

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		logger.Info("Shutting down")
		healthServer.SetReady(false)
		sched.Stop()
		return nil
	},
}

func main() {
	rootCmd.AddCommand(collectCmd, predictCmd, trackCmd, fitCmd, automateCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
	if db != nil {
		db.Close()
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}
	return nil
}

func setupDependencies(ctx context.Context) error {
	logger = applogger.NewLogger(cfg.App.LogLevel)
	logger.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
		"commit":      GitCommit,
	}).Info("Sports predictor starting")

	var (
		predictionRepo  repository.PredictionRepository
		outcomeRepo     repository.OutcomeRepository
		performanceRepo repository.PerformanceRepository
	)
	var err error
	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		logger.WithError(err).Warn("Database unavailable, running without persistence")
	} else {
		predictionRepo = repository.NewPostgresPredictionRepository(db)
		outcomeRepo = repository.NewPostgresOutcomeRepository(db)
		performanceRepo = repository.NewPostgresPerformanceRepository(db)
	}

	factory := collectors.NewFactory(logger)
	manager = collectors.NewManager(factory.BuildAll(cfg.Collectors), logger)

	registry := model.NewRegistry()
	for _, source := range cfg.Collectors.Sources {
		if !source.Enabled {
			continue
		}
		sport := models.Sport(source.Sport)
		registry.RegisterPrimary(sport, model.NewServiceModel(&cfg.ModelService, "primary", logger))
		if cfg.ModelService.EnsembleSize > 0 {
			members := make([]model.Model, cfg.ModelService.EnsembleSize)
			for i := range members {
				members[i] = model.NewServiceModel(&cfg.ModelService, fmt.Sprintf("ensemble_%d", i), logger)
			}
			registry.RegisterEnsemble(sport, model.NewEnsemble(members...))
		}
	}

	p := pipeline.New(cfg, registry, logger)
	tracker := monitoring.NewTracker(cfg.Monitoring, logger)
	drift := monitoring.NewDriftDetector(cfg.Monitoring, logger)

	// Warm the tracker with persisted history so degradation checks work
	// across restarts.
	if performanceRepo != nil {
		since := time.Now().UTC().AddDate(0, 0, -cfg.Monitoring.TrailingWindowDays)
		for _, sport := range models.Sports {
			history, err := performanceRepo.GetHistory(ctx, sport, since)
			if err != nil {
				logger.WithError(err).WithField("sport", sport).
					Warn("Failed to load performance history")
				continue
			}
			tracker.LoadHistory(history)
		}
	}

	predictorSvc = service.NewPredictorService(
		manager, p, tracker, drift, predictionRepo, outcomeRepo, performanceRepo, logger)
	return nil
}

func resolveDate(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback.Truncate(24 * time.Hour), nil
	}
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return date, nil
}
