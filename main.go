package main

import (
	"fmt"
	"os"
	"time"

	"crash-severity-prep/config"
	"crash-severity-prep/lookup"
	"crash-severity-prep/services"
	"crash-severity-prep/storage"
	"crash-severity-prep/utils"
)

func main() {
	cfg := config.Load()
	logger := utils.NewLoggerWithLevel(utils.ParseLevel(cfg.LogLevel))

	logger.Info("=== Crash severity dataset preparation starting ===")
	logger.Info("Config: raw dir %s | processed dir %s | test size %.2f | seed %d",
		cfg.RawDir, cfg.ProcessedDir, cfg.TestSize, cfg.SplitSeed)

	pipeline := services.NewPipeline(cfg, logger, lookup.Default())

	if cfg.PGExport {
		pgWriter, err := storage.NewPostgresWriter(cfg.DSN(), &utils.RetryConfig{
			MaxAttempts: cfg.PGMaxRetries,
			BaseDelay:   time.Second,
			MaxDelay:    10 * time.Second,
			Logger:      logger,
		})
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			os.Exit(1)
		}
		defer pgWriter.Close()
		pipeline.WithExporter(pgWriter)
	}

	summary, err := pipeline.Run()
	if err != nil {
		logger.Error("Pipeline failed: %v", err)
		os.Exit(1)
	}

	reports := services.NewReportService(logger)
	reports.Print(reports.Generate(summary))

	fmt.Printf("  Done. Splits → %s\n\n", cfg.ProcessedDir)
}
