// Command survey runs a solar property survey over a region: it enumerates
// candidate addresses, enriches each with owner and solar data, and writes
// the CSV, interactive map, and summary report to the output directory.
//
// Configuration comes from environment variables (a .env file is loaded when
// present); the flags below override them for one-off runs.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/rooftopdata/solar-survey/internal/adapter/csvsink"
	"github.com/rooftopdata/solar-survey/internal/adapter/htmlmap"
	httpadapter "github.com/rooftopdata/solar-survey/internal/adapter/http"
	"github.com/rooftopdata/solar-survey/internal/adapter/imagery"
	kafkaadapter "github.com/rooftopdata/solar-survey/internal/adapter/kafka"
	"github.com/rooftopdata/solar-survey/internal/adapter/report"
	"github.com/rooftopdata/solar-survey/internal/adapter/solarapi"
	"github.com/rooftopdata/solar-survey/internal/collector"
	"github.com/rooftopdata/solar-survey/internal/config"
	"github.com/rooftopdata/solar-survey/internal/domain"
	"github.com/rooftopdata/solar-survey/internal/observability"
	"github.com/rooftopdata/solar-survey/internal/pipeline"
	"github.com/rooftopdata/solar-survey/internal/region"
)

func main() {
	_ = godotenv.Load()

	regionFlag := flag.String("region", "", "region to survey (overrides REGION)")
	maxFlag := flag.Int("max-properties", 0, "number of properties to survey (overrides MAX_PROPERTIES)")
	outputFlag := flag.String("output", "", "output directory (overrides OUTPUT_DIR)")
	apiKeyFlag := flag.String("api-key", "", "solar-data API key (overrides SOLAR_API_KEY)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *regionFlag != "" {
		cfg.Region = *regionFlag
	}
	if *maxFlag > 0 {
		cfg.MaxProperties = *maxFlag
	}
	if *outputFlag != "" {
		cfg.OutputDir = *outputFlag
	}
	if *apiKeyFlag != "" {
		cfg.SolarAPIKey = *apiKeyFlag
		cfg.SolarEnabled = true
	}

	runID := uuid.NewString()
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat).With("run_id", runID)
	metrics := observability.NewMetrics()

	if err := run(cfg, logger, metrics); err != nil {
		logger.Error("survey failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) error {
	catalog, err := loadCatalog(cfg)
	if err != nil {
		return fmt.Errorf("load region catalog: %w", err)
	}
	reg := catalog.Resolve(cfg.Region)
	logger.Info("surveying region", "region", reg.Name, "max_properties", cfg.MaxProperties)

	if err := os.MkdirAll(filepath.Join(cfg.OutputDir, "reports"), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	provider := buildProvider(cfg, reg, metrics, logger)

	var fetcher collector.ImageFetcher
	if cfg.ImageryEnabled {
		fetcher = imagery.NewClient(cfg.ImageryAPIKey, cfg.ImageryURL, cfg.ImageryTimeout, cfg.OutputDir, metrics, logger)
		logger.Info("aerial imagery enabled")
	} else {
		logger.Info("aerial imagery disabled")
	}

	col := collector.New(reg, cfg.MaxProperties, provider, fetcher, logger, metrics)

	csvPath := filepath.Join(cfg.OutputDir, "solar_properties.csv")
	csvWriter, err := csvsink.NewWriter(csvPath, logger)
	if err != nil {
		return err
	}
	mapPath := filepath.Join(cfg.OutputDir, "interactive_map.html")
	reportPath := filepath.Join(cfg.OutputDir, "reports", "survey_report.md")

	sinks := []pipeline.BatchSink{
		csvWriter,
		htmlmap.NewRenderer(mapPath, reg.Name, logger),
		report.NewWriter(reportPath, reg.Name, logger),
	}
	if cfg.KafkaEnabled() {
		sinks = append(sinks, kafkaadapter.NewPublisher(cfg, logger))
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic)
	}

	p := pipeline.New(col, pipeline.NewBuilder(1), sinks, logger, metrics, cfg.BatchSize)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var srv *httpadapter.Server
	if cfg.HTTPAddr != "" {
		srv = httpadapter.NewServer(cfg.HTTPAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	runErr := p.Run(ctx)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}
	if runErr != nil {
		return runErr
	}

	fmt.Printf("Survey complete: %d properties\n", p.Emitted())
	fmt.Printf("  CSV:    %s\n", csvPath)
	fmt.Printf("  Map:    %s\n", mapPath)
	fmt.Printf("  Report: %s\n", reportPath)
	return nil
}

func loadCatalog(cfg *config.Config) (*region.Catalog, error) {
	if cfg.RegionsFile != "" {
		return region.LoadCatalog(cfg.RegionsFile)
	}
	return region.DefaultCatalog()
}

// buildProvider picks the real solar-data client when a key is configured and
// the deterministic synthetic provider otherwise.
func buildProvider(cfg *config.Config, reg region.Region, metrics *observability.Metrics, logger *slog.Logger) domain.PropertyProvider {
	if !cfg.SolarEnabled {
		logger.Info("solar-data API disabled, using synthetic provider")
		return region.NewSyntheticProvider(reg)
	}
	client := solarapi.NewClient(cfg.SolarAPIKey, cfg.SolarAPIURL, cfg.SolarTimeout, metrics, logger)
	logger.Info("solar-data API enabled", "cache_size", cfg.SolarCacheSize, "timeout", cfg.SolarTimeout)
	return solarapi.NewCachedProvider(client, cfg.SolarCacheSize, metrics)
}
