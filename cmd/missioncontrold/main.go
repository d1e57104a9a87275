// Command missioncontrold runs the mission control HTTP API: a
// single-operator daily-ops server wiring task/application/focus
// tracking, calendar ingestion, the priority kernel, the planner, and
// LLM-backed briefings and extraction behind one admission gate.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/bvquist1400/mission-control/pkg/api"
	"github.com/bvquist1400/mission-control/pkg/auth"
	"github.com/bvquist1400/mission-control/pkg/briefing"
	"github.com/bvquist1400/mission-control/pkg/cleanup"
	"github.com/bvquist1400/mission-control/pkg/config"
	"github.com/bvquist1400/mission-control/pkg/database"
	"github.com/bvquist1400/mission-control/pkg/extraction"
	"github.com/bvquist1400/mission-control/pkg/llmdispatch"
	"github.com/bvquist1400/mission-control/pkg/llmdispatch/providers/anthropic"
	"github.com/bvquist1400/mission-control/pkg/llmdispatch/providers/openai"
	"github.com/bvquist1400/mission-control/pkg/models"
	"github.com/bvquist1400/mission-control/pkg/planner"
	"github.com/bvquist1400/mission-control/pkg/services"
	"github.com/bvquist1400/mission-control/pkg/store"
	"github.com/bvquist1400/mission-control/pkg/version"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// buildProviders instantiates an adapter for every provider the
// registry knows about whose API key environment variable is set.
// A provider missing its key stays absent from the map; the
// dispatcher's fallback chain skips providers it never sees.
func buildProviders(cfg *config.Config) map[models.LLMProvider]llmdispatch.Provider {
	providers := make(map[models.LLMProvider]llmdispatch.Provider)
	for name, pc := range cfg.ProviderRegistry.GetAll() {
		apiKey := os.Getenv(pc.APIKeyEnv)
		if apiKey == "" {
			continue
		}
		switch name {
		case models.ProviderAnthropic:
			providers[name] = anthropic.New(apiKey)
		case models.ProviderOpenAI:
			providers[name] = openai.New(apiKey)
		}
	}
	return providers
}

func main() {
	configDir := flag.String("config-dir",
		getEnv("CONFIG_DIR", "./deploy/config"),
		"Path to configuration directory")
	flag.Parse()

	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		log.Printf("could not load %s: %v (continuing with existing environment)", envPath, err)
	} else {
		log.Printf("loaded environment from %s", envPath)
	}

	httpAddr := getEnv("HTTP_ADDR", ":8080")

	log.Printf("starting %s", version.Full())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Initialize(ctx, *configDir)
	if err != nil {
		log.Fatalf("failed to initialize configuration: %v", err)
	}

	dbCfg, err := database.LoadConfigFromEnv()
	if err != nil {
		log.Fatalf("failed to load database config: %v", err)
	}

	dbClient, err := database.NewClient(ctx, dbCfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer dbClient.Close()
	slog.Info("connected to database, migrations applied")

	db := store.New(dbClient.Pool)

	dispatcher := services.NewDispatcher(cfg, db, buildProviders(cfg))

	tasks := services.NewTaskService(db, cfg)
	applications := services.NewApplicationService(db)
	focus := services.NewFocusService(db)
	calendar := services.NewCalendarService(db, cfg)
	plannerSvc := planner.New(db, cfg)
	briefingSvc := briefing.New(db, cfg, dispatcher)
	extractionSvc := extraction.New(db, cfg, dispatcher)

	gate := auth.NewGate(cfg.Admission)

	server := api.NewServer(cfg, gate, db, tasks, applications, focus, calendar, plannerSvc, briefingSvc, extractionSvc)

	cleanupSvc := cleanup.NewService(db, cfg.Retention)
	cleanupSvc.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", httpAddr)
		if err := server.Start(httpAddr); err != nil {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Fatalf("HTTP server failed: %v", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	cleanupSvc.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("error during server shutdown", "error", err)
	}
}
