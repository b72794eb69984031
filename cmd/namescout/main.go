package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/namescout/internal/analytics"
	"github.com/namescout/internal/availability"
	"github.com/namescout/internal/cache"
	"github.com/namescout/internal/config"
	"github.com/namescout/internal/generator"
	"github.com/namescout/internal/metrics"
	"github.com/namescout/internal/prescreen"
	"github.com/namescout/internal/ratelimit"
	"github.com/namescout/internal/registrar"
	"github.com/namescout/internal/suggest"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		logrus.Errorf("Invalid configuration: %v", err)
		os.Exit(1)
	}

	// Set log level
	level, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Errorf("Invalid log level: %v", err)
		os.Exit(1)
	}
	logrus.SetLevel(level)
	if cfg.App.Environment == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	if len(os.Args) < 2 {
		showHelp()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "suggest":
		if len(os.Args) < 3 {
			logrus.Error("Usage: namescout suggest <query>")
			os.Exit(1)
		}
		if err := runSuggest(context.Background(), cfg, os.Args[2]); err != nil {
			logrus.Errorf("Suggestion search failed: %v", err)
			os.Exit(1)
		}
	case "check":
		if len(os.Args) < 3 {
			logrus.Error("Usage: namescout check <domain> [domain...]")
			os.Exit(1)
		}
		if err := runCheck(context.Background(), cfg, os.Args[2:]); err != nil {
			logrus.Errorf("Availability check failed: %v", err)
			os.Exit(1)
		}
	case "health":
		if err := checkHealth(context.Background(), cfg); err != nil {
			logrus.Errorf("Health check failed: %v", err)
			os.Exit(1)
		}
	case "help":
		showHelp()
	default:
		logrus.Errorf("Unknown command: %s. Use 'help' for usage information.", os.Args[1])
		os.Exit(1)
	}
}

// buildService wires the suggestion service from configuration. The returned
// cleanup closes background resources and must be called before exit.
func buildService(cfg *config.Config) (*suggest.Service, func(), error) {
	if !cfg.HasRegistrarConfig() {
		logrus.Warn("No registrar credentials configured, availability checks will fail closed")
	}

	registrarClient := registrar.NewClient(&registrar.ClientConfig{
		BaseURL:   cfg.Registrar.BaseURL,
		APIKey:    cfg.Registrar.APIKey,
		APISecret: cfg.Registrar.APISecret,
		Timeout:   cfg.Registrar.Timeout,
	})

	breaker := availability.NewBreaker(cfg.Breaker.FailureThreshold, cfg.Breaker.Cooldown)
	availabilityCache := cache.NewTTL[registrar.Availability](cfg.Cache.AvailabilityTTL, cfg.Cache.SweepInterval)
	responseCache := cache.NewTTL[suggest.Result](cfg.Cache.ResponseTTL, cfg.Cache.SweepInterval)

	var prescreener availability.Prescreener
	if cfg.Prescreen.Enabled {
		prescreener = prescreen.NewClient(prescreen.Config{
			Timeout:     cfg.Prescreen.Timeout,
			Concurrency: cfg.Prescreen.Concurrency,
			RateLimit:   cfg.Prescreen.RateLimit,
		})
		logrus.Info("Web presence prescreen enabled")
	}

	promMetrics := metrics.New()

	prober := availability.NewProber(registrarClient, breaker, availabilityCache, prescreener)
	prober.SetMetrics(promMetrics)

	var orchestrator *suggest.Orchestrator
	if cfg.HasOpenAIConfig() {
		gen, err := generator.NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create candidate generator: %w", err)
		}
		orchestrator = suggest.NewOrchestrator(gen, prober, suggest.Options{
			TargetCount:      cfg.Suggest.TargetCount,
			MaxRounds:        cfg.Suggest.MaxRounds,
			MaxSuggestions:   cfg.Suggest.MaxSuggestions,
			BatchSize:        cfg.Suggest.BatchSize,
			DefaultExtension: cfg.Suggest.DefaultExtension,
			ExtensionBias:    cfg.Suggest.ExtensionBias,
			InterRoundDelay:  cfg.Suggest.RoundDelay,
			AcceptPremium:    cfg.Suggest.AcceptPremium,
			Salvage:          cfg.Suggest.Salvage,
		})
	}

	limiter := ratelimit.NewLimiter(cfg.Throttle.Limit, cfg.Throttle.Window)

	var sink *analytics.Sink
	var db *sqlx.DB
	if cfg.HasDatabaseConfig() {
		var err error
		db, err = connectToDatabase(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		sink = analytics.NewSink(analytics.NewRepository(db))
	} else {
		logrus.Debug("No database configured, search recording disabled")
	}

	service := suggest.NewService(orchestrator, prober, responseCache, limiter, sink, promMetrics)

	cleanup := func() {
		availabilityCache.Close()
		responseCache.Close()
		limiter.Close()
		if db != nil {
			db.Close()
		}
	}

	return service, cleanup, nil
}

// connectToDatabase connects to the PostgreSQL analytics database
func connectToDatabase(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	logrus.Info("Successfully connected to database")
	return db, nil
}

// runSuggest performs a single suggestion search and prints the result as JSON
func runSuggest(ctx context.Context, cfg *config.Config, query string) error {
	if !cfg.HasOpenAIConfig() {
		return fmt.Errorf("OPENAI_API_KEY is required for suggestion search")
	}

	service, cleanup, err := buildService(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	startTime := time.Now()
	result, err := service.Suggest(ctx, "cli", query)
	if err != nil {
		return err
	}

	logrus.Infof("Search completed in %v using %d rounds", time.Since(startTime), result.RoundsUsed)
	return printJSON(result)
}

// runCheck checks availability for the given domains and prints them as JSON
func runCheck(ctx context.Context, cfg *config.Config, domains []string) error {
	service, cleanup, err := buildService(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	results, err := service.Check(ctx, domains)
	if err != nil {
		return err
	}

	return printJSON(results)
}

// checkHealth verifies connectivity to the configured backends
func checkHealth(ctx context.Context, cfg *config.Config) error {
	logrus.Info("Performing health checks...")

	if cfg.HasRegistrarConfig() {
		client := registrar.NewClient(&registrar.ClientConfig{
			BaseURL:   cfg.Registrar.BaseURL,
			APIKey:    cfg.Registrar.APIKey,
			APISecret: cfg.Registrar.APISecret,
			Timeout:   cfg.Registrar.Timeout,
		})
		if err := client.IsHealthy(ctx); err != nil {
			return fmt.Errorf("registrar health check failed: %w", err)
		}
		logrus.Info("Registrar API reachable")
	} else {
		logrus.Warn("Registrar credentials not configured, skipping registrar check")
	}

	if !cfg.HasOpenAIConfig() {
		logrus.Warn("OpenAI credentials not configured, suggestion search will be unavailable")
	}

	if cfg.HasDatabaseConfig() {
		db, err := connectToDatabase(cfg)
		if err != nil {
			return fmt.Errorf("database health check failed: %w", err)
		}
		db.Close()
	}

	logrus.Info("All health checks passed")
	return nil
}

// printJSON writes v to stdout as indented JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// showHelp displays usage information
func showHelp() {
	fmt.Printf(`
NameScout - Domain Name Suggestion Service

Usage:
  namescout [command]

Commands:
  suggest <query>              Search for available domain names matching a query
  check <domain> [domain...]   Check availability for specific domains
  health                       Verify connectivity to configured backends
  help                         Show this help message

Environment Variables:
  REGISTRAR_API_KEY, REGISTRAR_API_SECRET, REGISTRAR_BASE_URL
  OPENAI_API_KEY, OPENAI_MODEL
  DB_HOST, DB_PORT, DB_NAME, DB_USER, DB_PASSWORD
  LOG_LEVEL, ENVIRONMENT

Examples:
  namescout suggest "an app that delivers dog treats"
  namescout check petly.com pawbox.io
  namescout health
`)
}
