// Package main provides the alembic codex uplink service.
//
// alembicd ingests observed item descriptors, classifies them into codex
// records (ingredients, processed ingredients, potions), deduplicates
// potions by fingerprint, and ships batched records to the configured codex
// endpoint and Kafka topic on a fixed flush cadence.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/alembic-io/alembic/internal/api"
	"github.com/alembic-io/alembic/internal/api/middleware"
	"github.com/alembic-io/alembic/internal/apikey"
	"github.com/alembic-io/alembic/internal/config"
	"github.com/alembic-io/alembic/internal/dedup"
	"github.com/alembic-io/alembic/internal/delivery"
	"github.com/alembic-io/alembic/internal/pipeline"
	"github.com/alembic-io/alembic/internal/queue"
)

// Version information.
const (
	version = "1.0.0-dev"
	name    = "alembicd"
)

func main() {
	versionFlag := flag.Bool("version", false, "show version information")
	configPath := flag.String("config", "", "path to delivery config file (overrides ALEMBIC_CONFIG_PATH)")
	flag.Parse()

	if *versionFlag {
		log.Printf("%s v%s\n", name, version)
		os.Exit(0)
	}

	serverConfig := api.LoadServerConfig()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: serverConfig.LogLevel,
	}))

	logger.Info("Starting alembic service",
		slog.String("service", name),
		slog.String("version", version),
	)

	logger.Info("Loaded server configuration",
		slog.String("host", serverConfig.Host),
		slog.Int("port", serverConfig.Port),
		slog.Duration("read_timeout", serverConfig.ReadTimeout),
		slog.Duration("write_timeout", serverConfig.WriteTimeout),
		slog.Duration("shutdown_timeout", serverConfig.ShutdownTimeout),
		slog.String("log_level", serverConfig.LogLevel.String()),
	)

	// Load delivery configuration (yaml file with env overrides)
	path := *configPath
	if path == "" {
		path = delivery.ConfigPath()
	}

	deliveryConfig := delivery.LoadConfig(path)

	if err := deliveryConfig.Validate(); err != nil {
		logger.Error("Invalid delivery configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Loaded delivery configuration",
		slog.Bool("endpoint_configured", deliveryConfig.EndpointConfigured()),
		slog.Bool("kafka_configured", deliveryConfig.KafkaConfigured()),
		slog.Duration("flush_interval", deliveryConfig.FlushInterval),
		slog.Duration("http_timeout", deliveryConfig.HTTPTimeout),
		slog.Int("posts_per_minute", deliveryConfig.PostsPerMinute),
	)

	// Load rate limiter configuration
	middlewareConfig := middleware.LoadConfig()

	// Create rate limiter instance (graceful shutdown handled by server.shutdown())
	rateLimiter := middleware.NewInMemoryRateLimiter(middlewareConfig)

	logger.Info("Rate limiter initialized",
		slog.Int("global_rps", middlewareConfig.GlobalRPS),
		slog.Int("client_rps", middlewareConfig.ClientRPS),
		slog.Int("unauth_rps", middlewareConfig.UnAuthRPS),
	)

	apiKeyStore := setupAuthentication(logger)

	// Wire the classification pipeline
	potionCache := dedup.NewPotionCache()
	deliveryQueue := queue.NewDeliveryQueue()

	pipe := pipeline.New(logger, potionCache, deliveryQueue, pipeline.Config{
		Workers:      config.GetEnvInt("ALEMBIC_PIPELINE_WORKERS", 0),
		SubmitBuffer: config.GetEnvInt("ALEMBIC_SUBMIT_BUFFER", 0),
	})

	// Wire delivery sinks; unconfigured constructors return nil and are
	// skipped by the flusher.
	httpSink := delivery.NewHTTPSink(deliveryConfig, nil, logger)
	kafkaSink := delivery.NewKafkaSink(deliveryConfig, logger)

	if kafkaSink != nil {
		defer func() {
			if err := kafkaSink.Close(); err != nil {
				logger.Error("Failed to close kafka sink", slog.String("error", err.Error()))
			}
		}()
	}

	flusher := delivery.NewFlusher(deliveryQueue, deliveryConfig.FlushInterval, logger, httpSink, kafkaSink)

	flushCtx, stopFlusher := context.WithCancel(context.Background())
	defer stopFlusher()

	go flusher.Run(flushCtx)

	server := api.NewServer(serverConfig, pipe, flusher, apiKeyStore, rateLimiter)

	if err := server.Start(); err != nil {
		logger.Error("Server failed to start",
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	logger.Info("alembic service stopped")
}

// setupAuthentication wires the in-memory API key store when auth is enabled.
// Returns nil when authentication is disabled, which disables the auth
// middleware entirely.
//
// The store is seeded from ALEMBIC_API_KEY; when auth is enabled without a
// seeded key, a fresh key is generated and printed once at startup so a
// single-node deployment can bootstrap without extra tooling.
func setupAuthentication(logger *slog.Logger) apikey.Store {
	if !config.GetEnvBool("ALEMBIC_AUTH_ENABLED", false) {
		logger.Warn("Client authentication disabled",
			slog.String("security", "Only use in trusted networks (localhost, VPN, internal)"),
			slog.String("note", "Set ALEMBIC_AUTH_ENABLED=true to enable API key authentication"),
		)

		return nil
	}

	store := apikey.NewInMemoryStore()
	clientID := config.GetEnvStr("ALEMBIC_CLIENT_ID", "default")

	key := config.GetEnvStr("ALEMBIC_API_KEY", "")
	if key == "" {
		generated, err := apikey.GenerateAPIKey(clientID)
		if err != nil {
			logger.Error("Failed to generate bootstrap API key", slog.String("error", err.Error()))
			os.Exit(1)
		}

		key = generated

		// Printed in full exactly once; the store only holds it in memory.
		log.Printf("generated bootstrap API key for client %q: %s", clientID, key)
	}

	if _, err := apikey.ParseAPIKey(key); err != nil {
		logger.Error("Invalid ALEMBIC_API_KEY", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := store.Add(&apikey.Key{
		ID:        "bootstrap",
		Key:       key,
		ClientID:  clientID,
		Name:      "bootstrap key",
		CreatedAt: time.Now(),
		Active:    true,
	}); err != nil {
		logger.Error("Failed to seed API key store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Client authentication enabled",
		slog.String("client_id", clientID),
		slog.String("key", apikey.MaskKey(key)),
	)

	return store
}
