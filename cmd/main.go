package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"pharmopera/internal/api"
	"pharmopera/internal/auth"
	"pharmopera/internal/config"
	"pharmopera/internal/detector"
	"pharmopera/internal/metrics"
	"pharmopera/internal/notify"
	"pharmopera/internal/registry"
	"pharmopera/internal/source"
)

func main() {
	// Init Metrics
	metrics.Init()

	// Load Configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Println("Configuration loaded")

	// Setup JWT Secret
	auth.SetSecret(cfg.Auth.JWTSecret)

	// Init record source
	src, err := source.NewPostgres(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to init record source: %v", err)
	}
	defer src.Close()
	log.Println("Record source connected")

	// Init RabbitMQ
	rabbitClient, err := notify.NewRabbitClient(cfg.RabbitMQ.URL)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer rabbitClient.Close()
	log.Println("RabbitMQ connected")

	// Subscription registry and broker relay
	reg := registry.New()
	relay := notify.NewRelay(rabbitClient, reg)

	// Change detector: poll, fingerprint, fan out refresh signals
	det := detector.New(
		src,
		cfg.Source.ReminderTab,
		reg,
		rabbitClient,
		cfg.PollInterval(),
		cfg.FetchTimeout(),
	)
	if err := det.Start(); err != nil {
		log.Fatalf("Failed to start change detector: %v", err)
	}

	// Init API
	apiHandler := api.NewAPI(src, relay, cfg)
	server := &http.Server{
		Addr:    ":8080",
		Handler: apiHandler.Router(),
	}

	// Graceful Shutdown Setup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Println("Starting API server on port 8080")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done() // Wait for interrupt signal
	log.Println("Shutdown initiated...")

	// Shutdown sequence
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Stop HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}

	// Stop the polling loop, then the broker relays
	det.Stop()
	relay.ShutdownAll()

	log.Println("Graceful shutdown complete")
}
