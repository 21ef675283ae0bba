package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/NanamiNakano/apnoxide/internal/apns"
	"github.com/NanamiNakano/apnoxide/internal/config"
	"github.com/NanamiNakano/apnoxide/internal/db"
	"github.com/NanamiNakano/apnoxide/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := db.Init(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	signingKey, err := cfg.APNs.SigningKey()
	if err != nil {
		log.Fatalf("Failed to load APNs signing key: %v", err)
	}

	endpoint, err := cfg.APNs.Endpoint()
	if err != nil {
		log.Fatalf("Failed to resolve APNs endpoint: %v", err)
	}

	client, err := apns.NewClient(apns.Config{
		TeamID:     cfg.APNs.TeamID,
		KeyID:      cfg.APNs.KeyID,
		SigningKey: signingKey,
		Endpoint:   endpoint,
	})
	if err != nil {
		log.Fatalf("Failed to initialize APNs client: %v", err)
	}

	w := worker.NewWorker(cfg.RedisAddr, client, cfg.APNs.Topic)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := w.Start(ctx); err != nil {
		log.Fatalf("Failed to start worker: %v", err)
	}
}
