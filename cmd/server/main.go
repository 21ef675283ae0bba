package main

import (
	"log"

	"github.com/labstack/echo/v4"

	"github.com/NanamiNakano/apnoxide/internal/auth"
	"github.com/NanamiNakano/apnoxide/internal/config"
	"github.com/NanamiNakano/apnoxide/internal/db"
	"github.com/NanamiNakano/apnoxide/internal/migrations"
	"github.com/NanamiNakano/apnoxide/internal/queue"
	"github.com/NanamiNakano/apnoxide/internal/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := migrations.Up(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := db.Init(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	auth.InitSecurity(cfg.JWTSecret)

	if err := queue.InitQueue(cfg.RedisAddr); err != nil {
		log.Fatalf("Failed to initialize task queue: %v", err)
	}
	defer queue.Close()

	e := echo.New()
	routes.SetupRoutes(e.Group("/api"))

	e.Logger.Fatal(e.Start(cfg.HTTPAddr))
}
