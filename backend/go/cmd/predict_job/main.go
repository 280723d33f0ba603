package main

import (
	"KneeHeal/backend/go/internal/config"
	"KneeHeal/backend/go/internal/prediction_service/app"
	"KneeHeal/backend/go/pkg/logger"
	"context"
	"flag"
	"log"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.InitFromString(cfg.Logger.Level)
	appLogger := logger.New("predict_job", "", cfg.Firebase.UserID)

	ctx := context.Background()
	a, err := app.New(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	defer a.Close()

	if _, err := a.Service.RunOnce(ctx); err != nil {
		a.Close()
		appLogger.Fatal(err.Error())
	}
}
