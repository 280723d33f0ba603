package main

import (
	"KneeHeal/backend/go/internal/config"
	"KneeHeal/backend/go/internal/prediction_service/api"
	"KneeHeal/backend/go/internal/prediction_service/app"
	"KneeHeal/backend/go/pkg/logger"
	"KneeHeal/backend/go/pkg/ratelimiter"
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

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
	appLogger := logger.New("prediction_service", "", cfg.Firebase.UserID)
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize dependencies (App -> Handler -> Router)
	a, err := app.New(context.Background(), cfg, appLogger)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	defer a.Close()

	handler := api.NewHandler(a.Service, cfg.Server.HistoryLimit)
	router := api.SetupRouter(handler, ratelimiter.FromConfig(cfg.Middleware.RateLimiter), appLogger)
	srv := &http.Server{Addr: cfg.Server.Address, Handler: router}

	go func() {
		appLogger.Info("Starting server on " + cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal(err.Error())
		}
	}()

	// Wait for termination signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.WithField("error", err.Error()).Error("server shutdown failed")
	}
	appLogger.Info("Prediction service stopped")
}
