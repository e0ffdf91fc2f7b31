package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"recipe_chatbot/api"
	"recipe_chatbot/config"
	"recipe_chatbot/internal/ai"
	handlers "recipe_chatbot/internal/api"
)

func main() {
	// .env must be loaded before viper reads the environment.
	config.LoadDotEnv()

	// --- Configuration Loading ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}
	config.SetupLogging(cfg.LogLevel)

	if cfg.OpenAIKey == "" {
		log.Warn("OPENAI_API_KEY is not set, chat requests will fail")
	}

	// --- Dependency Initialization ---
	aiGenerator := ai.NewGeneratorFromConfig(cfg)
	apiHandler := handlers.NewAPIHandler(aiGenerator)

	// --- Start API Server ---
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
		log.Info("Running in Gin Debug Mode")
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	api.RegisterRoutes(router, apiHandler, cfg.AllowedOrigins())

	server := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // recipe replies can take a while
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("model", aiGenerator.Model()).Infof("Starting API server on %s", cfg.ServerAddress)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("API server listen error: %s", err)
		}
		log.Info("API server has stopped listening.")
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Infof("Received signal: %s. Shutting down server...", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("API server forced shutdown error: %v", err)
	} else {
		log.Info("API server gracefully stopped.")
	}

	log.Info("Application exiting.")
}
