// Command genrecipes answers the first synthetic queries with the chat model
// and saves query/recipe pairs as CSV.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"recipe_chatbot/config"
	"recipe_chatbot/internal/ai"
	aiutils "recipe_chatbot/internal/ai/utils"
	"recipe_chatbot/internal/synth"
)

func main() {
	config.LoadDotEnv()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}
	config.SetupLogging(cfg.LogLevel)

	logger := log.WithField("run_id", uuid.NewString())

	if cfg.OpenAIKey == "" {
		logger.WithError(synth.ErrMissingCredential).Error("Cannot start recipe generation")
		os.Exit(1)
	}

	queries, err := aiutils.LoadCSVColumn(cfg.SyntheticQueriesPath, "query", cfg.RecipeQueryLimit)
	if err != nil {
		logger.WithError(err).Error("Cannot read synthetic queries")
		os.Exit(1)
	}
	logger.Infof("Loaded %d queries from %s", len(queries), cfg.SyntheticQueriesPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	generator := ai.NewGeneratorFromConfig(cfg)
	recipes := synth.GenerateRecipes(ctx, generator, queries, cfg.MaxWorkers, os.Stderr)

	if err := synth.SaveRecipesCSV(cfg.GeneratedRecipesPath, recipes); err != nil {
		logger.WithError(err).Error("Error saving recipes")
		os.Exit(1)
	}

	logger.WithFields(log.Fields{
		"queries": len(queries),
		"recipes": len(recipes),
		"path":    cfg.GeneratedRecipesPath,
		"elapsed": time.Since(start).Round(10 * time.Millisecond).String(),
	}).Info("Recipe generation completed")
}
