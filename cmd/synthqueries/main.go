// Command synthqueries generates dimension tuples, turns them into synthetic
// user queries and saves the result as CSV for manual review.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"recipe_chatbot/config"
	"recipe_chatbot/internal/ai"
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
		logger.WithError(synth.ErrMissingCredential).Error("Cannot start synthetic query generation")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	generator := ai.NewGeneratorFromConfig(cfg)

	dimensions := &synth.DimensionGenerator{
		Generator: generator,
		Requests:  cfg.DimensionRequests,
		BatchSize: cfg.NumTuplesToGenerate,
		Logger:    logger,
	}
	tuples := dimensions.Generate(ctx)
	if len(tuples) == 0 {
		logger.Error("Failed to generate dimension tuples")
		return
	}
	logger.Infof("Generated %d dimension tuples", len(tuples))

	synthesizer := &synth.QuerySynthesizer{
		Generator:       generator,
		QueriesPerTuple: cfg.NumQueriesPerTuple,
		MaxWorkers:      cfg.MaxWorkers,
		Progress:        os.Stderr,
		Logger:          logger,
	}
	queries := synthesizer.Generate(ctx, tuples)

	if err := synth.SaveQueriesCSV(cfg.SyntheticQueriesPath, queries); err != nil {
		if errors.Is(err, synth.ErrEmptyResult) {
			logger.WithError(err).Error("Failed to generate any queries")
			return
		}
		logger.WithError(err).Error("Error saving queries")
		os.Exit(1)
	}

	logger.WithFields(log.Fields{
		"tuples":  len(tuples),
		"queries": len(queries),
		"path":    cfg.SyntheticQueriesPath,
		"elapsed": time.Since(start).Round(10 * time.Millisecond).String(),
	}).Info("Query generation completed successfully")
}
