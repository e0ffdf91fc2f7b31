// Package synth generates synthetic evaluation data for the recipe bot:
// dimension tuples, noisy user queries seeded by them, and batch recipes.
package synth

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"

	"recipe_chatbot/internal/ai"
	"recipe_chatbot/internal/ai/prompts"
	"recipe_chatbot/internal/types"
)

var (
	// ErrEmptyResult is returned when there is nothing to persist.
	ErrEmptyResult = errors.New("no records to save")
	// ErrMissingCredential is returned when the pipeline has no API key.
	ErrMissingCredential = errors.New("OPENAI_API_KEY environment variable not set")
)

// Defaults applied when a generator or synthesizer is built without sizes.
const (
	DefaultParallelism     = 5
	DefaultBatchSize       = 20
	DefaultQueriesPerTuple = 5
)

// DimensionGenerator fans out identical tuple requests and merges their answers.
type DimensionGenerator struct {
	Generator *ai.Generator
	Requests  int // parallel sub-requests, also the pool size; <= 0 means DefaultParallelism
	BatchSize int // tuples asked for per sub-request; <= 0 means DefaultBatchSize
	Logger    log.FieldLogger
}

// Generate returns the unique tuples produced by all successful sub-requests.
// A failed sub-request is logged and contributes nothing.
func (d *DimensionGenerator) Generate(ctx context.Context) []types.DimensionTuple {
	logger := loggerOrStd(d.Logger)
	requests := orDefault(d.Requests, DefaultParallelism)
	messages := []types.Message{{Role: types.RoleUser, Content: prompts.GetDimensionTuplesPrompt(orDefault(d.BatchSize, DefaultBatchSize))}}

	logger.Infof("Generating dimension tuples with %d parallel requests...", requests)
	p := pool.NewWithResults[types.Result[types.DimensionTuplesList]]().WithMaxGoroutines(requests)
	for i := 0; i < requests; i++ {
		p.Go(func() types.Result[types.DimensionTuplesList] {
			return ai.TryStructured[types.DimensionTuplesList](ctx, d.Generator, messages)
		})
	}
	results := p.Wait()

	var batches [][]types.DimensionTuple
	total, failed := 0, 0
	for _, res := range results {
		if !res.OK() {
			failed++
			logger.WithError(res.Err).Warn("Dimension tuple request failed, skipping its tuples")
			continue
		}
		total += len(res.Value.Tuples)
		batches = append(batches, res.Value.Tuples)
	}

	unique := MergeUnique(batches...)
	logger.WithField("failed_requests", failed).
		Infof("Generated %d total tuples, %d unique", total, len(unique))
	return unique
}

// MergeUnique flattens batches in order and keeps the first occurrence of each
// tuple, comparing canonical JSON forms.
func MergeUnique(batches ...[]types.DimensionTuple) []types.DimensionTuple {
	seen := make(map[string]struct{})
	var unique []types.DimensionTuple
	for _, batch := range batches {
		for _, tuple := range batch {
			key := tuple.Canonical()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			unique = append(unique, tuple)
		}
	}
	return unique
}

// orDefault returns n, or def when n is not positive.
func orDefault(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}

func loggerOrStd(l log.FieldLogger) log.FieldLogger {
	if l == nil {
		return log.StandardLogger()
	}
	return l
}
