package synth

import (
	"context"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"

	"recipe_chatbot/internal/types"
)

// RecipeGenerator is the single-query recipe call the batch depends on.
type RecipeGenerator interface {
	GenerateRecipe(ctx context.Context, query string) (string, error)
}

// GenerateRecipes answers every query on a bounded pool. Output keeps the
// input order; failed queries are logged and left out. workers <= 0 means
// DefaultParallelism.
func GenerateRecipes(ctx context.Context, gen RecipeGenerator, queries []string, workers int, progress io.Writer) []types.RecipeResponse {
	bar := newProgressBar(progress, len(queries), "Generating recipes")
	defer bar.Close()

	answers := make([]types.Result[string], len(queries))
	p := pool.New().WithMaxGoroutines(orDefault(workers, DefaultParallelism))
	for i, query := range queries {
		p.Go(func() {
			defer bar.Add(1)
			recipe, err := gen.GenerateRecipe(ctx, query)
			if err != nil {
				answers[i] = types.Fail[string](err)
				return
			}
			answers[i] = types.Ok(recipe)
		})
	}
	p.Wait()

	responses := make([]types.RecipeResponse, 0, len(queries))
	for i, answer := range answers {
		if !answer.OK() {
			log.WithField("query", queries[i]).WithError(answer.Err).Warn("Recipe generation failed, skipping query")
			continue
		}
		responses = append(responses, types.RecipeResponse{Query: queries[i], Recipe: answer.Value})
	}
	return responses
}
