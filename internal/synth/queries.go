package synth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
	log "github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"

	"recipe_chatbot/internal/ai"
	"recipe_chatbot/internal/ai/prompts"
	"recipe_chatbot/internal/types"
)

// QuerySynthesizer asks the model for noisy user queries, one request per tuple.
type QuerySynthesizer struct {
	Generator       *ai.Generator
	QueriesPerTuple int       // <= 0 means DefaultQueriesPerTuple
	MaxWorkers      int       // <= 0 means DefaultParallelism
	Progress        io.Writer // progress bar output; nil hides it
	Logger          log.FieldLogger
}

// TupleQueries is the outcome of one per-tuple request. Index points into the
// tuple slice handed to Generate.
type TupleQueries struct {
	Index   int
	Queries types.Result[[]string]
}

// Generate returns the numbered queries of every tuple whose request succeeded.
func (s *QuerySynthesizer) Generate(ctx context.Context, tuples []types.DimensionTuple) []types.QueryWithDimensions {
	return AssignIDs(s.Collect(ctx, tuples), tuples, loggerOrStd(s.Logger))
}

// Collect runs the per-tuple requests on a bounded pool and returns their
// outcomes in completion order. It never fails as a whole.
func (s *QuerySynthesizer) Collect(ctx context.Context, tuples []types.DimensionTuple) []TupleQueries {
	logger := loggerOrStd(s.Logger)
	logger.Infof("Generating %d queries each for %d dimension tuples...", orDefault(s.QueriesPerTuple, DefaultQueriesPerTuple), len(tuples))

	bar := newProgressBar(s.Progress, len(tuples), "Generating Queries")
	defer bar.Close()

	p := pool.NewWithResults[TupleQueries]().WithMaxGoroutines(orDefault(s.MaxWorkers, DefaultParallelism))
	for i, tuple := range tuples {
		p.Go(func() TupleQueries {
			defer bar.Add(1)
			return TupleQueries{Index: i, Queries: s.queriesForTuple(ctx, tuple)}
		})
	}
	return p.Wait()
}

func (s *QuerySynthesizer) queriesForTuple(ctx context.Context, tuple types.DimensionTuple) types.Result[[]string] {
	tupleJSON, err := json.MarshalIndent(tuple, "", "  ")
	if err != nil {
		return types.Fail[[]string](fmt.Errorf("failed to encode tuple: %w", err))
	}
	messages := []types.Message{{
		Role:    types.RoleUser,
		Content: prompts.GetQueriesForTuplePrompt(orDefault(s.QueriesPerTuple, DefaultQueriesPerTuple), string(tupleJSON)),
	}}

	res := ai.TryStructured[types.QueriesList](ctx, s.Generator, messages)
	if !res.OK() {
		return types.Fail[[]string](res.Err)
	}
	return types.Ok(res.Value.Queries)
}

// AssignIDs numbers the queries of successful results in the order given,
// starting at SYN001. It must run after every worker has finished.
func AssignIDs(results []TupleQueries, tuples []types.DimensionTuple, logger log.FieldLogger) []types.QueryWithDimensions {
	logger = loggerOrStd(logger)

	var all []types.QueryWithDimensions
	next := 1
	for _, r := range results {
		if !r.Queries.OK() {
			logger.WithField("tuple", r.Index+1).WithError(r.Queries.Err).Warn("Tuple generated an exception, skipping")
			continue
		}
		for _, q := range r.Queries.Value {
			all = append(all, types.NewQueryWithDimensions(FormatQueryID(next), q, tuples[r.Index]))
			next++
		}
	}
	return all
}

// FormatQueryID renders the n-th query ID.
func FormatQueryID(n int) string {
	return fmt.Sprintf("SYN%03d", n)
}

func newProgressBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	if w == nil {
		w = io.Discard
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
	)
}
