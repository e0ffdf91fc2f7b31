package synth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	openai "github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe_chatbot/internal/ai"
	"recipe_chatbot/internal/ai/aitest"
	"recipe_chatbot/internal/types"
)

var (
	occasions = []string{"weeknight", "brunch", "summer picnic", "dinner party", "breakfast", "dessert"}
	authors   = []string{"Hetty McKinnon", "Yotam Ottolenghi", "Eric Kim"}
	methods   = []string{"roasting", "grilling", "sautéing", "slow cooking", "no bake", "no cook"}
	pantry    = []string{"tofu", "kimchi", "barley", "eggplant", "chocolate", "lentils", "spinach"}
)

func quietLogger() log.FieldLogger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}

func testGenerator(fake *aitest.FakeCompleter) *ai.Generator {
	return ai.NewGenerator(fake, "gpt-4o-mini", ai.WithRetry(3, 0))
}

// randomBatches draws n batches of k tuples from a small value space so that
// duplicates within and across batches are common.
func randomBatches(seed int64, n, k int) [][]types.DimensionTuple {
	faker := gofakeit.New(seed)
	batches := make([][]types.DimensionTuple, n)
	for i := range batches {
		for j := 0; j < k; j++ {
			batches[i] = append(batches[i], types.DimensionTuple{
				Occasion:      faker.RandomString(occasions[:2]),
				AuthorStyle:   faker.RandomString(authors),
				Ingredients:   []string{faker.RandomString(pantry[:3])},
				CookingMethod: faker.RandomString(methods[:2]),
			})
		}
	}
	return batches
}

func canonicalSet(tuples []types.DimensionTuple) []string {
	keys := make([]string, 0, len(tuples))
	for _, tuple := range tuples {
		keys = append(keys, tuple.Canonical())
	}
	sort.Strings(keys)
	return keys
}

func TestMergeUniqueKeepsFirstSeenOrder(t *testing.T) {
	a := types.DimensionTuple{Occasion: "brunch", AuthorStyle: "Eric Kim", Ingredients: []string{"kimchi", "rice"}, CookingMethod: "sautéing"}
	b := types.DimensionTuple{Occasion: "dessert", AuthorStyle: "Yotam Ottolenghi", Ingredients: []string{"chocolate"}, CookingMethod: "no bake"}
	reordered := types.DimensionTuple{Occasion: "brunch", AuthorStyle: "Eric Kim", Ingredients: []string{"rice", "kimchi"}, CookingMethod: "sautéing"}

	got := MergeUnique([]types.DimensionTuple{a, b}, []types.DimensionTuple{b, reordered, a})

	assert.Equal(t, []types.DimensionTuple{a, b, reordered}, got, "ingredient order is part of tuple identity")
}

func TestMergeUniqueIsIdempotentAndOrderIndependent(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			batches := randomBatches(seed, 5, 20)
			merged := MergeUnique(batches...)

			assert.Equal(t, merged, MergeUnique(merged), "merging an already unique set changes nothing")

			var flat []types.DimensionTuple
			for _, batch := range batches {
				flat = append(flat, batch...)
			}
			gofakeit.New(seed).ShuffleAnySlice(flat)
			assert.Equal(t, canonicalSet(merged), canonicalSet(MergeUnique(flat)))
		})
	}
}

func TestMergeUniqueSizeBounds(t *testing.T) {
	const n, k = 5, 20
	for seed := int64(1); seed <= 20; seed++ {
		batches := randomBatches(seed, n, k)
		merged := MergeUnique(batches...)

		maxSingle := 0
		for _, batch := range batches {
			if size := len(MergeUnique(batch)); size > maxSingle {
				maxSingle = size
			}
		}
		assert.LessOrEqual(t, len(merged), n*k)
		assert.GreaterOrEqual(t, len(merged), maxSingle)
	}
}

func TestDimensionGeneratorMergesSuccessfulRequests(t *testing.T) {
	shared := types.DimensionTuple{Occasion: "weeknight", AuthorStyle: "Hetty McKinnon", Ingredients: []string{"tofu"}, CookingMethod: "roasting"}
	fake := &aitest.FakeCompleter{Respond: func(n int, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		own := types.DimensionTuple{Occasion: fmt.Sprintf("occasion-%d", n), AuthorStyle: "Eric Kim", Ingredients: []string{"kimchi"}, CookingMethod: "grilling"}
		return aitest.JSONReply(types.DimensionTuplesList{Tuples: []types.DimensionTuple{shared, own}}), nil
	}}
	gen := &DimensionGenerator{Generator: testGenerator(fake), Requests: 5, BatchSize: 2, Logger: quietLogger()}

	got := gen.Generate(context.Background())

	assert.Len(t, got, 6, "one shared tuple plus one own tuple per request")
	assert.Equal(t, 5, fake.Calls())
	assert.Contains(t, aitest.LastUserContent(fake.Requests()[0]), "Generate 2 unique dimension tuples")
}

func TestDimensionGeneratorToleratesFailedRequest(t *testing.T) {
	fake := &aitest.FakeCompleter{Respond: func(n int, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		if n == 1 {
			return openai.ChatCompletionResponse{}, errors.New("provider hiccup")
		}
		return aitest.JSONReply(types.DimensionTuplesList{Tuples: []types.DimensionTuple{
			{Occasion: fmt.Sprintf("occasion-%d", n), AuthorStyle: "Eric Kim", Ingredients: []string{"rice"}, CookingMethod: "no cook"},
		}}), nil
	}}
	// A single attempt per request makes exactly one request fail.
	gen := &DimensionGenerator{
		Generator: ai.NewGenerator(fake, "gpt-4o-mini", ai.WithRetry(1, 0)),
		Requests:  5,
		BatchSize: 1,
		Logger:    quietLogger(),
	}

	got := gen.Generate(context.Background())

	assert.Len(t, got, 4)
	assert.Equal(t, 5, fake.Calls())
}

func TestDimensionGeneratorAllRequestsFail(t *testing.T) {
	fake := &aitest.FakeCompleter{Respond: func(int, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		return openai.ChatCompletionResponse{}, errors.New("provider down")
	}}
	gen := &DimensionGenerator{Generator: testGenerator(fake), Requests: 5, BatchSize: 20, Logger: quietLogger()}

	got := gen.Generate(context.Background())

	require.Empty(t, got)
	assert.Equal(t, 15, fake.Calls(), "every request spends its full retry budget")
}

func TestDimensionGeneratorUnsetSizesUseDefaults(t *testing.T) {
	fake := &aitest.FakeCompleter{Respond: func(n int, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		return aitest.JSONReply(types.DimensionTuplesList{Tuples: []types.DimensionTuple{
			{Occasion: fmt.Sprintf("occasion-%d", n), AuthorStyle: "Eric Kim", Ingredients: []string{"barley"}, CookingMethod: "slow cooking"},
		}}), nil
	}}
	gen := &DimensionGenerator{Generator: testGenerator(fake), Logger: quietLogger()}

	var got []types.DimensionTuple
	require.NotPanics(t, func() { got = gen.Generate(context.Background()) })

	assert.Len(t, got, DefaultParallelism)
	assert.Equal(t, DefaultParallelism, fake.Calls())
	assert.Contains(t, aitest.LastUserContent(fake.Requests()[0]), fmt.Sprintf("Generate %d unique dimension tuples", DefaultBatchSize))
}
