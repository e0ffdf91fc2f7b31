package synth

import (
	"strconv"

	aiutils "recipe_chatbot/internal/ai/utils"
	"recipe_chatbot/internal/types"
)

// QueryColumns is the header of the synthetic queries file.
var QueryColumns = []string{"id", "query", "dimension_tuple_json", "is_realistic_and_kept", "notes_for_filtering"}

// RecipeColumns is the header of the generated recipes file.
var RecipeColumns = []string{"query", "recipe"}

// SaveQueriesCSV writes queries to path in one atomic step. With no queries it
// returns ErrEmptyResult and does not touch the filesystem.
func SaveQueriesCSV(path string, queries []types.QueryWithDimensions) error {
	if len(queries) == 0 {
		return ErrEmptyResult
	}

	rows := make([][]string, 0, len(queries))
	for _, q := range queries {
		rows = append(rows, []string{
			q.ID,
			q.Query,
			q.DimensionTuple.Canonical(),
			strconv.Itoa(q.IsRealisticAndKept),
			q.NotesForFiltering,
		})
	}
	return aiutils.WriteCSVAtomic(path, QueryColumns, rows)
}

// SaveRecipesCSV writes query/recipe pairs to path in one atomic step.
func SaveRecipesCSV(path string, recipes []types.RecipeResponse) error {
	if len(recipes) == 0 {
		return ErrEmptyResult
	}

	rows := make([][]string, 0, len(recipes))
	for _, r := range recipes {
		rows = append(rows, []string{r.Query, r.Recipe})
	}
	return aiutils.WriteCSVAtomic(path, RecipeColumns, rows)
}
