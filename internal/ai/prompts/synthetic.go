package prompts

import "fmt"

// GetDimensionTuplesPrompt asks for count tuples drawn from the allowed values.
func GetDimensionTuplesPrompt(count int) string {
	prompt := `
		You are helping to generate synthetic queries for recipe generation. Recipes are meant to reflect
		the style of various NYTimes Cooking authors, and the queries should be realistic and diverse.

		Each dimension tuple contains an occasion, an author style, a list of ingredients and a cooking method.

		Important: Aim for an even distribution across all dimensions. For example:
		- Don't focus too heavily on quick recipes
		- Don't over-represent any particular cuisine
		- Vary the query styles naturally
		- Try to use interesting flavor and ingredient combinations suitable for the occasion

		[RECIPE OCCASION]
		- weeknight
		- brunch
		- summer picnic
		- dinner party
		- breakfast
		- dessert

		[AUTHOR STYLE]
		- Hetty McKinnon
		- Yotam Ottolenghi
		- Eric Kim

		[COOKING METHOD]
		- roasting
		- grilling
		- sautéing
		- slow cooking
		- no bake
		- no cook

		[INGREDIENTS]
		- Vegetables: sweet potato, Eggplant, Cabbage, Asparagus, Tomato, Zuchini, Spinach, kimchi
		- Grains: Rice, Quinoa, Barley, Oats, Pasta
		- Proteins: Chicken, Tofu, Lentils, Beans, Fish
		- Sweets: Chocolate, Ice Cream, Cake, Cookies, Brownies

		Examples:
		- summer vibes, make-ahead salad
		  {"occasion": "summer picnic", "author_style": "Hetty McKinnon", "ingredients": ["tomato", "zuchini", "spinach"], "cooking_method": "no cook"}
		- comforting stew, carb-heavy, slow cooking
		  {"occasion": "dinner party", "author_style": "Eric Kim", "ingredients": ["kimchi"], "cooking_method": "slow cooking"}
		- Yotam Ottolenghi, minimalist ingredients, brunch
		  {"occasion": "brunch", "author_style": "Yotam Ottolenghi", "ingredients": ["oats", "chocolate"], "cooking_method": "no bake"}

		Generate %d unique dimension tuples following these patterns. Remember to maintain balanced diversity across all dimensions.
	`

	return fmt.Sprintf(prompt, count)
}

// GetQueriesForTuplePrompt asks for count noisy user queries reflecting tupleJSON.
func GetQueriesForTuplePrompt(count int, tupleJSON string) string {
	prompt := `Generate %d different natural language queries for a recipe chatbot based on these characteristics:
%s

The queries should:
1. Sound like real users asking for recipe help
2. Naturally incorporate all the dimension values
3. Vary in style and detail level
4. Be realistic and practical
5. Include natural variations in typing style, such as:
   - Some queries in all lowercase
   - Some with random capitalization
   - Some with common typos
   - Some with missing punctuation
   - Some with extra spaces or missing spaces
   - Some with emojis or text speak

Examples of realistic query variations for a weeknight easy recipe:
- "Need a simple dinner that's ready in 20 minutes"
- "spinach and tofu for dinner"
- "NEED a Quick Vegan DINNER recipe"
- "summer picnic ideas, no cokking"
- "chocolate dessert ideas plz 🍫"

Generate %d unique queries that match the given dimensions, varying the text style naturally.`

	return fmt.Sprintf(prompt, count, tupleJSON, count)
}
