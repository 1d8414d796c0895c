package recipe

import "whattocook/internal/platform/spoonacular"

// Recipe represents a recipe suggestion shaped for display.
type Recipe struct {
	ID                int      `json:"id"`
	Name              string   `json:"name"`
	Image             string   `json:"image"`
	UsedIngredients   []string `json:"usedIngredients"`
	MissedIngredients []string `json:"missedIngredients"`
	UnusedIngredients []string `json:"unusedIngredients"`
}

// Transform maps API matches to recipes, one to one and in order.
// The result is never nil so it always encodes as a JSON array.
func Transform(matches []spoonacular.Match) []Recipe {
	recipes := make([]Recipe, 0, len(matches))
	for _, m := range matches {
		recipes = append(recipes, Recipe{
			ID:                m.ID,
			Name:              m.Title,
			Image:             m.Image,
			UsedIngredients:   names(m.UsedIngredients),
			MissedIngredients: names(m.MissedIngredients),
			UnusedIngredients: names(m.UnusedIngredients),
		})
	}
	return recipes
}

func names(details []spoonacular.IngredientDetail) []string {
	out := make([]string, 0, len(details))
	for _, d := range details {
		out = append(out, d.Name)
	}
	return out
}
