package spoonacular

// Query holds the parameters of a findByIngredients search.
type Query struct {
	// Ingredients is a comma-separated ingredient list. Commas are sent
	// literally; the API treats them as separators.
	Ingredients  string
	Number       int
	Ranking      int
	IgnorePantry bool
}

// Match represents one recipe returned by findByIngredients.
type Match struct {
	ID                    int                `json:"id"`
	Title                 string             `json:"title"`
	Image                 string             `json:"image"`
	ImageType             string             `json:"imageType"`
	UsedIngredientCount   int                `json:"usedIngredientCount"`
	MissedIngredientCount int                `json:"missedIngredientCount"`
	Likes                 int                `json:"likes"`
	UsedIngredients       []IngredientDetail `json:"usedIngredients"`
	MissedIngredients     []IngredientDetail `json:"missedIngredients"`
	UnusedIngredients     []IngredientDetail `json:"unusedIngredients"`
}

// IngredientDetail represents an ingredient entry inside a Match.
type IngredientDetail struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Unit     string  `json:"unit"`
	Aisle    string  `json:"aisle"`
	Original string  `json:"original"`
	Image    string  `json:"image"`
}
