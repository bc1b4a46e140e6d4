package models

// Recipe is produced fresh per request and never persisted.
type Recipe struct {
	ID                       string   `json:"id"`
	Name                     string   `json:"name"`
	Description              string   `json:"description"`
	Ingredients              []string `json:"ingredients"`
	Instructions             []string `json:"instructions"`
	CookingTime              int      `json:"cookingTime"`
	Servings                 int      `json:"servings"`
	Calories                 float64  `json:"calories"`
	Protein                  float64  `json:"protein"`
	Carbs                    float64  `json:"carbs"`
	Fats                     float64  `json:"fats"`
	HealthierOption          *string  `json:"healthierOption,omitempty"`
	CountryOfOrigin          *string  `json:"countryOfOrigin,omitempty"`
	Cuisine                  *string  `json:"cuisine,omitempty"`
	RequiresExtraIngredients bool     `json:"requiresExtraIngredients"`
	ExtraIngredientsNeeded   []string `json:"extraIngredientsNeeded"`
}

// RankedRecipe is a search result annotated with how well it fits the
// user's pantry.
type RankedRecipe struct {
	Recipe
	MatchCount         int      `json:"matchCount"`
	TotalIngredients   int      `json:"totalIngredients"`
	MatchPercentage    int      `json:"matchPercentage"`
	MissingIngredients []string `json:"missingIngredients"`
}

// FoodItem is one row of an AI food/drink lookup.
type FoodItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	ServingSize string  `json:"serving_size"`
	ServingUnit string  `json:"serving_unit"`
	IsDrink     bool    `json:"is_drink"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fats        float64 `json:"fats"`
	Fiber       float64 `json:"fiber"`
	Sugar       float64 `json:"sugar"`
	Icon        string  `json:"icon"`
}
