package models

const (
	MealTypeLunch  = "lunch"
	MealTypeDinner = "dinner"
)

type SmartNotification struct {
	Message           string   `json:"message"`
	CaloriesConsumed  float64  `json:"caloriesConsumed"`
	CaloriesRemaining float64  `json:"caloriesRemaining"`
	ProteinConsumed   float64  `json:"proteinConsumed"`
	ProteinRemaining  float64  `json:"proteinRemaining"`
	SuggestedRecipes  []string `json:"suggestedRecipes"`
	HasIngredients    bool     `json:"hasIngredients"`
}
