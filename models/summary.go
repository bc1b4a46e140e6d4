package models

// Macros is a calories/protein/carbs/fats quadruple.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

type MacroPercentages struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fats     int `json:"fats"`
}

// NutritionSummary is today's intake measured against the user's goals.
type NutritionSummary struct {
	Consumed    Macros           `json:"consumed"`
	Goals       Macros           `json:"goals"`
	Remaining   Macros           `json:"remaining"`
	Percentages MacroPercentages `json:"percentages"`
	MealCount   int              `json:"mealCount"`
	UserGoal    string           `json:"userGoal"`
}

// DailyTotals is the flat shape served by the daily-totals endpoint.
type DailyTotals struct {
	Calories  float64 `json:"calories"`
	Protein   float64 `json:"protein"`
	Carbs     float64 `json:"carbs"`
	Fats      float64 `json:"fats"`
	MealCount int     `json:"mealCount"`
}
