package models

// Meal is immutable once saved; it can only be deleted by id.
// Timestamp is a Unix time in milliseconds.
type Meal struct {
	ID          string   `bson:"id" json:"id"`
	UserID      string   `bson:"userId" json:"userId"`
	Timestamp   int64    `bson:"timestamp" json:"timestamp"`
	PhotoBase64 string   `bson:"photoBase64" json:"photoBase64"`
	PhotoURL    string   `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	DishName    string   `bson:"dishName" json:"dishName"`
	Ingredients []string `bson:"ingredients" json:"ingredients"`
	Calories    float64  `bson:"calories" json:"calories"`
	Protein     float64  `bson:"protein" json:"protein"`
	Carbs       float64  `bson:"carbs" json:"carbs"`
	Fats        float64  `bson:"fats" json:"fats"`
	PortionSize string   `bson:"portionSize" json:"portionSize"`
	Warnings    []string `bson:"warnings" json:"warnings"`
}

// Food categories for the portion classifier.
const (
	FoodTypeShareable = "shareable" // pizza, cake
	FoodTypeContainer = "container" // can, bottle, packaged snack
	FoodTypeSingle    = "single"    // plate, sandwich, bowl
)

// FoodAnalysis is what the vision model returns for one photo.
type FoodAnalysis struct {
	DishName           string   `json:"dishName"`
	Ingredients        []string `json:"ingredients"`
	Calories           float64  `json:"calories"`
	Protein            float64  `json:"protein"`
	Carbs              float64  `json:"carbs"`
	Fats               float64  `json:"fats"`
	PortionSize        string   `json:"portionSize"`
	Warnings           []string `json:"warnings"`
	FoodType           string   `json:"foodType"`
	TypicalServings    int      `json:"typicalServings"`
	TotalCalories      *float64 `json:"totalCalories,omitempty"`
	ServingDescription string   `json:"servingDescription,omitempty"`
}
