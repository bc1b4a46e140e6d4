package utils

import "strings"

// ActivityMultipliers maps activity levels to their TDEE factor.
var ActivityMultipliers = map[string]float64{
	"sedentary":   1.2,   // little or no exercise
	"light":       1.375, // 1-3 days/week
	"moderate":    1.55,  // 3-5 days/week
	"active":      1.725, // 6-7 days/week
	"very_active": 1.9,   // hard exercise and a physical job
}

const defaultActivityMultiplier = 1.2

// DailyNeeds are whole-number daily targets.
type DailyNeeds struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fats     int `json:"fats"`
}

// BMR is the Mifflin-St Jeor basal metabolic rate. Anything other than
// "female" uses the male constant.
func BMR(age int, heightCm, weightKg float64, gender string) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if strings.EqualFold(gender, "female") {
		return base - 161
	}
	return base + 5
}

// CalculateDailyNeeds turns profile inputs into calorie and macro targets.
// Unknown activity levels use the sedentary multiplier and unknown goals
// are treated as "maintain"; neither is an error.
func CalculateDailyNeeds(age int, heightCm, weightKg float64, activityLevel, goal, gender string) DailyNeeds {
	mult, ok := ActivityMultipliers[activityLevel]
	if !ok {
		mult = defaultActivityMultiplier
	}
	tdee := BMR(age, heightCm, weightKg, gender) * mult

	var n DailyNeeds
	switch goal {
	case "lose":
		n.Calories = int(tdee - 500)
		n.Protein = int(weightKg * 1.2)
		n.Carbs = int(float64(n.Calories) * 0.40 / 4)
		n.Fats = int(float64(n.Calories) * 0.30 / 9)
	case "gain":
		n.Calories = int(tdee + 300)
		n.Protein = int(weightKg * 1.8)
		n.Carbs = int(float64(n.Calories) * 0.45 / 4)
		n.Fats = int(float64(n.Calories) * 0.25 / 9)
	default:
		n.Calories = int(tdee)
		n.Protein = int(weightKg * 1.0)
		n.Carbs = int(float64(n.Calories) * 0.45 / 4)
		n.Fats = int(float64(n.Calories) * 0.30 / 9)
	}
	return n
}
