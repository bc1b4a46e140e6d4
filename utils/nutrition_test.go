package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateDailyNeeds(t *testing.T) {
	tests := []struct {
		name          string
		activityLevel string
		goal          string
		want          DailyNeeds
	}{
		{
			name:          "maintain moderate",
			activityLevel: "moderate",
			goal:          "maintain",
			want:          DailyNeeds{Calories: 2759, Protein: 80, Carbs: 310, Fats: 91},
		},
		{
			name:          "lose moderate",
			activityLevel: "moderate",
			goal:          "lose",
			want:          DailyNeeds{Calories: 2259, Protein: 96, Carbs: 225, Fats: 75},
		},
		{
			name:          "gain moderate",
			activityLevel: "moderate",
			goal:          "gain",
			want:          DailyNeeds{Calories: 3059, Protein: 144, Carbs: 344, Fats: 84},
		},
		{
			name:          "unknown goal falls back to maintain",
			activityLevel: "moderate",
			goal:          "bulk",
			want:          DailyNeeds{Calories: 2759, Protein: 80, Carbs: 310, Fats: 91},
		},
		{
			name:          "unknown activity uses sedentary multiplier",
			activityLevel: "couch",
			goal:          "maintain",
			want:          DailyNeeds{Calories: 2136, Protein: 80, Carbs: 240, Fats: 71},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateDailyNeeds(30, 180, 80, tt.activityLevel, tt.goal, "male")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBMR_GenderOffset(t *testing.T) {
	for _, tc := range []struct {
		age    int
		height float64
		weight float64
	}{
		{30, 180, 80},
		{45, 162.5, 61.2},
		{19, 150, 48},
	} {
		male := BMR(tc.age, tc.height, tc.weight, "male")
		female := BMR(tc.age, tc.height, tc.weight, "female")
		assert.InDelta(t, 166, male-female, 1e-9)
	}

	// anything that is not "female" is treated as male
	assert.Equal(t, BMR(30, 180, 80, "male"), BMR(30, 180, 80, ""))
}

func TestCalculateDailyNeeds_MacrosFollowCalories(t *testing.T) {
	for level := range ActivityMultipliers {
		for _, goal := range []string{"lose", "maintain", "gain"} {
			for _, gender := range []string{"male", "female"} {
				n := CalculateDailyNeeds(35, 170, 70, level, goal, gender)
				assert.Positive(t, n.Calories)
				assert.Positive(t, n.Protein)

				carbShare, fatShare := 0.45, 0.30
				switch goal {
				case "lose":
					carbShare = 0.40
				case "gain":
					fatShare = 0.25
				}
				assert.InDelta(t, float64(n.Calories)*carbShare/4, float64(n.Carbs), 1)
				assert.InDelta(t, float64(n.Calories)*fatShare/9, float64(n.Fats), 1)
			}
		}
	}
}
