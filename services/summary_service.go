package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"foodsnap/models"
	"foodsnap/store"
	"foodsnap/utils"
)

// Goal values used when a user has not set a profile yet.
var defaultGoals = models.Macros{Calories: 2000, Protein: 100, Carbs: 250, Fats: 65}

const defaultUserGoal = "maintain"

// SummaryService aggregates today's meals against the user's targets.
type SummaryService struct {
	users store.UserRepository
	meals store.MealRepository
	now   func() time.Time
}

func NewSummaryService(users store.UserRepository, meals store.MealRepository) *SummaryService {
	return &SummaryService{users: users, meals: meals, now: time.Now}
}

// TodayMeals returns the meals logged between local midnight and
// 23:59:59.999 today.
func (s *SummaryService) TodayMeals(ctx context.Context, userID string) ([]models.Meal, error) {
	from, to := utils.DayBoundsMillis(s.now())
	meals, err := s.meals.MealsBetween(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load today's meals: %w", err)
	}
	return meals, nil
}

func (s *SummaryService) DailyTotals(ctx context.Context, userID string) (models.DailyTotals, error) {
	meals, err := s.TodayMeals(ctx, userID)
	if err != nil {
		return models.DailyTotals{}, err
	}
	sum := SumMeals(meals)
	return models.DailyTotals{
		Calories:  sum.Calories,
		Protein:   sum.Protein,
		Carbs:     sum.Carbs,
		Fats:      sum.Fats,
		MealCount: len(meals),
	}, nil
}

// NutritionSummary compares today's intake with the user's goals. Users
// without goals, or unknown users, are measured against defaultGoals.
func (s *SummaryService) NutritionSummary(ctx context.Context, userID string) (*models.NutritionSummary, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("load user: %w", err)
	}
	meals, err := s.TodayMeals(ctx, userID)
	if err != nil {
		return nil, err
	}

	var goals *models.UserGoals
	if user != nil {
		goals = user.Goals
	}
	sum := Summarize(meals, goalMacros(goals), goalType(goals))
	return &sum, nil
}

func goalMacros(g *models.UserGoals) models.Macros {
	m := defaultGoals
	if g == nil {
		return m
	}
	if g.DailyCalories > 0 {
		m.Calories = float64(g.DailyCalories)
	}
	if g.DailyProtein > 0 {
		m.Protein = float64(g.DailyProtein)
	}
	if g.DailyCarbs > 0 {
		m.Carbs = float64(g.DailyCarbs)
	}
	if g.DailyFats > 0 {
		m.Fats = float64(g.DailyFats)
	}
	return m
}

func goalType(g *models.UserGoals) string {
	if g == nil || g.Goal == "" {
		return defaultUserGoal
	}
	return g.Goal
}

func SumMeals(meals []models.Meal) models.Macros {
	var m models.Macros
	for _, meal := range meals {
		m.Calories += meal.Calories
		m.Protein += meal.Protein
		m.Carbs += meal.Carbs
		m.Fats += meal.Fats
	}
	return m
}

// Summarize is the pure part of NutritionSummary.
func Summarize(meals []models.Meal, goals models.Macros, userGoal string) models.NutritionSummary {
	consumed := SumMeals(meals)
	return models.NutritionSummary{
		Consumed: consumed,
		Goals:    goals,
		Remaining: models.Macros{
			Calories: remaining(goals.Calories, consumed.Calories),
			Protein:  remaining(goals.Protein, consumed.Protein),
			Carbs:    remaining(goals.Carbs, consumed.Carbs),
			Fats:     remaining(goals.Fats, consumed.Fats),
		},
		Percentages: models.MacroPercentages{
			Calories: percentOf(consumed.Calories, goals.Calories),
			Protein:  percentOf(consumed.Protein, goals.Protein),
			Carbs:    percentOf(consumed.Carbs, goals.Carbs),
			Fats:     percentOf(consumed.Fats, goals.Fats),
		},
		MealCount: len(meals),
		UserGoal:  userGoal,
	}
}

func remaining(goal, consumed float64) float64 {
	return math.Max(0, goal-consumed)
}

// percentOf is consumed/goal as a whole percentage capped at 100. A zero
// goal yields 0.
func percentOf(consumed, goal float64) int {
	if goal <= 0 {
		return 0
	}
	return int(math.Min(100, math.Round(consumed/goal*100)))
}
