package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"foodsnap/models"
	"foodsnap/store"
	"foodsnap/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	suggestionCalorieFloor = 100
	maxPromptIngredients   = 20
	maxMessageSuggestions  = 2
)

var goalContexts = map[string]string{
	"lose":     "losing weight (needs lower calorie, high protein options)",
	"gain":     "building muscle (needs high protein, adequate calories)",
	"maintain": "maintaining weight (balanced nutrition)",
}

// NotificationService builds the lunch and dinner nudges.
type NotificationService struct {
	users       store.UserRepository
	meals       store.MealRepository
	ingredients store.IngredientRepository
	chat        ChatClient
	models      Models
	log         *zap.Logger
	now         func() time.Time
}

func NewNotificationService(users store.UserRepository, meals store.MealRepository, ingredients store.IngredientRepository, chat ChatClient, m Models, log *zap.Logger) *NotificationService {
	return &NotificationService{
		users:       users,
		meals:       meals,
		ingredients: ingredients,
		chat:        chat,
		models:      m,
		log:         log,
		now:         time.Now,
	}
}

type SmartNotificationInput struct {
	UserID   string `json:"userId"`
	MealType string `json:"mealType"`
	Language string `json:"language"`
}

// Smart composes a notification from today's intake, the user's goals and
// pantry. Suggestion failures only leave the suggestion list empty.
func (s *NotificationService) Smart(ctx context.Context, in SmartNotificationInput) (*models.SmartNotification, error) {
	var (
		user   *models.User
		meals  []models.Meal
		pantry []string
	)
	from, to := utils.DayBoundsMillis(s.now())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.users.GetUser(gctx, in.UserID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("load user: %w", err)
		}
		user = u
		return nil
	})
	g.Go(func() error {
		m, err := s.meals.MealsBetween(gctx, in.UserID, from, to)
		if err != nil {
			return fmt.Errorf("load today's meals: %w", err)
		}
		meals = m
		return nil
	})
	g.Go(func() error {
		doc, err := s.ingredients.GetIngredients(gctx, in.UserID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("load ingredients: %w", err)
		}
		if doc != nil {
			pantry = doc.Ingredients
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if user == nil || user.Goals == nil {
		return &models.SmartNotification{
			Message:           profilePrompt(in.Language),
			CaloriesConsumed:  0,
			CaloriesRemaining: 2000,
			ProteinConsumed:   0,
			ProteinRemaining:  100,
			SuggestedRecipes:  []string{},
			HasIngredients:    false,
		}, nil
	}

	goals := user.Goals
	dailyCalories := float64(goals.DailyCalories)
	if dailyCalories <= 0 {
		dailyCalories = defaultGoals.Calories
	}
	dailyProtein := float64(goals.DailyProtein)
	if dailyProtein <= 0 {
		dailyProtein = defaultGoals.Protein
	}

	consumed := SumMeals(meals)
	n := &models.SmartNotification{
		CaloriesConsumed:  consumed.Calories,
		CaloriesRemaining: remaining(dailyCalories, consumed.Calories),
		ProteinConsumed:   consumed.Protein,
		ProteinRemaining:  remaining(dailyProtein, consumed.Protein),
		SuggestedRecipes:  []string{},
		HasIngredients:    len(pantry) > 0,
	}

	if n.HasIngredients && n.CaloriesRemaining > suggestionCalorieFloor {
		n.SuggestedRecipes = s.suggest(ctx, in, goalType(goals), n, pantry)
	}
	n.Message = composeMessage(in.Language, in.MealType, dailyCalories, n)
	return n, nil
}

func profilePrompt(lang string) string {
	if lang == "es" {
		return "¡Completa tu perfil para recibir recomendaciones personalizadas!"
	}
	return "Complete your profile to get personalized recommendations!"
}

// suggest asks the light model for a few recipe names. Every failure is
// logged and yields an empty list.
func (s *NotificationService) suggest(ctx context.Context, in SmartNotificationInput, goal string, n *models.SmartNotification, pantry []string) []string {
	if s.chat.Ready() != nil {
		return []string{}
	}

	langLine := "Respond in English."
	if in.Language == "es" {
		langLine = "Respond in Spanish."
	}
	goalCtx, ok := goalContexts[goal]
	if !ok {
		goalCtx = "maintaining a balanced diet"
	}
	if len(pantry) > maxPromptIngredients {
		pantry = pantry[:maxPromptIngredients]
	}

	system := fmt.Sprintf(smartSuggestionPrompt, langLine, goalCtx,
		num(n.CaloriesRemaining), num(n.ProteinRemaining), in.MealType, strings.Join(pantry, ", "))
	reply, err := s.chat.Complete(ctx, ChatRequest{
		Op:     "smart-notification",
		Model:  s.models.Light,
		System: system,
		Text:   "Suggest recipes",
	})
	if err != nil {
		s.log.Error("error generating recipe suggestions", zap.Error(err))
		return []string{}
	}

	var names []string
	if err := json.Unmarshal([]byte(utils.StripCodeFence(reply)), &names); err != nil {
		s.log.Error("error parsing recipe suggestions", zap.Error(err), zap.String("reply", preview(reply)))
		return []string{}
	}
	if names == nil {
		return []string{}
	}
	return names
}

// composeMessage fills the lunch or dinner template. Anything that is not
// lunch is treated as dinner.
func composeMessage(lang, mealType string, dailyCalories float64, n *models.SmartNotification) string {
	left, protein, eaten := num(n.CaloriesRemaining), num(n.ProteinRemaining), num(n.CaloriesConsumed)

	var msg string
	if lang == "es" {
		switch {
		case mealType == models.MealTypeLunch && n.CaloriesRemaining > 500:
			msg = fmt.Sprintf("🍽️ ¡Hora del almuerzo! Hoy puedes consumir ~%s cal más.", left)
		case mealType == models.MealTypeLunch:
			msg = fmt.Sprintf("🥗 ¡Hora del almuerzo! Ya casi alcanzas tu meta. Te quedan %s cal.", left)
		case n.CaloriesConsumed == 0:
			msg = fmt.Sprintf("🌙 ¡Hora de cenar! Aún no registraste comidas hoy. Meta: %s cal.", num(dailyCalories))
		case n.CaloriesRemaining > 300:
			msg = fmt.Sprintf("🌙 Consumiste %s cal hoy. Te faltan %s cal y %sg de proteína.", eaten, left, protein)
		default:
			msg = fmt.Sprintf("🌙 ¡Casi completas tu meta! Te quedan solo %s cal. Opta por algo ligero.", left)
		}
		if len(n.SuggestedRecipes) > 0 {
			msg += " Con tus ingredientes podrías hacer: " + strings.Join(firstN(n.SuggestedRecipes, maxMessageSuggestions), ", ")
		}
		return msg
	}

	switch {
	case mealType == models.MealTypeLunch && n.CaloriesRemaining > 500:
		msg = fmt.Sprintf("🍽️ Lunch time! You can still have ~%s cal today.", left)
	case mealType == models.MealTypeLunch:
		msg = fmt.Sprintf("🥗 Lunch time! You're close to your goal. %s cal remaining.", left)
	case n.CaloriesConsumed == 0:
		msg = fmt.Sprintf("🌙 Dinner time! No meals logged today yet. Goal: %s cal.", num(dailyCalories))
	case n.CaloriesRemaining > 300:
		msg = fmt.Sprintf("🌙 You've had %s cal today. Still need %s cal and %sg protein.", eaten, left, protein)
	default:
		msg = fmt.Sprintf("🌙 Almost at your goal! Only %s cal left. Go for something light.", left)
	}
	if len(n.SuggestedRecipes) > 0 {
		msg += " With your ingredients you could make: " + strings.Join(firstN(n.SuggestedRecipes, maxMessageSuggestions), ", ")
	}
	return msg
}

// num prints a quantity with at most one decimal and no trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}

func firstN(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
