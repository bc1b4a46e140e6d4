package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"foodsnap/models"
	"foodsnap/store"
	"foodsnap/utils"

	"go.uber.org/zap"
)

// FoodChecker is an optional gate run on a photo before the vision model.
type FoodChecker interface {
	LooksLikeFood(ctx context.Context, base64Img string) (bool, []string, error)
}

// FoodService talks to the vision model about food: whole-dish nutrition,
// pantry photos and free-text food lookups.
type FoodService struct {
	attempts store.AttemptRepository
	chat     ChatClient
	models   Models
	precheck FoodChecker
	log      *zap.Logger
	now      func() time.Time
}

func NewFoodService(attempts store.AttemptRepository, chat ChatClient, m Models, log *zap.Logger) *FoodService {
	return &FoodService{attempts: attempts, chat: chat, models: m, log: log, now: time.Now}
}

// WithPrecheck enables the label check before each analysis.
func (s *FoodService) WithPrecheck(fc FoodChecker) *FoodService {
	s.precheck = fc
	return s
}

type AnalyzeFoodInput struct {
	UserID      string `json:"userId" binding:"required"`
	ImageBase64 string `json:"imageBase64" binding:"required"`
	Language    string `json:"language"`
}

// noFoodPhrases mark replies where the model could not see any food.
var noFoodPhrases = []string{
	"no puedo identificar", "cannot identify", "can't identify",
	"no food", "no alimento", "not a food", "no es comida",
	"unable to", "no puedo ver", "can't see", "cannot see",
}

func mentionsNoFood(reply string) bool {
	lower := strings.ToLower(reply)
	for _, p := range noFoodPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func noFoodMessage(lang string) string {
	if lang == "en" {
		return "Could not identify food in the image. Please try again with a clearer photo."
	}
	return "No se pudo identificar comida en la imagen. Por favor, intenta con otra foto más clara."
}

func unreadablePhotoMessage(lang string) string {
	if lang == "en" {
		return "Could not analyze the image. Try another, clearer photo."
	}
	return "No se pudo analizar la imagen. Intenta con otra foto más clara."
}

// Analyze records an analysis attempt and asks the vision model to
// classify and estimate the dish. The attempt stays recorded whatever
// happens afterwards.
func (s *FoodService) Analyze(ctx context.Context, in AnalyzeFoodInput) (*models.FoodAnalysis, error) {
	lang := in.Language
	if lang == "" {
		lang = "en"
	}
	s.log.Info("analyzing food",
		zap.String("user_id", in.UserID),
		zap.String("language", lang),
		zap.Int("image_len", len(in.ImageBase64)),
	)

	attempt := models.AnalysisAttempt{UserID: in.UserID, Timestamp: s.now().UTC(), Type: models.AttemptFood}
	if err := s.attempts.InsertAttempt(ctx, attempt); err != nil {
		s.log.Error("failed to record analysis attempt", zap.String("user_id", in.UserID), zap.Error(err))
	}

	if err := s.chat.Ready(); err != nil {
		return nil, err
	}

	if s.precheck != nil {
		ok, labels, err := s.precheck.LooksLikeFood(ctx, in.ImageBase64)
		switch {
		case err != nil:
			s.log.Warn("food precheck skipped", zap.Error(err))
		case !ok:
			s.log.Info("precheck found no food", zap.Strings("labels", labels))
			return nil, ContentError(noFoodMessage(lang))
		}
	}

	reply, err := s.chat.Complete(ctx, ChatRequest{
		Op:          "analyze-food",
		Model:       s.models.Vision,
		System:      fmt.Sprintf(foodAnalysisPrompt, respondIn(lang, "Nombres de platos, ingredientes, advertencias", "Dish names, ingredients, warnings")),
		Text:        foodAnalysisUserText,
		ImageBase64: utils.StripDataURI(in.ImageBase64),
	})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(reply) == "" {
		s.log.Error("vision model returned an empty reply")
		return nil, ParseError("AI returned empty response", nil)
	}
	if mentionsNoFood(reply) {
		s.log.Warn("vision model could not identify food", zap.String("reply", preview(reply)))
		return nil, ContentError(noFoodMessage(lang))
	}

	var analysis models.FoodAnalysis
	if err := json.Unmarshal([]byte(utils.StripCodeFence(reply)), &analysis); err != nil {
		s.log.Error("failed to parse food analysis", zap.Error(err), zap.String("reply", preview(reply)))
		return nil, ParseError(unreadablePhotoMessage(lang), err)
	}
	normalizeAnalysis(&analysis)
	return &analysis, nil
}

// normalizeAnalysis enforces the field domains. It does not check that
// calories, totalCalories and typicalServings agree with each other.
func normalizeAnalysis(a *models.FoodAnalysis) {
	switch a.FoodType {
	case models.FoodTypeShareable, models.FoodTypeContainer, models.FoodTypeSingle:
	default:
		a.FoodType = models.FoodTypeSingle
	}
	if a.TypicalServings < 1 {
		a.TypicalServings = 1
	}
	for _, v := range []*float64{&a.Calories, &a.Protein, &a.Carbs, &a.Fats} {
		if *v < 0 {
			*v = 0
		}
	}
	if a.TotalCalories != nil && *a.TotalCalories < 0 {
		a.TotalCalories = nil
	}
	if a.Ingredients == nil {
		a.Ingredients = []string{}
	}
	if a.Warnings == nil {
		a.Warnings = []string{}
	}
}

type AnalyzeIngredientsInput struct {
	UserID           string   `json:"userId"`
	ImageBase64      string   `json:"imageBase64"`
	Ingredients      []string `json:"ingredients"`
	Language         string   `json:"language"`
	HealthConditions []string `json:"healthConditions"`
	FoodAllergies    []string `json:"foodAllergies"`
}

// IdentifyIngredients lists the ingredients visible in a pantry photo, or
// echoes a manual list when no photo is given.
func (s *FoodService) IdentifyIngredients(ctx context.Context, in AnalyzeIngredientsInput) ([]string, error) {
	if in.ImageBase64 == "" {
		if len(in.Ingredients) > 0 {
			return in.Ingredients, nil
		}
		return nil, InvalidInputError("Either imageBase64 or ingredients must be provided")
	}
	if err := s.chat.Ready(); err != nil {
		return nil, err
	}

	lang := in.Language
	if lang == "" {
		lang = "en"
	}
	reply, err := s.chat.Complete(ctx, ChatRequest{
		Op:          "analyze-ingredients",
		Model:       s.models.Vision,
		System:      fmt.Sprintf(ingredientPhotoPrompt, respondIn(lang, "Nombres de ingredientes", "Ingredient names")),
		Text:        ingredientPhotoUserText,
		ImageBase64: utils.StripDataURI(in.ImageBase64),
	})
	if err != nil {
		return nil, err
	}

	var names []string
	if err := json.Unmarshal([]byte(utils.StripCodeFence(reply)), &names); err != nil {
		s.log.Error("failed to parse ingredients", zap.Error(err), zap.String("reply", preview(reply)))
		return nil, ParseError("Failed to parse ingredients", err)
	}
	return names, nil
}

// SearchFood looks up 5-8 foods or drinks matching a free-text query.
func (s *FoodService) SearchFood(ctx context.Context, query, lang string) ([]models.FoodItem, error) {
	if strings.TrimSpace(query) == "" {
		return nil, InvalidInputError("query is required")
	}
	if err := s.chat.Ready(); err != nil {
		return nil, err
	}
	if lang == "" {
		lang = "es"
	}
	s.log.Info("searching food", zap.String("query", query))

	reply, err := s.chat.Complete(ctx, ChatRequest{
		Op:     "search-food",
		Model:  s.models.Vision,
		System: fmt.Sprintf(foodSearchPrompt, respondOnlyIn(lang)),
		Text:   fmt.Sprintf("Find nutritional information for: '%s'. Return as JSON array.", query),
	})
	if err != nil {
		return nil, err
	}

	var foods []models.FoodItem
	if err := json.Unmarshal([]byte(utils.StripCodeFence(reply)), &foods); err != nil {
		s.log.Error("failed to parse food search", zap.Error(err), zap.String("reply", preview(reply)))
		return nil, ParseError("Failed to parse food search results", err)
	}
	return foods, nil
}
