package services

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"foodsnap/models"
	"foodsnap/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	recipeCount         = 8
	recipeServings      = 4
	maxExtraIngredients = 2
)

// bonusAllowList are the extras the bonus recipe may ask the user to buy.
var bonusAllowList = []string{"rice", "pasta", "bread", "milk", "cheese", "onion", "garlic", "tomato", "lemon"}

// pantryStaples are assumed to be in every kitchen.
var pantryStaples = []string{"salt", "pepper", "water", "oil"}

// healthRules are the prompt lines added per declared health condition.
var healthRules = []struct{ condition, rule string }{
	{"diabetes", "DIABETES: Avoid high-sugar recipes, prefer low glycemic index foods"},
	{"celiac", "CELIAC: NO wheat, barley, rye, or gluten-containing ingredients"},
	{"hypertension", "HYPERTENSION: Minimize salt, avoid processed foods"},
	{"cholesterol", "HIGH CHOLESTEROL: Minimize saturated fats, avoid fried foods"},
	{"lactose", "LACTOSE INTOLERANT: NO milk, cheese, cream, or dairy products"},
	{"vegetarian", "VEGETARIAN: NO meat or fish"},
	{"vegan", "VEGAN: NO animal products (meat, fish, eggs, dairy, honey)"},
	{"keto", "KETO DIET: Very low carbs, high fat, moderate protein"},
	{"pregnant", "PREGNANCY: Avoid raw fish, unpasteurized products, limit caffeine"},
	{"gastritis", "GASTRITIS: Avoid spicy, acidic, fried foods"},
	{"ibs", "IBS: Low FODMAP suggestions preferred"},
}

// RecipeService generates pantry-based recipe suggestions and answers
// free-text recipe searches.
type RecipeService struct {
	chat   ChatClient
	models Models
	log    *zap.Logger
	newID  func() string
}

func NewRecipeService(chat ChatClient, m Models, log *zap.Logger) *RecipeService {
	return &RecipeService{chat: chat, models: m, log: log, newID: uuid.NewString}
}

// IngredientEntry is one ingredient line as the model sent it: a plain
// string, or an object such as {"name": "chicken", "quantity": "500g"}.
// Either way it decodes to a single display string.
type IngredientEntry string

func (e *IngredientEntry) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*e = IngredientEntry(s)
		return nil
	}

	var obj map[string]any
	if err := json.Unmarshal(b, &obj); err == nil {
		name := firstText(obj, "name", "ingredient")
		qty := firstText(obj, "quantity", "amount")
		switch {
		case name != "" && qty != "":
			*e = IngredientEntry(qty + " " + name)
		case name != "":
			*e = IngredientEntry(name)
		default:
			*e = IngredientEntry(strings.TrimSpace(string(b)))
		}
		return nil
	}

	*e = IngredientEntry(strings.TrimSpace(string(b)))
	return nil
}

func firstText(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := obj[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// rawRecipe is the loosely typed shape the model returns. Pointers mark
// fields that get a default when absent.
type rawRecipe struct {
	ID                       *string           `json:"id"`
	Name                     *string           `json:"name"`
	Description              string            `json:"description"`
	Ingredients              []IngredientEntry `json:"ingredients"`
	Instructions             []IngredientEntry `json:"instructions"`
	CookingTime              *float64          `json:"cookingTime"`
	Servings                 *float64          `json:"servings"`
	Calories                 *float64          `json:"calories"`
	Protein                  *float64          `json:"protein"`
	Carbs                    *float64          `json:"carbs"`
	Fats                     *float64          `json:"fats"`
	HealthierOption          *string           `json:"healthierOption"`
	CountryOfOrigin          *string           `json:"countryOfOrigin"`
	Cuisine                  *string           `json:"cuisine"`
	RequiresExtraIngredients bool              `json:"requiresExtraIngredients"`
	ExtraIngredientsNeeded   []IngredientEntry `json:"extraIngredientsNeeded"`
}

func orDefault(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func texts(entries []IngredientEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if s := strings.TrimSpace(string(e)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (r rawRecipe) toRecipe() models.Recipe {
	name := "Unknown Recipe"
	if r.Name != nil {
		name = *r.Name
	}
	var id string
	if r.ID != nil {
		id = *r.ID
	}
	return models.Recipe{
		ID:                       id,
		Name:                     name,
		Description:              r.Description,
		Ingredients:              texts(r.Ingredients),
		Instructions:             texts(r.Instructions),
		CookingTime:              int(orDefault(r.CookingTime, 30)),
		Servings:                 int(orDefault(r.Servings, recipeServings)),
		Calories:                 orDefault(r.Calories, 500),
		Protein:                  orDefault(r.Protein, 20),
		Carbs:                    orDefault(r.Carbs, 50),
		Fats:                     orDefault(r.Fats, 15),
		HealthierOption:          r.HealthierOption,
		CountryOfOrigin:          r.CountryOfOrigin,
		Cuisine:                  r.Cuisine,
		RequiresExtraIngredients: r.RequiresExtraIngredients,
		ExtraIngredientsNeeded:   texts(r.ExtraIngredientsNeeded),
	}
}

// parseRecipes decodes a fenced or bare JSON array of recipes.
func parseRecipes(reply string) ([]models.Recipe, error) {
	var raw []rawRecipe
	if err := json.Unmarshal([]byte(utils.StripCodeFence(reply)), &raw); err != nil {
		return nil, err
	}
	out := make([]models.Recipe, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.toRecipe())
	}
	return out, nil
}

// healthContext turns conditions and allergies into extra prompt rules.
// A "none" entry disables the condition rules.
func healthContext(conditions, allergies []string) string {
	var sb strings.Builder
	if len(conditions) > 0 && !slices.Contains(conditions, "none") {
		sb.WriteString("\n\nUSER HEALTH CONDITIONS: " + strings.Join(conditions, ", "))
		sb.WriteString("\nYou MUST consider these conditions when suggesting recipes:")
		for _, hr := range healthRules {
			if slices.Contains(conditions, hr.condition) {
				sb.WriteString("\n- " + hr.rule)
			}
		}
	}
	if len(allergies) > 0 {
		sb.WriteString("\n\nUSER FOOD ALLERGIES: " + strings.Join(allergies, ", "))
		sb.WriteString("\nYou MUST NEVER include these foods in any recipe. This is critical for user safety.")
	}
	return sb.String()
}

// Suggest runs the pantry pipeline: generate in English, flatten
// ingredient lines, translate when asked, then enforce 8 recipes of 4
// servings with a single bonus recipe last.
func (s *RecipeService) Suggest(ctx context.Context, in AnalyzeIngredientsInput) ([]models.Recipe, error) {
	s.log.Info("getting recipe suggestions",
		zap.String("user_id", in.UserID),
		zap.String("language", in.Language),
		zap.Strings("ingredients", in.Ingredients),
	)
	if len(in.Ingredients) == 0 {
		return []models.Recipe{}, nil
	}
	if err := s.chat.Ready(); err != nil {
		return nil, err
	}

	reply, err := s.chat.Complete(ctx, ChatRequest{
		Op:     "recipe-suggestions",
		Model:  s.models.Vision,
		System: fmt.Sprintf(recipeSuggestionPrompt, strings.Join(bonusAllowList, ", "), healthContext(in.HealthConditions, in.FoodAllergies)),
		Text:   fmt.Sprintf(recipeSuggestionUserText, strings.Join(in.Ingredients, ", ")),
	})
	if err != nil {
		return nil, err
	}

	recipes, err := parseRecipes(reply)
	if err != nil {
		s.log.Error("failed to parse recipes", zap.Error(err), zap.String("reply", preview(reply)))
		return nil, ParseError("Failed to parse recipe suggestions", err)
	}

	if in.Language != "" && in.Language != "en" {
		recipes = s.translate(ctx, recipes, in.Language)
	}

	recipes = enforceSuggestionShape(recipes, in.Ingredients)
	for i := range recipes {
		recipes[i].ID = s.newID()
		recipes[i].Servings = recipeServings
	}
	return recipes, nil
}

// translate returns recipes rendered in lang, or the input unchanged if
// the translation cannot be used for any reason.
func (s *RecipeService) translate(ctx context.Context, recipes []models.Recipe, lang string) []models.Recipe {
	payload, err := json.MarshalIndent(recipes, "", "  ")
	if err != nil {
		s.log.Error("translation skipped", zap.Error(err))
		return recipes
	}

	target := languageName(lang)
	milk, chicken := `"2 cups of milk"`, `"1 chicken breast"`
	if lang == "es" {
		milk, chicken = `"2 tazas de leche"`, `"1 pechuga de pollo"`
	}

	reply, err := s.chat.Complete(ctx, ChatRequest{
		Op:     "translate-recipes",
		Model:  s.models.Vision,
		System: fmt.Sprintf(translationPrompt, target, milk, chicken),
		Text:   fmt.Sprintf("Translate this recipe JSON to %s. Return only the translated JSON:\n\n%s", target, payload),
	})
	if err != nil {
		s.log.Error("translation failed, returning original recipes", zap.String("language", lang), zap.Error(err))
		return recipes
	}

	translated, err := parseRecipes(reply)
	if err != nil {
		s.log.Error("translation unreadable, returning original recipes", zap.String("language", lang), zap.Error(err))
		return recipes
	}
	if len(translated) != len(recipes) {
		s.log.Error("translation changed recipe count, returning original recipes",
			zap.Int("want", len(recipes)), zap.Int("got", len(translated)))
		return recipes
	}

	s.log.Info("translated recipes", zap.Int("count", len(translated)), zap.String("language", lang))
	return translated
}

// enforceSuggestionShape makes a full set of 8 follow the 7 + 1 bonus
// layout. Shorter sets keep the model's flags but unflagged recipes lose
// any extras.
func enforceSuggestionShape(recipes []models.Recipe, pantry []string) []models.Recipe {
	if len(recipes) >= recipeCount {
		recipes = recipes[:recipeCount]
		for i := 0; i < recipeCount-1; i++ {
			recipes[i].RequiresExtraIngredients = false
			recipes[i].ExtraIngredientsNeeded = []string{}
		}
		bonus := &recipes[recipeCount-1]
		bonus.RequiresExtraIngredients = true
		if len(bonus.ExtraIngredientsNeeded) == 0 {
			bonus.ExtraIngredientsNeeded = deriveExtras(bonus.Ingredients, pantry)
		}
		bonus.ExtraIngredientsNeeded = capExtras(bonus.ExtraIngredientsNeeded)
		return recipes
	}

	for i := range recipes {
		if recipes[i].RequiresExtraIngredients {
			recipes[i].ExtraIngredientsNeeded = capExtras(recipes[i].ExtraIngredientsNeeded)
		} else {
			recipes[i].ExtraIngredientsNeeded = []string{}
		}
	}
	return recipes
}

// deriveExtras guesses the bonus recipe's shopping list when the model
// left it empty: ingredient lines the pantry does not cover, ignoring
// staples, and failing that any allow-listed item the recipe mentions.
func deriveExtras(lines, pantry []string) []string {
	tokens := append(pantryTokens(pantry), pantryStaples...)
	extras := unmatchedLines(lines, tokens)
	if len(extras) > 0 {
		return extras
	}
	for _, item := range bonusAllowList {
		if lineMatches(item, pantryTokens(lines)) && !lineMatches(item, pantryTokens(pantry)) {
			extras = append(extras, item)
		}
	}
	return extras
}

func capExtras(extras []string) []string {
	if extras == nil {
		return []string{}
	}
	if len(extras) > maxExtraIngredients {
		return extras[:maxExtraIngredients]
	}
	return extras
}

type RecipeSearchInput struct {
	Query           string   `json:"query" binding:"required"`
	UserIngredients []string `json:"userIngredients"`
	Language        string   `json:"language"`
}

// Search asks the model for recipes matching a query and ranks them by
// how much of each the user already has.
func (s *RecipeService) Search(ctx context.Context, in RecipeSearchInput) ([]models.RankedRecipe, error) {
	if err := s.chat.Ready(); err != nil {
		return nil, err
	}
	lang := in.Language
	if lang == "" {
		lang = "es"
	}
	s.log.Info("searching recipes", zap.String("query", in.Query))

	reply, err := s.chat.Complete(ctx, ChatRequest{
		Op:     "search-recipes",
		Model:  s.models.Vision,
		System: fmt.Sprintf(recipeSearchPrompt, respondOnlyIn(lang)),
		Text:   fmt.Sprintf("Find 8 recipes matching this search: '%s'. Return as JSON array.", in.Query),
	})
	if err != nil {
		return nil, err
	}

	recipes, err := parseRecipes(reply)
	if err != nil {
		s.log.Error("failed to parse recipe search", zap.Error(err), zap.String("reply", preview(reply)))
		return nil, ParseError("Failed to parse recipe search results", err)
	}
	for i := range recipes {
		if recipes[i].ID == "" {
			recipes[i].ID = s.newID()
		}
		if recipes[i].ExtraIngredientsNeeded == nil {
			recipes[i].ExtraIngredientsNeeded = []string{}
		}
	}
	return RankRecipes(recipes, in.UserIngredients), nil
}
