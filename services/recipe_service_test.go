package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// modelRecipes renders n recipes the way the model tends to: fenced, with
// some ingredient lines as objects and sloppy bonus flags.
func modelRecipes(t *testing.T, n int, namePrefix string) string {
	t.Helper()
	var out []map[string]any
	for i := 0; i < n; i++ {
		r := map[string]any{
			"name":         fmt.Sprintf("%s %d", namePrefix, i),
			"description":  "tasty",
			"ingredients":  []any{"2 eggs", map[string]any{"name": "chicken", "quantity": "500g"}},
			"instructions": []string{"cook", "serve"},
			"cookingTime":  20,
			"servings":     2,
			"calories":     400,
			"protein":      30,
			"carbs":        10,
			"fats":         12,
			"cuisine":      "Peruvian",
		}
		if i == 2 {
			r["requiresExtraIngredients"] = true
			r["extraIngredientsNeeded"] = []string{"capers"}
		}
		if i == n-1 {
			r["requiresExtraIngredients"] = true
			r["extraIngredientsNeeded"] = []string{"rice", "onion", "garlic"}
		}
		out = append(out, r)
	}
	b, err := json.Marshal(out)
	require.NoError(t, err)
	return "```json\n" + string(b) + "\n```"
}

func newRecipeService(chat ChatClient) *RecipeService {
	s := NewRecipeService(chat, testModels, nopLogger())
	s.newID = sequence("recipe")
	return s
}

func TestRecipeService_SuggestShape(t *testing.T) {
	chat := &fakeChat{replies: []string{modelRecipes(t, 8, "Dish")}}
	s := newRecipeService(chat)

	recipes, err := s.Suggest(context.Background(), AnalyzeIngredientsInput{
		UserID:      "u1",
		Ingredients: []string{"chicken", "eggs"},
		Language:    "en",
	})
	require.NoError(t, err)
	require.Len(t, recipes, 8)

	for i, r := range recipes[:7] {
		assert.False(t, r.RequiresExtraIngredients, "recipe %d", i)
		assert.Empty(t, r.ExtraIngredientsNeeded, "recipe %d", i)
		assert.NotNil(t, r.ExtraIngredientsNeeded)
	}
	bonus := recipes[7]
	assert.True(t, bonus.RequiresExtraIngredients)
	assert.Equal(t, []string{"rice", "onion"}, bonus.ExtraIngredientsNeeded)

	ids := map[string]bool{}
	for _, r := range recipes {
		assert.Equal(t, 4, r.Servings)
		assert.Equal(t, []string{"2 eggs", "500g chicken"}, r.Ingredients)
		ids[r.ID] = true
	}
	assert.Len(t, ids, 8)

	require.Equal(t, 1, chat.callCount())
	assert.Contains(t, chat.calls[0].Text, "chicken, eggs")
	assert.Equal(t, "vision-model", chat.calls[0].Model)
}

func TestRecipeService_TruncatesExtraRecipes(t *testing.T) {
	chat := &fakeChat{replies: []string{modelRecipes(t, 10, "Dish")}}
	recipes, err := newRecipeService(chat).Suggest(context.Background(), AnalyzeIngredientsInput{Ingredients: []string{"chicken"}})
	require.NoError(t, err)
	require.Len(t, recipes, 8)
	assert.Equal(t, "Dish 7", recipes[7].Name)
	assert.True(t, recipes[7].RequiresExtraIngredients)
}

func TestRecipeService_EmptyIngredients(t *testing.T) {
	chat := &fakeChat{notReady: true}
	recipes, err := newRecipeService(chat).Suggest(context.Background(), AnalyzeIngredientsInput{UserID: "u1"})
	require.NoError(t, err)
	assert.NotNil(t, recipes)
	assert.Empty(t, recipes)
	assert.Zero(t, chat.callCount())
}

func TestRecipeService_MissingKey(t *testing.T) {
	chat := &fakeChat{notReady: true}
	_, err := newRecipeService(chat).Suggest(context.Background(), AnalyzeIngredientsInput{Ingredients: []string{"egg"}})
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindConfiguration, kind)
}

func TestRecipeService_ParseFailure(t *testing.T) {
	chat := &fakeChat{replies: []string{"Sorry, here are some ideas: omelette"}}
	_, err := newRecipeService(chat).Suggest(context.Background(), AnalyzeIngredientsInput{Ingredients: []string{"egg"}})
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindUpstreamParse, kind)
	assert.Equal(t, 1, chat.callCount())
}

func TestRecipeService_TranslationFallback(t *testing.T) {
	reply := modelRecipes(t, 8, "Dish")
	in := AnalyzeIngredientsInput{Ingredients: []string{"chicken"}, Language: "en"}

	base, err := newRecipeService(&fakeChat{replies: []string{reply}}).Suggest(context.Background(), in)
	require.NoError(t, err)

	tests := []struct {
		name string
		chat *fakeChat
	}{
		{"upstream error", &fakeChat{replies: []string{reply}, errs: []error{nil, errors.New("timeout")}}},
		{"not json", &fakeChat{replies: []string{reply, "Lo siento, no puedo traducir eso."}}},
		{"empty reply", &fakeChat{replies: []string{reply, ""}}},
		{"wrong count", &fakeChat{replies: []string{reply, modelRecipes(t, 3, "Plato")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			es := in
			es.Language = "es"
			got, err := newRecipeService(tt.chat).Suggest(context.Background(), es)
			require.NoError(t, err)
			assert.Equal(t, base, got)
			assert.Equal(t, 2, tt.chat.callCount())
		})
	}
}

func TestRecipeService_Translates(t *testing.T) {
	chat := &fakeChat{replies: []string{modelRecipes(t, 8, "Dish"), modelRecipes(t, 8, "Plato")}}
	recipes, err := newRecipeService(chat).Suggest(context.Background(), AnalyzeIngredientsInput{
		Ingredients: []string{"chicken"},
		Language:    "es",
	})
	require.NoError(t, err)
	require.Len(t, recipes, 8)
	assert.Equal(t, "Plato 0", recipes[0].Name)
	assert.True(t, recipes[7].RequiresExtraIngredients)

	require.Equal(t, 2, chat.callCount())
	assert.Contains(t, chat.calls[1].System, "Spanish")
	assert.Contains(t, chat.calls[1].System, "2 tazas de leche")
	// the translator only ever sees flattened ingredient strings
	assert.Contains(t, chat.calls[1].Text, `"500g chicken"`)
	assert.NotContains(t, chat.calls[1].Text, `"quantity"`)
}

func TestRecipeService_DerivesBonusExtras(t *testing.T) {
	var raw []map[string]any
	for i := 0; i < 8; i++ {
		raw = append(raw, map[string]any{
			"name":        fmt.Sprintf("R%d", i),
			"ingredients": []string{"1 chicken breast", "salt", "2 tbsp olive oil", "1 cup rice"},
		})
	}
	b, _ := json.Marshal(raw)

	recipes, err := newRecipeService(&fakeChat{replies: []string{string(b)}}).Suggest(context.Background(),
		AnalyzeIngredientsInput{Ingredients: []string{"Chicken"}})
	require.NoError(t, err)
	assert.True(t, recipes[7].RequiresExtraIngredients)
	assert.Equal(t, []string{"1 cup rice"}, recipes[7].ExtraIngredientsNeeded)
}

func TestRecipeService_ShortSetKeepsFlags(t *testing.T) {
	chat := &fakeChat{replies: []string{modelRecipes(t, 5, "Dish")}}
	recipes, err := newRecipeService(chat).Suggest(context.Background(), AnalyzeIngredientsInput{Ingredients: []string{"egg"}})
	require.NoError(t, err)
	require.Len(t, recipes, 5)
	assert.True(t, recipes[2].RequiresExtraIngredients)
	assert.Equal(t, []string{"capers"}, recipes[2].ExtraIngredientsNeeded)
	assert.Equal(t, []string{"rice", "onion"}, recipes[4].ExtraIngredientsNeeded)
	assert.Empty(t, recipes[0].ExtraIngredientsNeeded)
}

func TestRecipeService_Defaults(t *testing.T) {
	recipes, err := parseRecipes(`[{"description": "x"}]`)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	r := recipes[0]
	assert.Equal(t, "Unknown Recipe", r.Name)
	assert.Equal(t, 30, r.CookingTime)
	assert.Equal(t, 500.0, r.Calories)
	assert.Equal(t, 20.0, r.Protein)
	assert.Equal(t, 50.0, r.Carbs)
	assert.Equal(t, 15.0, r.Fats)
	assert.Nil(t, r.HealthierOption)
}

func TestIngredientEntry_Unmarshal(t *testing.T) {
	var got []IngredientEntry
	err := json.Unmarshal([]byte(`[
		"1 onion",
		{"name": "chicken", "quantity": "500g"},
		{"ingredient": "rice", "amount": 2},
		{"name": "basil"},
		{"unit": "pinch"},
		3
	]`), &got)
	require.NoError(t, err)
	assert.Equal(t, []IngredientEntry{
		"1 onion",
		"500g chicken",
		"2 rice",
		"basil",
		`{"unit": "pinch"}`,
		"3",
	}, got)
}

func TestHealthContext(t *testing.T) {
	ctx := healthContext([]string{"celiac", "vegan"}, []string{"peanuts"})
	assert.Contains(t, ctx, "USER HEALTH CONDITIONS: celiac, vegan")
	assert.Contains(t, ctx, "CELIAC: NO wheat")
	assert.Contains(t, ctx, "VEGAN: NO animal products")
	assert.NotContains(t, ctx, "DIABETES")
	assert.Contains(t, ctx, "USER FOOD ALLERGIES: peanuts")

	none := healthContext([]string{"none", "celiac"}, nil)
	assert.Empty(t, strings.TrimSpace(none))
}

func TestRecipeService_Search(t *testing.T) {
	reply := `[
		{"id": "a", "name": "Pasta", "ingredients": ["pasta", "tomato", "basil", "garlic"]},
		{"id": "b", "name": "Chicken rice", "ingredients": ["chicken breast", "rice"]},
		{"name": "Soup", "ingredients": []}
	]`
	chat := &fakeChat{replies: []string{reply}}
	ranked, err := newRecipeService(chat).Search(context.Background(), RecipeSearchInput{
		Query:           "chicken",
		UserIngredients: []string{" Chicken ", "rice", ""},
	})
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	assert.Equal(t, "b", ranked[0].ID)
	assert.Equal(t, 2, ranked[0].MatchCount)
	assert.Equal(t, 100, ranked[0].MatchPercentage)
	assert.Equal(t, "a", ranked[1].ID)
	assert.Equal(t, 0, ranked[1].MatchPercentage)
	assert.Equal(t, "recipe-1", ranked[2].ID)
	assert.Equal(t, 0, ranked[2].TotalIngredients)

	assert.Contains(t, chat.calls[0].System, "Respond ONLY in Spanish.")
	assert.Contains(t, chat.calls[0].Text, "'chicken'")
}
