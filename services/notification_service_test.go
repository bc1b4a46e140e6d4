package services

import (
	"context"
	"errors"
	"testing"

	"foodsnap/models"
	"foodsnap/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotificationService(st store.Store, chat ChatClient) *NotificationService {
	s := NewNotificationService(st, st, st, chat, testModels, nopLogger())
	s.now = clock
	return s
}

// seedProfile creates u1 with a 2000 kcal / 100 g protein target.
func seedProfile(t *testing.T, st store.Store, goal string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, st.CreateUser(ctx, &models.User{ID: "u1"}))
	require.NoError(t, st.SetUserGoals(ctx, "u1", models.UserGoals{
		Goal: goal, DailyCalories: 2000, DailyProtein: 100, DailyCarbs: 250, DailyFats: 65,
	}))
}

func TestNotificationService_NoProfile(t *testing.T) {
	chat := &fakeChat{}
	for lang, want := range map[string]string{
		"en": "Complete your profile to get personalized recommendations!",
		"es": "¡Completa tu perfil para recibir recomendaciones personalizadas!",
	} {
		got, err := newNotificationService(store.NewMemory(), chat).Smart(context.Background(),
			SmartNotificationInput{UserID: "ghost", MealType: "lunch", Language: lang})
		require.NoError(t, err)
		assert.Equal(t, want, got.Message)
		assert.Equal(t, 2000.0, got.CaloriesRemaining)
		assert.Equal(t, 100.0, got.ProteinRemaining)
		assert.NotNil(t, got.SuggestedRecipes)
		assert.False(t, got.HasIngredients)
	}
	assert.Zero(t, chat.callCount())
}

func TestNotificationService_Lunch(t *testing.T) {
	st := store.NewMemory()
	seedProfile(t, st, "maintain")
	seedMeal(t, st, "m1", "u1", fixedNow.UnixMilli(), 400, 20)

	got, err := newNotificationService(st, &fakeChat{}).Smart(context.Background(),
		SmartNotificationInput{UserID: "u1", MealType: "lunch", Language: "en"})
	require.NoError(t, err)

	assert.Equal(t, "🍽️ Lunch time! You can still have ~1600 cal today.", got.Message)
	assert.Equal(t, 400.0, got.CaloriesConsumed)
	assert.Equal(t, 80.0, got.ProteinRemaining)
	assert.Empty(t, got.SuggestedRecipes)
}

func TestNotificationService_DinnerMessages(t *testing.T) {
	tests := []struct {
		name     string
		calories float64
		lang     string
		want     string
	}{
		{
			name: "nothing logged",
			lang: "en",
			want: "🌙 Dinner time! No meals logged today yet. Goal: 2000 cal.",
		},
		{
			name:     "plenty left",
			calories: 1200,
			lang:     "en",
			want:     "🌙 You've had 1200 cal today. Still need 800 cal and 70g protein.",
		},
		{
			name:     "almost there",
			calories: 1850,
			lang:     "en",
			want:     "🌙 Almost at your goal! Only 150 cal left. Go for something light.",
		},
		{
			name:     "almost there in spanish",
			calories: 1850,
			lang:     "es",
			want:     "🌙 ¡Casi completas tu meta! Te quedan solo 150 cal. Opta por algo ligero.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemory()
			seedProfile(t, st, "maintain")
			if tt.calories > 0 {
				seedMeal(t, st, "m1", "u1", fixedNow.UnixMilli(), tt.calories, 30)
			}
			got, err := newNotificationService(st, &fakeChat{}).Smart(context.Background(),
				SmartNotificationInput{UserID: "u1", MealType: "dinner", Language: tt.lang})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Message)
		})
	}
}

func TestNotificationService_Suggestions(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	seedProfile(t, st, "lose")
	require.NoError(t, st.SaveIngredients(ctx, models.UserIngredients{UserID: "u1", Ingredients: []string{"eggs", "spinach"}}))

	chat := &fakeChat{replies: []string{"```json\n[\"Spinach omelette\", \"Egg salad\", \"Frittata\"]\n```"}}
	got, err := newNotificationService(st, chat).Smart(ctx,
		SmartNotificationInput{UserID: "u1", MealType: "lunch", Language: "es"})
	require.NoError(t, err)

	assert.True(t, got.HasIngredients)
	assert.Equal(t, []string{"Spinach omelette", "Egg salad", "Frittata"}, got.SuggestedRecipes)
	assert.Equal(t, "🍽️ ¡Hora del almuerzo! Hoy puedes consumir ~2000 cal más. Con tus ingredientes podrías hacer: Spinach omelette, Egg salad", got.Message)

	require.Equal(t, 1, chat.callCount())
	req := chat.calls[0]
	assert.Equal(t, "light-model", req.Model)
	assert.Contains(t, req.System, "Respond in Spanish.")
	assert.Contains(t, req.System, "losing weight")
	assert.Contains(t, req.System, "Available ingredients: eggs, spinach")
}

func TestNotificationService_SuggestionFailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	for name, chat := range map[string]*fakeChat{
		"upstream error": {errs: []error{errors.New("timeout")}},
		"not json":       {replies: []string{"Try an omelette!"}},
		"no key":         {notReady: true},
	} {
		t.Run(name, func(t *testing.T) {
			st := store.NewMemory()
			seedProfile(t, st, "gain")
			require.NoError(t, st.SaveIngredients(ctx, models.UserIngredients{UserID: "u1", Ingredients: []string{"rice"}}))

			got, err := newNotificationService(st, chat).Smart(ctx,
				SmartNotificationInput{UserID: "u1", MealType: "dinner", Language: "en"})
			require.NoError(t, err)
			assert.NotNil(t, got.SuggestedRecipes)
			assert.Empty(t, got.SuggestedRecipes)
			assert.NotContains(t, got.Message, "With your ingredients")
		})
	}
}

func TestNotificationService_NoSuggestionsNearGoal(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	seedProfile(t, st, "maintain")
	seedMeal(t, st, "m1", "u1", fixedNow.UnixMilli(), 1950, 90)
	require.NoError(t, st.SaveIngredients(ctx, models.UserIngredients{UserID: "u1", Ingredients: []string{"rice"}}))

	chat := &fakeChat{replies: []string{`["Rice bowl"]`}}
	got, err := newNotificationService(st, chat).Smart(ctx, SmartNotificationInput{UserID: "u1", MealType: "dinner"})
	require.NoError(t, err)
	assert.Empty(t, got.SuggestedRecipes)
	assert.Zero(t, chat.callCount())
}

func TestNum(t *testing.T) {
	assert.Equal(t, "1600", num(1600))
	assert.Equal(t, "12.5", num(12.46))
	assert.Equal(t, "0", num(0))
}
