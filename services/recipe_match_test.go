package services

import (
	"testing"

	"foodsnap/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankRecipes(t *testing.T) {
	recipes := []models.Recipe{
		{ID: "none", Ingredients: []string{"flour", "sugar"}},
		{ID: "half", Ingredients: []string{"chicken breast", "rice"}},
		{ID: "also-half", Ingredients: []string{"Grilled Chicken", "lime"}},
		{ID: "empty"},
	}
	ranked := RankRecipes(recipes, []string{"chicken"})
	require.Len(t, ranked, 4)

	assert.Equal(t, "half", ranked[0].ID)
	assert.Equal(t, 1, ranked[0].MatchCount)
	assert.Equal(t, 2, ranked[0].TotalIngredients)
	assert.Equal(t, 50, ranked[0].MatchPercentage)
	assert.Equal(t, []string{"rice"}, ranked[0].MissingIngredients)

	// ties keep input order
	assert.Equal(t, "also-half", ranked[1].ID)
	assert.Equal(t, "none", ranked[2].ID)
	assert.Equal(t, "empty", ranked[3].ID)
	assert.Equal(t, 0, ranked[3].MatchPercentage)
	assert.NotNil(t, ranked[3].MissingIngredients)
}

func TestRankRecipes_ReverseContainment(t *testing.T) {
	ranked := RankRecipes([]models.Recipe{{Ingredients: []string{"egg"}}}, []string{"free range eggs"})
	assert.Equal(t, 1, ranked[0].MatchCount)
}

func TestRankRecipes_MissingCappedAtFive(t *testing.T) {
	ranked := RankRecipes([]models.Recipe{{Ingredients: []string{"a1", "b2", "c3", "d4", "e5", "f6", "g7"}}}, nil)
	assert.Equal(t, []string{"a1", "b2", "c3", "d4", "e5"}, ranked[0].MissingIngredients)
	assert.Equal(t, 7, ranked[0].TotalIngredients)
}

func TestRankRecipes_Rounding(t *testing.T) {
	ranked := RankRecipes([]models.Recipe{{Ingredients: []string{"egg", "milk", "flour"}}}, []string{"egg", "milk"})
	assert.Equal(t, 67, ranked[0].MatchPercentage)
}
