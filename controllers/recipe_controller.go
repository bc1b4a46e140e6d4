package controllers

import (
	"net/http"

	"foodsnap/services"

	"github.com/gin-gonic/gin"
)

type RecipeController struct {
	Recipes *services.RecipeService
}

func NewRecipeController(rs *services.RecipeService) *RecipeController {
	return &RecipeController{Recipes: rs}
}

// POST /api/recipe-suggestions
func (rc *RecipeController) Suggestions(c *gin.Context) {
	var req services.AnalyzeIngredientsInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	recipes, err := rc.Recipes.Suggest(c.Request.Context(), req)
	if err != nil {
		respondError(c, "get recipe suggestions", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// POST /api/search-recipes
func (rc *RecipeController) Search(c *gin.Context) {
	var req services.RecipeSearchInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ranked, err := rc.Recipes.Search(c.Request.Context(), req)
	if err != nil {
		respondError(c, "search recipes", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": ranked, "query": req.Query})
}
