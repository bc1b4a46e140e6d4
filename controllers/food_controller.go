package controllers

import (
	"net/http"

	"foodsnap/services"

	"github.com/gin-gonic/gin"
)

type FoodController struct {
	Food *services.FoodService
}

func NewFoodController(fs *services.FoodService) *FoodController {
	return &FoodController{Food: fs}
}

// POST /api/analyze-food
func (fc *FoodController) AnalyzeFood(c *gin.Context) {
	var req services.AnalyzeFoodInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	analysis, err := fc.Food.Analyze(c.Request.Context(), req)
	if err != nil {
		respondError(c, "analyze food", err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// POST /api/analyze-ingredients
func (fc *FoodController) AnalyzeIngredients(c *gin.Context) {
	var req services.AnalyzeIngredientsInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	names, err := fc.Food.IdentifyIngredients(c.Request.Context(), req)
	if err != nil {
		respondError(c, "analyze ingredients", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": names})
}

type searchFoodReq struct {
	Query    string `json:"query" binding:"required"`
	Language string `json:"language"`
}

// POST /api/search-food
func (fc *FoodController) SearchFood(c *gin.Context) {
	var req searchFoodReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	foods, err := fc.Food.SearchFood(c.Request.Context(), req.Query, req.Language)
	if err != nil {
		respondError(c, "search food", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"foods": foods, "query": req.Query})
}
