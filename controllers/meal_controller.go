package controllers

import (
	"net/http"
	"strconv"

	"foodsnap/services"

	"github.com/gin-gonic/gin"
)

type MealController struct {
	Meals *services.MealService
}

func NewMealController(ms *services.MealService) *MealController {
	return &MealController{Meals: ms}
}

// POST /api/meals
func (mc *MealController) SaveMeal(c *gin.Context) {
	var req services.SaveMealInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	meal, err := mc.Meals.SaveMeal(c.Request.Context(), req)
	if err != nil {
		respondError(c, "save meal", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "mealId": meal.ID})
}

// GET /api/meals/:userId?limit=
func (mc *MealController) ListMeals(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	meals, err := mc.Meals.ListMeals(c.Request.Context(), c.Param("userId"), limit)
	if err != nil {
		respondError(c, "get meals", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meals": meals})
}

// GET /api/meals/:userId/today
func (mc *MealController) TodayCount(c *gin.Context) {
	n, err := mc.Meals.CountToday(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, "get meal count", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// DELETE /api/meals/:mealId
func (mc *MealController) DeleteMeal(c *gin.Context) {
	if err := mc.Meals.DeleteMeal(c.Request.Context(), c.Param("mealId")); err != nil {
		respondError(c, "delete meal", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Meal deleted successfully"})
}
