package controllers

import (
	"net/http"

	"foodsnap/services"

	"github.com/gin-gonic/gin"
)

type IngredientController struct {
	Ingredients *services.IngredientService
}

func NewIngredientController(is *services.IngredientService) *IngredientController {
	return &IngredientController{Ingredients: is}
}

// POST /api/users/:userId/ingredients
func (ic *IngredientController) Save(c *gin.Context) {
	var req services.SaveIngredientsInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	appendMode := req.Append == nil || *req.Append

	list, err := ic.Ingredients.Save(c.Request.Context(), c.Param("userId"), req.Ingredients, appendMode)
	if err != nil {
		respondError(c, "save ingredients", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "ingredients": list, "count": len(list)})
}

// GET /api/users/:userId/ingredients
func (ic *IngredientController) Get(c *gin.Context) {
	doc, err := ic.Ingredients.Get(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, "get ingredients", err)
		return
	}
	var lastUpdated any
	if !doc.LastUpdated.IsZero() {
		lastUpdated = doc.LastUpdated
	}
	c.JSON(http.StatusOK, gin.H{
		"ingredients": doc.Ingredients,
		"lastUpdated": lastUpdated,
		"count":       len(doc.Ingredients),
	})
}

// DELETE /api/users/:userId/ingredients?ingredients_to_remove=a&ingredients_to_remove=b
func (ic *IngredientController) Clear(c *gin.Context) {
	items := c.QueryArray("ingredients_to_remove")
	if err := ic.Ingredients.Clear(c.Request.Context(), c.Param("userId"), items); err != nil {
		respondError(c, "clear ingredients", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
