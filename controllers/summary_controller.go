package controllers

import (
	"net/http"

	"foodsnap/services"

	"github.com/gin-gonic/gin"
)

type SummaryController struct {
	Summary *services.SummaryService
}

func NewSummaryController(ss *services.SummaryService) *SummaryController {
	return &SummaryController{Summary: ss}
}

// GET /api/meals/:userId/daily-totals
func (sc *SummaryController) DailyTotals(c *gin.Context) {
	totals, err := sc.Summary.DailyTotals(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, "get daily totals", err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

// GET /api/users/:userId/nutrition-summary
func (sc *SummaryController) NutritionSummary(c *gin.Context) {
	summary, err := sc.Summary.NutritionSummary(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, "get nutrition summary", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
