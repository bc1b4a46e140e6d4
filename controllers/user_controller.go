package controllers

import (
	"net/http"
	"strconv"

	"foodsnap/services"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	Users *services.UserService
}

func NewUserController(us *services.UserService) *UserController {
	return &UserController{Users: us}
}

// POST /api/users
func (uc *UserController) Create(c *gin.Context) {
	u, err := uc.Users.CreateUser(c.Request.Context())
	if err != nil {
		respondError(c, "create user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": u.ID, "isPremium": u.IsPremium})
}

// GET /api/users/:userId
func (uc *UserController) Get(c *gin.Context) {
	u, err := uc.Users.GetUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, "get user", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// POST /api/users/:userId/goals
func (uc *UserController) SetGoals(c *gin.Context) {
	var req services.GoalsInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	goals, err := uc.Users.SetGoals(c.Request.Context(), c.Param("userId"), req)
	if err != nil {
		respondError(c, "set user goals", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "goals": goals})
}

// PATCH /api/users/:userId/premium?is_premium=true
func (uc *UserController) SetPremium(c *gin.Context) {
	premium, err := strconv.ParseBool(c.Query("is_premium"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "is_premium must be true or false"})
		return
	}
	if err := uc.Users.SetPremium(c.Request.Context(), c.Param("userId"), premium); err != nil {
		respondError(c, "update premium status", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "isPremium": premium})
}

// GET /api/analysis-count/:userId/today
func (uc *UserController) AnalysisCount(c *gin.Context) {
	n, err := uc.Users.AnalysisCountToday(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, "get analysis count", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}
