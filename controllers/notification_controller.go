package controllers

import (
	"net/http"

	"foodsnap/services"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	Notifier *services.NotificationService
	Push     *services.PushService
}

func NewNotificationController(ns *services.NotificationService, ps *services.PushService) *NotificationController {
	return &NotificationController{Notifier: ns, Push: ps}
}

// POST /api/users/:userId/smart-notification
func (nc *NotificationController) Smart(c *gin.Context) {
	var req services.SmartNotificationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	// the path wins over the body
	req.UserID = c.Param("userId")
	if req.Language == "" {
		req.Language = "en"
	}

	n, err := nc.Notifier.Smart(c.Request.Context(), req)
	if err != nil {
		respondError(c, "generate notification", err)
		return
	}
	c.JSON(http.StatusOK, n)
}

type toggleReq struct {
	Enabled bool `json:"enabled"`
}

// POST /api/users/:userId/notifications/toggle
func (nc *NotificationController) Toggle(c *gin.Context) {
	var req toggleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if err := nc.Push.SetEnabled(c.Request.Context(), c.Param("userId"), req.Enabled); err != nil {
		respondError(c, "update notifications", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "notifications updated",
		"enabled": req.Enabled,
	})
}
