package controllers

import (
	"errors"
	"net/http"

	"foodsnap/services"

	"github.com/gin-gonic/gin"
)

var kindStatus = map[services.ErrorKind]int{
	services.KindConfiguration:   http.StatusInternalServerError,
	services.KindUpstreamParse:   http.StatusInternalServerError,
	services.KindUpstreamContent: http.StatusBadRequest,
	services.KindNotFound:        http.StatusNotFound,
	services.KindInvalidInput:    http.StatusBadRequest,
}

// respondError writes the JSON error body for err. Classified errors keep
// their own message; anything else becomes a 500 naming the operation.
func respondError(c *gin.Context, op string, err error) {
	_ = c.Error(err)

	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		if status, ok := kindStatus[svcErr.Kind]; ok {
			c.JSON(status, gin.H{"error": svcErr.Message})
			return
		}
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + op + ": " + err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// Banner answers GET /api/.
func Banner(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "FoodSnap API"})
}
