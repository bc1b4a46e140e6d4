package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"foodsnap/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"configuration", services.ConfigurationError("API key not configured"), http.StatusInternalServerError, `{"error":"API key not configured"}`},
		{"parse", services.ParseError("Failed to parse ingredients", errors.New("eof")), http.StatusInternalServerError, `{"error":"Failed to parse ingredients"}`},
		{"content", services.ContentError("no food"), http.StatusBadRequest, `{"error":"no food"}`},
		{"not found", services.NotFoundError("Meal not found"), http.StatusNotFound, `{"error":"Meal not found"}`},
		{"invalid", services.InvalidInputError("bad"), http.StatusBadRequest, `{"error":"bad"}`},
		{"wrapped", errors.Join(errors.New("ctx"), services.NotFoundError("User not found")), http.StatusNotFound, `{"error":"User not found"}`},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, `{"error":"Failed to save meal: connection reset"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, "save meal", tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			assert.Len(t, c.Errors, 1)
		})
	}
}
