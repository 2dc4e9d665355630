package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mentorify/mentorify-api/internal/handlers"
)

func TestHealthHandler_CacheReady(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewHealthHandler(func() bool { return true })

	router := gin.New()
	router.GET("/healthcheck", handler.Healthcheck)

	req := httptest.NewRequest("GET", "/healthcheck", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestHealthHandler_CacheNotReady(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewHealthHandler(func() bool { return false })

	router := gin.New()
	router.GET("/healthcheck", handler.Healthcheck)

	req := httptest.NewRequest("GET", "/healthcheck", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
