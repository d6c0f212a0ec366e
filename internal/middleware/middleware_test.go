package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func setupTestGin() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func get(r *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterPerIP(t *testing.T) {
	router := setupTestGin()
	router.Use(RateLimiter(rate.Limit(1), 1))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	require.Equal(t, http.StatusOK, get(router, "127.0.0.1").Code)
	require.Equal(t, http.StatusTooManyRequests, get(router, "127.0.0.1").Code)
	require.Equal(t, http.StatusOK, get(router, "192.168.1.1").Code)
}

func TestRecoveryWithLog(t *testing.T) {
	router := setupTestGin()
	router.Use(RecoveryWithLog())
	router.GET("/test", func(c *gin.Context) { panic("boom") })

	w := get(router, "127.0.0.1")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestRequestLoggerPassesThrough(t *testing.T) {
	router := setupTestGin()
	router.Use(RequestLogger())
	router.GET("/test", func(c *gin.Context) { c.String(http.StatusTeapot, "hi") })

	w := get(router, "127.0.0.1")
	require.Equal(t, http.StatusTeapot, w.Code)
	require.Equal(t, "hi", w.Body.String())
}
