package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestIsAuthorized(t *testing.T) {
	am := NewAuthMiddleware("s3cret")

	assert.True(t, am.IsAuthorized("Bearer s3cret"))
	assert.False(t, am.IsAuthorized("s3cret"))
	assert.False(t, am.IsAuthorized("Bearer wrong"))
	assert.False(t, am.IsAuthorized("bearer s3cret"))
	assert.False(t, am.IsAuthorized(""))

	empty := NewAuthMiddleware("")
	assert.False(t, empty.IsAuthorized("Bearer "))
	assert.False(t, empty.IsAuthorized(""))
}

func newEngine(am *AuthMiddleware) *gin.Engine {
	r := gin.New()
	r.Use(Recovery(), CORS())
	r.GET("/private", am.WithAuthCheck(), func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/boom", func(c *gin.Context) { panic(errors.New("exploded")) })
	return r
}

func TestWithAuthCheck(t *testing.T) {
	r := newEngine(NewAuthMiddleware("s3cret"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	r := newEngine(NewAuthMiddleware("s3cret"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/private", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, Authorization", w.Header().Get("Access-Control-Allow-Headers"))
}

func TestRecovery(t *testing.T) {
	r := newEngine(NewAuthMiddleware("s3cret"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"exploded"}`, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
