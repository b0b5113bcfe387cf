package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"jewelry-studio-backend/internal/config"
	"jewelry-studio-backend/internal/middleware"
)

const testSecret = "test-secret-key-for-jwt-signing-must-be-long-enough"

func newRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.AdminAuth(cfg))
	router.GET("/test", func(c *gin.Context) {
		adminID, _ := c.Get(middleware.AdminIDKey)
		c.JSON(http.StatusOK, gin.H{"admin": adminID})
	})
	return router
}

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func get(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", "/test", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAdminAuth_NoToken(t *testing.T) {
	router := newRouter(&config.Config{AdminJWTSecret: testSecret})

	w := get(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminAuth_InvalidToken(t *testing.T) {
	router := newRouter(&config.Config{AdminJWTSecret: testSecret})

	assert.Equal(t, http.StatusUnauthorized, get(router, "Bearer invalid-token").Code)
	assert.Equal(t, http.StatusUnauthorized, get(router, "Token abc").Code)
}

func TestAdminAuth_ValidToken(t *testing.T) {
	router := newRouter(&config.Config{AdminJWTSecret: testSecret})
	token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
		"sub":  "ops-1",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	w := get(router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ops-1")
}

func TestAdminAuth_WrongSecret(t *testing.T) {
	router := newRouter(&config.Config{AdminJWTSecret: testSecret})
	token := sign(t, jwt.SigningMethodHS256, []byte("another-secret"), jwt.MapClaims{"sub": "ops-1", "role": "admin"})

	w := get(router, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "signature")
}

func TestAdminAuth_Expired(t *testing.T) {
	router := newRouter(&config.Config{AdminJWTSecret: testSecret})
	token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
		"sub":  "ops-1",
		"role": "admin",
		"exp":  time.Now().Add(-time.Minute).Unix(),
	})

	w := get(router, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestAdminAuth_RequiresAdminRole(t *testing.T) {
	router := newRouter(&config.Config{AdminJWTSecret: testSecret})
	token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "user-1", "role": "customer"})

	assert.Equal(t, http.StatusForbidden, get(router, "Bearer "+token).Code)
}

func TestAdminAuth_NotConfigured(t *testing.T) {
	router := newRouter(&config.Config{})

	assert.Equal(t, http.StatusServiceUnavailable, get(router, "Bearer anything").Code)
}
