package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tessera/internal/infrastructure/auth"
	"tessera/internal/shared/logger"
)

func setupAuthRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	gin.SetMode(gin.TestMode)
	jwtService := auth.NewJWTService("test-secret", 15)
	m := NewAuthMiddleware(jwtService, logger.NewLogger())

	router := gin.New()
	router.GET("/protected", m.RequireAuth(), func(c *gin.Context) {
		userID, _ := CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{
			"user_id":     userID,
			"global_role": CurrentGlobalRole(c),
		})
	})
	return router, jwtService
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	router, _ := setupAuthRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	router, _ := setupAuthRouter(t)

	for _, header := range []string{"token-without-scheme", "Basic abc123"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	router, _ := setupAuthRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.valid.token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	router, jwtService := setupAuthRouter(t)

	token, _, err := jwtService.Issue(42, "alice@example.com", "ADMIN")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":42`)
	assert.Contains(t, w.Body.String(), `"global_role":"ADMIN"`)
}

func TestRequireAuth_TokenSignedWithOtherSecret(t *testing.T) {
	router, _ := setupAuthRouter(t)
	other := auth.NewJWTService("different-secret", 15)

	token, _, err := other.Issue(42, "alice@example.com", "ADMIN")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
