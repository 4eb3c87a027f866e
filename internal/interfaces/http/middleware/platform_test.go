package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"tessera/internal/domain/authz"
	"tessera/internal/shared/constants"
	"tessera/internal/shared/logger"
)

func setupPlatformRouter(t *testing.T, userID uint, globalRole string, handler gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if userID != 0 {
			c.Set(constants.ContextKeyUserID, userID)
			c.Set(constants.ContextKeyGlobalRole, globalRole)
		}
		c.Next()
	})
	router.GET("/admin", handler, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestRequireGlobalRole_MatchingRole(t *testing.T) {
	m := NewPlatformMiddleware(nil, logger.NewLogger())
	router := setupPlatformRouter(t, 42, "SUPPORT", m.RequireGlobalRole(authz.GlobalRoleAdmin, authz.GlobalRoleSupport))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireGlobalRole_RoleNotListed(t *testing.T) {
	m := NewPlatformMiddleware(nil, logger.NewLogger())
	router := setupPlatformRouter(t, 42, "SUPPORT", m.RequireGlobalRole(authz.GlobalRoleAdmin))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireGlobalRole_SuperAdminAlwaysPasses(t *testing.T) {
	m := NewPlatformMiddleware(nil, logger.NewLogger())
	router := setupPlatformRouter(t, 42, "SUPER_ADMIN", m.RequireGlobalRole(authz.GlobalRoleSupport))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireGlobalRole_Unauthenticated(t *testing.T) {
	m := NewPlatformMiddleware(nil, logger.NewLogger())
	router := setupPlatformRouter(t, 0, "", m.RequireGlobalRole(authz.GlobalRoleAdmin))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireSuperAdmin_RejectsOtherRoles(t *testing.T) {
	m := NewPlatformMiddleware(nil, logger.NewLogger())
	router := setupPlatformRouter(t, 42, "ADMIN", m.RequireSuperAdmin())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
}
