package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authzapp "tessera/internal/application/authz"
	"tessera/internal/domain/authz"
	"tessera/internal/shared/logger"
	"tessera/internal/shared/utils"
)

// PlatformMiddleware gates admin console routes on platform-level
// permissions resolved from the caller's platform role assignments.
// Must run after RequireAuth.
type PlatformMiddleware struct {
	resolver *authzapp.Resolver
	logger   logger.Interface
}

func NewPlatformMiddleware(resolver *authzapp.Resolver, logger logger.Interface) *PlatformMiddleware {
	return &PlatformMiddleware{
		resolver: resolver,
		logger:   logger,
	}
}

// RequirePermission checks one catalog permission. Super admins pass
// without any role lookup.
func (m *PlatformMiddleware) RequirePermission(permission authz.PermissionID) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
			c.Abort()
			return
		}

		globalRole := authz.ParseGlobalRole(CurrentGlobalRole(c))

		allowed, err := m.resolver.Has(c.Request.Context(), userID, globalRole, permission)
		if err != nil {
			m.logger.Errorw("platform permission check failed",
				"error", err,
				"user_id", userID,
				"permission", permission)
			utils.ErrorResponse(c, http.StatusInternalServerError, "permission check failed")
			c.Abort()
			return
		}

		if !allowed {
			m.logger.Warnw("platform permission denied",
				"user_id", userID,
				"permission", permission)
			utils.ErrorResponse(c, http.StatusForbidden, "insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireGlobalRole restricts the route to callers holding one of the
// given global roles. Super admins always pass.
func (m *PlatformMiddleware) RequireGlobalRole(roles ...authz.GlobalRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUserID(c); !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
			c.Abort()
			return
		}

		current := authz.ParseGlobalRole(CurrentGlobalRole(c))
		if current.IsSuperAdmin() {
			c.Next()
			return
		}
		for _, role := range roles {
			if current == role {
				c.Next()
				return
			}
		}

		utils.ErrorResponse(c, http.StatusForbidden, "insufficient global role")
		c.Abort()
	}
}

// RequireSuperAdmin restricts the route to super admins.
func (m *PlatformMiddleware) RequireSuperAdmin() gin.HandlerFunc {
	return m.RequireGlobalRole()
}
