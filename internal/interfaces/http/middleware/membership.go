package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	orgapp "tessera/internal/application/organization"
	"tessera/internal/domain/organization"
	"tessera/internal/shared/constants"
	"tessera/internal/shared/logger"
	"tessera/internal/shared/utils"
)

// MembershipMiddleware resolves the caller's membership in the
// organization named by the :orgSID path parameter. Must run after
// RequireAuth.
type MembershipMiddleware struct {
	resolver *orgapp.Resolver
	logger   logger.Interface
}

func NewMembershipMiddleware(resolver *orgapp.Resolver, logger logger.Interface) *MembershipMiddleware {
	return &MembershipMiddleware{
		resolver: resolver,
		logger:   logger,
	}
}

// Load resolves the membership context and stores it alongside the
// organization ID. Non-members get 403, unknown organizations 404.
func (m *MembershipMiddleware) Load() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
			c.Abort()
			return
		}

		orgSID := c.Param("orgSID")
		if orgSID == "" {
			utils.ErrorResponse(c, http.StatusBadRequest, "missing organization identifier")
			c.Abort()
			return
		}

		membershipCtx, org, err := m.resolver.Resolve(c.Request.Context(), userID, orgSID)
		if err != nil {
			utils.ErrorResponseWithError(c, err)
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyMembership, membershipCtx)
		c.Set(constants.ContextKeyOrganizationID, org.ID())

		c.Next()
	}
}

// RequireModuleAction enforces a fine-grained module grant. A request
// without a loaded membership context is always rejected.
func (m *MembershipMiddleware) RequireModuleAction(module organization.Module, action organization.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		membershipCtx := MembershipFromContext(c)
		if membershipCtx == nil {
			utils.ErrorResponse(c, http.StatusForbidden, "membership context not loaded")
			c.Abort()
			return
		}

		if !membershipCtx.AllowsModuleAction(module, action) {
			m.logger.Warnw("module action denied",
				"user_id", membershipCtx.Membership.UserID(),
				"module", module,
				"action", action)
			utils.ErrorResponse(c, http.StatusForbidden, "insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequirePermission enforces a legacy coarse permission.
func (m *MembershipMiddleware) RequirePermission(permission organization.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		membershipCtx := MembershipFromContext(c)
		if membershipCtx == nil {
			utils.ErrorResponse(c, http.StatusForbidden, "membership context not loaded")
			c.Abort()
			return
		}

		if !membershipCtx.HasPermission(permission) {
			utils.ErrorResponse(c, http.StatusForbidden, "insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireRole restricts the route to members holding one of the given
// static roles.
func (m *MembershipMiddleware) RequireRole(roles ...organization.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		membershipCtx := MembershipFromContext(c)
		if membershipCtx == nil {
			utils.ErrorResponse(c, http.StatusForbidden, "membership context not loaded")
			c.Abort()
			return
		}

		if !membershipCtx.HasRole(roles...) {
			utils.ErrorResponse(c, http.StatusForbidden, "insufficient role")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireOwner restricts the route to the organization owner.
func (m *MembershipMiddleware) RequireOwner() gin.HandlerFunc {
	return m.RequireRole(organization.RoleOwner)
}

// RequireAdmin restricts the route to owners and admins.
func (m *MembershipMiddleware) RequireAdmin() gin.HandlerFunc {
	return m.RequireRole(organization.RoleOwner, organization.RoleAdmin)
}

// MembershipFromContext returns the loaded membership context, or nil.
func MembershipFromContext(c *gin.Context) *organization.MembershipContext {
	v, exists := c.Get(constants.ContextKeyMembership)
	if !exists {
		return nil
	}
	ctx, ok := v.(*organization.MembershipContext)
	if !ok {
		return nil
	}
	return ctx
}

// OrganizationIDFromContext returns the resolved organization ID, or 0.
func OrganizationIDFromContext(c *gin.Context) uint {
	v, exists := c.Get(constants.ContextKeyOrganizationID)
	if !exists {
		return 0
	}
	id, ok := v.(uint)
	if !ok {
		return 0
	}
	return id
}
