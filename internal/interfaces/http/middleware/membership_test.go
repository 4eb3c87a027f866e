package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tessera/internal/domain/organization"
	"tessera/internal/shared/constants"
	"tessera/internal/shared/logger"
)

func membershipContextFor(t *testing.T, role organization.Role, customRole *organization.CustomRole) *organization.MembershipContext {
	t.Helper()
	m, err := organization.NewMembership(2, 1, role)
	require.NoError(t, err)
	return organization.NewMembershipContext(m, customRole)
}

func performGet(router *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	router.ServeHTTP(w, req)
	return w
}

func setupMembershipRouter(mc *organization.MembershipContext, guard gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/resource", func(c *gin.Context) {
		if mc != nil {
			c.Set(constants.ContextKeyMembership, mc)
		}
		c.Next()
	}, guard, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestRequireModuleAction_MissingContext(t *testing.T) {
	m := NewMembershipMiddleware(nil, logger.NewLogger())
	router := setupMembershipRouter(nil, m.RequireModuleAction(organization.ModuleCRM, organization.ActionRead))

	w := performGet(router)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireModuleAction_OwnerAllowed(t *testing.T) {
	m := NewMembershipMiddleware(nil, logger.NewLogger())
	mc := membershipContextFor(t, organization.RoleOwner, nil)
	router := setupMembershipRouter(mc, m.RequireModuleAction(organization.ModuleFinance, organization.ActionDelete))

	w := performGet(router)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireModuleAction_GrantEnforced(t *testing.T) {
	role, err := organization.NewCustomRole(1, "crm-reader", "", []organization.ModuleGrant{
		{Module: organization.ModuleCRM, Actions: []organization.Action{organization.ActionRead}},
	})
	require.NoError(t, err)

	m := NewMembershipMiddleware(nil, logger.NewLogger())
	mc := membershipContextFor(t, organization.RoleMember, role)

	allowed := setupMembershipRouter(mc, m.RequireModuleAction(organization.ModuleCRM, organization.ActionRead))
	w := performGet(allowed)
	assert.Equal(t, http.StatusOK, w.Code)

	denied := setupMembershipRouter(mc, m.RequireModuleAction(organization.ModuleCRM, organization.ActionDelete))
	w = performGet(denied)
	assert.Equal(t, http.StatusForbidden, w.Code)

	otherModule := setupMembershipRouter(mc, m.RequireModuleAction(organization.ModuleFinance, organization.ActionRead))
	w = performGet(otherModule)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRole(t *testing.T) {
	m := NewMembershipMiddleware(nil, logger.NewLogger())

	admin := membershipContextFor(t, organization.RoleAdmin, nil)
	member := membershipContextFor(t, organization.RoleMember, nil)

	adminRouter := setupMembershipRouter(admin, m.RequireAdmin())
	w := performGet(adminRouter)
	assert.Equal(t, http.StatusOK, w.Code)

	memberRouter := setupMembershipRouter(member, m.RequireAdmin())
	w = performGet(memberRouter)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireOwner(t *testing.T) {
	m := NewMembershipMiddleware(nil, logger.NewLogger())

	owner := membershipContextFor(t, organization.RoleOwner, nil)
	admin := membershipContextFor(t, organization.RoleAdmin, nil)

	ownerRouter := setupMembershipRouter(owner, m.RequireOwner())
	w := performGet(ownerRouter)
	assert.Equal(t, http.StatusOK, w.Code)

	adminRouter := setupMembershipRouter(admin, m.RequireOwner())
	w = performGet(adminRouter)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
