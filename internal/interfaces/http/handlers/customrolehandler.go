package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	orgapp "tessera/internal/application/organization"
	"tessera/internal/domain/organization"
	"tessera/internal/interfaces/http/middleware"
	"tessera/internal/shared/logger"
	"tessera/internal/shared/utils"
)

// CustomRoleHandler manages organization-scoped custom roles.
type CustomRoleHandler struct {
	memberService *orgapp.MemberService
	logger        logger.Interface
}

func NewCustomRoleHandler(memberService *orgapp.MemberService, logger logger.Interface) *CustomRoleHandler {
	return &CustomRoleHandler{
		memberService: memberService,
		logger:        logger,
	}
}

type ModuleGrantInput struct {
	Module  string   `json:"module" binding:"required"`
	Actions []string `json:"actions" binding:"required,min=1"`
}

type CreateCustomRoleRequest struct {
	Name        string             `json:"name" binding:"required,max=80"`
	Description string             `json:"description" binding:"max=255"`
	Grants      []ModuleGrantInput `json:"grants" binding:"required"`
}

func (h *CustomRoleHandler) CreateCustomRole(c *gin.Context) {
	orgID := middleware.OrganizationIDFromContext(c)
	actorID, _ := middleware.CurrentUserID(c)

	var req CreateCustomRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	result, err := h.memberService.CreateCustomRole(c.Request.Context(), orgapp.CreateCustomRoleCommand{
		OrganizationID: orgID,
		Name:           req.Name,
		Description:    req.Description,
		Grants:         toModuleGrants(req.Grants),
		ActorUserID:    actorID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result)
}

func (h *CustomRoleHandler) ListCustomRoles(c *gin.Context) {
	orgID := middleware.OrganizationIDFromContext(c)

	roles, err := h.memberService.ListCustomRoles(c.Request.Context(), orgID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, roles)
}

type UpdateCustomRoleRequest struct {
	Name        string             `json:"name" binding:"required,max=80"`
	Description string             `json:"description" binding:"max=255"`
	Grants      []ModuleGrantInput `json:"grants" binding:"required"`
}

func (h *CustomRoleHandler) UpdateCustomRole(c *gin.Context) {
	orgID := middleware.OrganizationIDFromContext(c)
	actorID, _ := middleware.CurrentUserID(c)

	roleID, err := parseRoleIDParam(c)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid role ID")
		return
	}

	var req UpdateCustomRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	result, err := h.memberService.UpdateCustomRole(c.Request.Context(), orgapp.UpdateCustomRoleCommand{
		OrganizationID: orgID,
		CustomRoleID:   roleID,
		Name:           req.Name,
		Description:    req.Description,
		Grants:         toModuleGrants(req.Grants),
		ActorUserID:    actorID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

func (h *CustomRoleHandler) DeleteCustomRole(c *gin.Context) {
	orgID := middleware.OrganizationIDFromContext(c)
	actorID, _ := middleware.CurrentUserID(c)

	roleID, err := parseRoleIDParam(c)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid role ID")
		return
	}

	err = h.memberService.DeleteCustomRole(c.Request.Context(), orgapp.DeleteCustomRoleCommand{
		OrganizationID: orgID,
		CustomRoleID:   roleID,
		ActorUserID:    actorID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

func toModuleGrants(inputs []ModuleGrantInput) []organization.ModuleGrant {
	grants := make([]organization.ModuleGrant, 0, len(inputs))
	for _, in := range inputs {
		actions := make([]organization.Action, 0, len(in.Actions))
		for _, a := range in.Actions {
			actions = append(actions, organization.Action(a))
		}
		grants = append(grants, organization.ModuleGrant{
			Module:  organization.Module(in.Module),
			Actions: actions,
		})
	}
	return grants
}

func parseRoleIDParam(c *gin.Context) (uint, error) {
	raw := c.Param("roleID")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, strconv.ErrSyntax
	}
	return uint(id), nil
}
