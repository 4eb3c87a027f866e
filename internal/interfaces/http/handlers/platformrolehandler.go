package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	authzapp "tessera/internal/application/authz"
	"tessera/internal/interfaces/http/middleware"
	"tessera/internal/shared/logger"
	"tessera/internal/shared/utils"
)

// PlatformRoleHandler manages the platform role catalog and role
// assignments for the admin console.
type PlatformRoleHandler struct {
	authzService *authzapp.Service
	logger       logger.Interface
}

func NewPlatformRoleHandler(authzService *authzapp.Service, logger logger.Interface) *PlatformRoleHandler {
	return &PlatformRoleHandler{
		authzService: authzService,
		logger:       logger,
	}
}

// ListCatalog returns every known platform permission.
func (h *PlatformRoleHandler) ListCatalog(c *gin.Context) {
	utils.OKResponse(c, h.authzService.ListCatalog())
}

type CreatePlatformRoleRequest struct {
	Name        string   `json:"name" binding:"required,max=50"`
	Description string   `json:"description" binding:"max=255"`
	Permissions []string `json:"permissions" binding:"required"`
}

func (h *PlatformRoleHandler) CreateRole(c *gin.Context) {
	var req CreatePlatformRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	result, err := h.authzService.CreateRole(c.Request.Context(), authzapp.CreateRoleCommand{
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result)
}

func (h *PlatformRoleHandler) GetRole(c *gin.Context) {
	roleID, err := parsePlatformRoleIDParam(c)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid role ID")
		return
	}

	result, err := h.authzService.GetRole(c.Request.Context(), roleID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

func (h *PlatformRoleHandler) ListRoles(c *gin.Context) {
	pagination := utils.ParsePagination(c)

	roles, total, err := h.authzService.ListRoles(c.Request.Context(), pagination)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, roles, total, pagination.Page, pagination.PageSize)
}

type UpdatePlatformRoleRequest struct {
	Description *string   `json:"description"`
	Permissions *[]string `json:"permissions"`
}

func (h *PlatformRoleHandler) UpdateRole(c *gin.Context) {
	roleID, err := parsePlatformRoleIDParam(c)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid role ID")
		return
	}

	var req UpdatePlatformRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	result, err := h.authzService.UpdateRole(c.Request.Context(), authzapp.UpdateRoleCommand{
		RoleID:      roleID,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

func (h *PlatformRoleHandler) DeleteRole(c *gin.Context) {
	roleID, err := parsePlatformRoleIDParam(c)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid role ID")
		return
	}

	if err := h.authzService.DeleteRole(c.Request.Context(), roleID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

type AssignPlatformRoleRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

func (h *PlatformRoleHandler) AssignRole(c *gin.Context) {
	roleID, err := parsePlatformRoleIDParam(c)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid role ID")
		return
	}

	var req AssignPlatformRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	actorID, _ := middleware.CurrentUserID(c)

	err = h.authzService.AssignRole(c.Request.Context(), authzapp.AssignRoleCommand{
		UserID:     req.UserID,
		RoleID:     roleID,
		AssignedBy: actorID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "role assigned", nil)
}

func (h *PlatformRoleHandler) RevokeRole(c *gin.Context) {
	roleID, err := parsePlatformRoleIDParam(c)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid role ID")
		return
	}

	userID, err := strconv.ParseUint(c.Param("userID"), 10, 32)
	if err != nil || userID == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid user ID")
		return
	}

	if err := h.authzService.RevokeRole(c.Request.Context(), uint(userID), roleID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// ListUserAssignments returns a user's platform role assignments.
func (h *PlatformRoleHandler) ListUserAssignments(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userID"), 10, 32)
	if err != nil || userID == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid user ID")
		return
	}

	assignments, err := h.authzService.ListUserAssignments(c.Request.Context(), uint(userID))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, assignments)
}

func parsePlatformRoleIDParam(c *gin.Context) (uint, error) {
	raw := c.Param("roleID")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, strconv.ErrSyntax
	}
	return uint(id), nil
}
