package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	orgapp "tessera/internal/application/organization"
	"tessera/internal/interfaces/http/middleware"
	"tessera/internal/shared/id"
	"tessera/internal/shared/logger"
	"tessera/internal/shared/utils"
)

type OrganizationHandler struct {
	orgService *orgapp.Service
	logger     logger.Interface
}

func NewOrganizationHandler(orgService *orgapp.Service, logger logger.Interface) *OrganizationHandler {
	return &OrganizationHandler{
		orgService: orgService,
		logger:     logger,
	}
}

type CreateOrganizationRequest struct {
	Name string `json:"name" binding:"required,max=120"`
}

// CreateOrganization creates an organization owned by the caller.
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	result, err := h.orgService.Create(c.Request.Context(), orgapp.CreateCommand{
		Name:        req.Name,
		OwnerUserID: userID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result)
}

// ListMyOrganizations lists the organizations the caller belongs to.
func (h *OrganizationHandler) ListMyOrganizations(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	orgs, err := h.orgService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, orgs)
}

// GetOrganization returns the organization resolved by the membership
// middleware.
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	orgID := middleware.OrganizationIDFromContext(c)

	result, err := h.orgService.Get(c.Request.Context(), orgID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

type RenameOrganizationRequest struct {
	Name string `json:"name" binding:"required,max=120"`
}

func (h *OrganizationHandler) RenameOrganization(c *gin.Context) {
	orgID := middleware.OrganizationIDFromContext(c)
	actorID, _ := middleware.CurrentUserID(c)

	var req RenameOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	result, err := h.orgService.Rename(c.Request.Context(), orgapp.RenameCommand{
		OrganizationID: orgID,
		Name:           req.Name,
		ActorUserID:    actorID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

type TransferOwnershipRequest struct {
	NewOwnerUserID uint `json:"new_owner_user_id" binding:"required"`
}

func (h *OrganizationHandler) TransferOwnership(c *gin.Context) {
	orgID := middleware.OrganizationIDFromContext(c)
	actorID, _ := middleware.CurrentUserID(c)

	var req TransferOwnershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	err := h.orgService.TransferOwnership(c.Request.Context(), orgapp.TransferOwnershipCommand{
		OrganizationID: orgID,
		NewOwnerUserID: req.NewOwnerUserID,
		ActorUserID:    actorID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "ownership transferred", nil)
}

func (h *OrganizationHandler) DeleteOrganization(c *gin.Context) {
	orgID := middleware.OrganizationIDFromContext(c)
	actorID, _ := middleware.CurrentUserID(c)

	err := h.orgService.Delete(c.Request.Context(), orgapp.DeleteCommand{
		OrganizationID: orgID,
		ActorUserID:    actorID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// Admin console endpoints below operate on any organization by SID.

func (h *OrganizationHandler) AdminListOrganizations(c *gin.Context) {
	pagination := utils.ParsePagination(c)
	name := c.Query("name")

	orgs, total, err := h.orgService.List(c.Request.Context(), name, pagination)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, orgs, total, pagination.Page, pagination.PageSize)
}

func (h *OrganizationHandler) AdminGetOrganization(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "orgSID", id.PrefixOrganization, "organization")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.orgService.GetBySID(c.Request.Context(), sid)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

func (h *OrganizationHandler) AdminSuspendOrganization(c *gin.Context) {
	h.adminSetStatus(c, true)
}

func (h *OrganizationHandler) AdminActivateOrganization(c *gin.Context) {
	h.adminSetStatus(c, false)
}

func (h *OrganizationHandler) adminSetStatus(c *gin.Context, suspend bool) {
	sid, err := utils.ParseSIDParam(c, "orgSID", id.PrefixOrganization, "organization")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	org, err := h.orgService.GetBySID(c.Request.Context(), sid)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	actorID, _ := middleware.CurrentUserID(c)

	if suspend {
		err = h.orgService.Suspend(c.Request.Context(), org.ID, actorID)
	} else {
		err = h.orgService.Activate(c.Request.Context(), org.ID, actorID)
	}
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "organization status updated", nil)
}
