package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	crmapp "tessera/internal/application/crm"
	"tessera/internal/interfaces/http/middleware"
	"tessera/internal/shared/id"
	"tessera/internal/shared/logger"
	"tessera/internal/shared/utils"
)

type LeadHandler struct {
	crmService *crmapp.Service
	logger     logger.Interface
}

func NewLeadHandler(crmService *crmapp.Service, logger logger.Interface) *LeadHandler {
	return &LeadHandler{
		crmService: crmService,
		logger:     logger,
	}
}

type CreateLeadRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone" binding:"max=30"`
	Company string `json:"company" binding:"max=200"`
}

func (h *LeadHandler) CreateLead(c *gin.Context) {
	orgID := middleware.OrganizationIDFromContext(c)
	actorID, _ := middleware.CurrentUserID(c)

	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	result, err := h.crmService.CreateLead(c.Request.Context(), crmapp.CreateLeadCommand{
		OrganizationID: orgID,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Company:        req.Company,
		ActorUserID:    actorID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result)
}

func (h *LeadHandler) GetLead(c *gin.Context) {
	orgID := middleware.OrganizationIDFromContext(c)

	sid, err := utils.ParseSIDParam(c, "leadSID", id.PrefixLead, "lead")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.crmService.GetLead(c.Request.Context(), orgID, sid)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

func (h *LeadHandler) ListLeads(c *gin.Context) {
	orgID := middleware.OrganizationIDFromContext(c)
	pagination := utils.ParsePagination(c)

	var assigneeID uint
	if raw := c.Query("assignee_user_id"); raw != "" {
		if n, parseErr := parseUintQuery(raw); parseErr == nil {
			assigneeID = n
		}
	}

	leads, total, err := h.crmService.ListLeads(c.Request.Context(), crmapp.ListLeadsQuery{
		OrganizationID: orgID,
		Status:         c.Query("status"),
		AssigneeUserID: assigneeID,
		Search:         c.Query("search"),
		Page:           pagination.Page,
		PageSize:       pagination.PageSize,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, leads, total, pagination.Page, pagination.PageSize)
}

type UpdateLeadRequest struct {
	Name    string  `json:"name" binding:"required,max=200"`
	Email   string  `json:"email" binding:"omitempty,email"`
	Phone   string  `json:"phone" binding:"max=30"`
	Company string  `json:"company" binding:"max=200"`
	Status  string  `json:"status" binding:"required,oneof=NEW CONTACTED QUALIFIED WON LOST"`
	Notes   *string `json:"notes"`
}

func (h *LeadHandler) UpdateLead(c *gin.Context) {
	orgID := middleware.OrganizationIDFromContext(c)
	actorID, _ := middleware.CurrentUserID(c)

	sid, err := utils.ParseSIDParam(c, "leadSID", id.PrefixLead, "lead")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	result, err := h.crmService.UpdateLead(c.Request.Context(), crmapp.UpdateLeadCommand{
		OrganizationID: orgID,
		SID:            sid,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Company:        req.Company,
		Status:         req.Status,
		Notes:          req.Notes,
		ActorUserID:    actorID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

type AssignLeadRequest struct {
	AssigneeUserID uint `json:"assignee_user_id"`
}

// AssignLead sets the lead assignee. A zero assignee_user_id unassigns.
func (h *LeadHandler) AssignLead(c *gin.Context) {
	orgID := middleware.OrganizationIDFromContext(c)
	actorID, _ := middleware.CurrentUserID(c)

	sid, err := utils.ParseSIDParam(c, "leadSID", id.PrefixLead, "lead")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req AssignLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	result, err := h.crmService.AssignLead(c.Request.Context(), crmapp.AssignLeadCommand{
		OrganizationID: orgID,
		SID:            sid,
		AssigneeUserID: req.AssigneeUserID,
		ActorUserID:    actorID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

func (h *LeadHandler) DeleteLead(c *gin.Context) {
	orgID := middleware.OrganizationIDFromContext(c)
	actorID, _ := middleware.CurrentUserID(c)

	sid, err := utils.ParseSIDParam(c, "leadSID", id.PrefixLead, "lead")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.crmService.DeleteLead(c.Request.Context(), orgID, sid, actorID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
