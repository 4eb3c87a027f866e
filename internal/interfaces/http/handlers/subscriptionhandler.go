package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	orgapp "tessera/internal/application/organization"
	subapp "tessera/internal/application/subscription"
	"tessera/internal/domain/subscription"
	"tessera/internal/interfaces/http/middleware"
	"tessera/internal/shared/id"
	"tessera/internal/shared/logger"
	"tessera/internal/shared/utils"
)

// SubscriptionHandler serves both the admin console subscription
// operations and the tenant-facing billing view.
type SubscriptionHandler struct {
	subService *subapp.Service
	orgService *orgapp.Service
	logger     logger.Interface
}

func NewSubscriptionHandler(subService *subapp.Service, orgService *orgapp.Service, logger logger.Interface) *SubscriptionHandler {
	return &SubscriptionHandler{
		subService: subService,
		orgService: orgService,
		logger:     logger,
	}
}

// resolveOrgID maps the :orgSID path parameter to an internal ID for
// admin routes, which are not membership-scoped.
func (h *SubscriptionHandler) resolveOrgID(c *gin.Context) (uint, bool) {
	sid, err := utils.ParseSIDParam(c, "orgSID", id.PrefixOrganization, "organization")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return 0, false
	}

	org, err := h.orgService.GetBySID(c.Request.Context(), sid)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return 0, false
	}

	return org.ID, true
}

type StartSubscriptionRequest struct {
	PlanID           uint   `json:"plan_id" binding:"required"`
	BillingCycle     string `json:"billing_cycle" binding:"required,oneof=MONTHLY YEARLY"`
	WithTrial        bool   `json:"with_trial"`
	PaymentProvider  string `json:"payment_provider" binding:"max=50"`
	PaymentReference string `json:"payment_reference" binding:"max=100"`
}

func (h *SubscriptionHandler) StartSubscription(c *gin.Context) {
	orgID, ok := h.resolveOrgID(c)
	if !ok {
		return
	}

	var req StartSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	actorID, _ := middleware.CurrentUserID(c)

	result, err := h.subService.Start(c.Request.Context(), subapp.StartCommand{
		OrganizationID:   orgID,
		PlanID:           req.PlanID,
		BillingCycle:     subscription.BillingCycle(req.BillingCycle),
		WithTrial:        req.WithTrial,
		PaymentProvider:  req.PaymentProvider,
		PaymentReference: req.PaymentReference,
		ActorUserID:      actorID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result)
}

type ChangePlanRequest struct {
	PlanID       uint   `json:"plan_id" binding:"required"`
	BillingCycle string `json:"billing_cycle" binding:"required,oneof=MONTHLY YEARLY"`
	Note         string `json:"note" binding:"max=500"`
}

func (h *SubscriptionHandler) ChangePlan(c *gin.Context) {
	orgID, ok := h.resolveOrgID(c)
	if !ok {
		return
	}

	var req ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	actorID, _ := middleware.CurrentUserID(c)

	result, err := h.subService.ChangePlan(c.Request.Context(), subapp.ChangePlanCommand{
		OrganizationID: orgID,
		NewPlanID:      req.PlanID,
		BillingCycle:   subscription.BillingCycle(req.BillingCycle),
		ActorUserID:    actorID,
		Note:           req.Note,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

type ExtendTrialRequest struct {
	Days int    `json:"days" binding:"required,min=1,max=365"`
	Note string `json:"note" binding:"max=500"`
}

func (h *SubscriptionHandler) ExtendTrial(c *gin.Context) {
	orgID, ok := h.resolveOrgID(c)
	if !ok {
		return
	}

	var req ExtendTrialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	actorID, _ := middleware.CurrentUserID(c)

	result, err := h.subService.ExtendTrial(c.Request.Context(), subapp.ExtendTrialCommand{
		OrganizationID: orgID,
		Days:           req.Days,
		ActorUserID:    actorID,
		Note:           req.Note,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

type CancelSubscriptionRequest struct {
	Note string `json:"note" binding:"max=500"`
}

func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	orgID, ok := h.resolveOrgID(c)
	if !ok {
		return
	}

	var req CancelSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	actorID, _ := middleware.CurrentUserID(c)

	result, err := h.subService.Cancel(c.Request.Context(), subapp.CancelCommand{
		OrganizationID: orgID,
		ActorUserID:    actorID,
		Note:           req.Note,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

type OverrideSubscriptionRequest struct {
	Status string `json:"status" binding:"required,oneof=TRIAL ACTIVE PAST_DUE CANCELED EXPIRED"`
	Note   string `json:"note" binding:"required,max=500"`
}

// OverrideSubscription force-sets a subscription status. The note is
// mandatory and lands in both the change history and the audit log.
func (h *SubscriptionHandler) OverrideSubscription(c *gin.Context) {
	orgID, ok := h.resolveOrgID(c)
	if !ok {
		return
	}

	var req OverrideSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	actorID, _ := middleware.CurrentUserID(c)

	result, err := h.subService.Override(c.Request.Context(), subapp.OverrideCommand{
		OrganizationID: orgID,
		Status:         subscription.Status(req.Status),
		ActorUserID:    actorID,
		Note:           req.Note,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	orgID, ok := h.resolveOrgID(c)
	if !ok {
		return
	}

	result, err := h.subService.GetForOrganization(c.Request.Context(), orgID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

func (h *SubscriptionHandler) GetHistory(c *gin.Context) {
	orgID, ok := h.resolveOrgID(c)
	if !ok {
		return
	}

	pagination := utils.ParsePagination(c)

	entries, total, err := h.subService.History(c.Request.Context(), orgID, pagination.Page, pagination.PageSize)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, entries, total, pagination.Page, pagination.PageSize)
}

// Revenue returns platform-wide revenue metrics.
func (h *SubscriptionHandler) Revenue(c *gin.Context) {
	result, err := h.subService.Revenue(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// Tenant-facing billing views below use the membership-resolved
// organization instead of the admin SID lookup.

func (h *SubscriptionHandler) GetOwnSubscription(c *gin.Context) {
	orgID := middleware.OrganizationIDFromContext(c)

	result, err := h.subService.GetForOrganization(c.Request.Context(), orgID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

func (h *SubscriptionHandler) GetOwnHistory(c *gin.Context) {
	orgID := middleware.OrganizationIDFromContext(c)
	pagination := utils.ParsePagination(c)

	entries, total, err := h.subService.History(c.Request.Context(), orgID, pagination.Page, pagination.PageSize)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, entries, total, pagination.Page, pagination.PageSize)
}
