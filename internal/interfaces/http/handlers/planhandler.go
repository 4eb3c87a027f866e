package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	subapp "tessera/internal/application/subscription"
	"tessera/internal/interfaces/http/middleware"
	"tessera/internal/shared/logger"
	"tessera/internal/shared/utils"
)

type PlanHandler struct {
	planService *subapp.PlanService
	logger      logger.Interface
}

func NewPlanHandler(planService *subapp.PlanService, logger logger.Interface) *PlanHandler {
	return &PlanHandler{
		planService: planService,
		logger:      logger,
	}
}

type CreatePlanRequest struct {
	Name        string `json:"name" binding:"required,max=80"`
	Description string `json:"description" binding:"max=500"`
	Price       int64  `json:"price" binding:"min=0"`
	YearlyPrice int64  `json:"yearly_price" binding:"min=0"`
	TrialDays   int    `json:"trial_days" binding:"min=0"`
}

func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create plan", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	actorID, _ := middleware.CurrentUserID(c)

	result, err := h.planService.CreatePlan(c.Request.Context(), subapp.CreatePlanCommand{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		YearlyPrice: req.YearlyPrice,
		TrialDays:   req.TrialDays,
		ActorUserID: actorID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result)
}

func (h *PlanHandler) GetPlan(c *gin.Context) {
	planID, err := parsePlanIDParam(c)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid plan ID")
		return
	}

	result, err := h.planService.GetPlan(c.Request.Context(), planID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

func (h *PlanHandler) ListPlans(c *gin.Context) {
	includeArchived := c.Query("include_archived") == "true"

	plans, err := h.planService.ListPlans(c.Request.Context(), includeArchived)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, plans)
}

type UpdatePlanRequest struct {
	Name        string `json:"name" binding:"required,max=80"`
	Description string `json:"description" binding:"max=500"`
	Price       int64  `json:"price" binding:"min=0"`
	YearlyPrice int64  `json:"yearly_price" binding:"min=0"`
	TrialDays   int    `json:"trial_days" binding:"min=0"`
}

func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	planID, err := parsePlanIDParam(c)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid plan ID")
		return
	}

	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	actorID, _ := middleware.CurrentUserID(c)

	result, err := h.planService.UpdatePlan(c.Request.Context(), subapp.UpdatePlanCommand{
		PlanID:      planID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		YearlyPrice: req.YearlyPrice,
		TrialDays:   req.TrialDays,
		ActorUserID: actorID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// ArchivePlan retires a plan from new subscriptions. Existing
// subscriptions keep running on it.
func (h *PlanHandler) ArchivePlan(c *gin.Context) {
	planID, err := parsePlanIDParam(c)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid plan ID")
		return
	}

	actorID, _ := middleware.CurrentUserID(c)

	if err := h.planService.ArchivePlan(c.Request.Context(), planID, actorID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "plan archived", nil)
}

func parsePlanIDParam(c *gin.Context) (uint, error) {
	raw := c.Param("planID")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, strconv.ErrSyntax
	}
	return uint(id), nil
}
