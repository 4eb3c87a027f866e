package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	financeapp "tessera/internal/application/finance"
	"tessera/internal/interfaces/http/middleware"
	"tessera/internal/shared/id"
	"tessera/internal/shared/logger"
	"tessera/internal/shared/utils"
)

type FinanceHandler struct {
	financeService *financeapp.Service
	logger         logger.Interface
}

func NewFinanceHandler(financeService *financeapp.Service, logger logger.Interface) *FinanceHandler {
	return &FinanceHandler{
		financeService: financeService,
		logger:         logger,
	}
}

type CreateEntryRequest struct {
	Type        string    `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Amount      int64     `json:"amount" binding:"required,min=1"`
	Currency    string    `json:"currency" binding:"required,len=3"`
	Category    string    `json:"category" binding:"required,max=50"`
	Description string    `json:"description" binding:"max=500"`
	OccurredAt  time.Time `json:"occurred_at" binding:"required"`
}

func (h *FinanceHandler) CreateEntry(c *gin.Context) {
	orgID := middleware.OrganizationIDFromContext(c)
	actorID, _ := middleware.CurrentUserID(c)

	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	result, err := h.financeService.CreateEntry(c.Request.Context(), financeapp.CreateEntryCommand{
		OrganizationID: orgID,
		Type:           req.Type,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Category:       req.Category,
		Description:    req.Description,
		OccurredAt:     req.OccurredAt,
		ActorUserID:    actorID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result)
}

func (h *FinanceHandler) GetEntry(c *gin.Context) {
	orgID := middleware.OrganizationIDFromContext(c)

	sid, err := utils.ParseSIDParam(c, "entrySID", id.PrefixFinanceEntry, "finance entry")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.financeService.GetEntry(c.Request.Context(), orgID, sid)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

func (h *FinanceHandler) ListEntries(c *gin.Context) {
	orgID := middleware.OrganizationIDFromContext(c)
	pagination := utils.ParsePagination(c)

	from := parseTimeQuery(c, "from")
	to := parseTimeQuery(c, "to")

	entries, total, err := h.financeService.ListEntries(c.Request.Context(), financeapp.ListEntriesQuery{
		OrganizationID: orgID,
		Type:           c.Query("type"),
		Category:       c.Query("category"),
		From:           from,
		To:             to,
		Page:           pagination.Page,
		PageSize:       pagination.PageSize,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, entries, total, pagination.Page, pagination.PageSize)
}

type UpdateEntryRequest struct {
	Type        string    `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Amount      int64     `json:"amount" binding:"required,min=1"`
	Category    string    `json:"category" binding:"required,max=50"`
	Description string    `json:"description" binding:"max=500"`
	OccurredAt  time.Time `json:"occurred_at" binding:"required"`
}

func (h *FinanceHandler) UpdateEntry(c *gin.Context) {
	orgID := middleware.OrganizationIDFromContext(c)
	actorID, _ := middleware.CurrentUserID(c)

	sid, err := utils.ParseSIDParam(c, "entrySID", id.PrefixFinanceEntry, "finance entry")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	result, err := h.financeService.UpdateEntry(c.Request.Context(), financeapp.UpdateEntryCommand{
		OrganizationID: orgID,
		SID:            sid,
		Type:           req.Type,
		Amount:         req.Amount,
		Category:       req.Category,
		Description:    req.Description,
		OccurredAt:     req.OccurredAt,
		ActorUserID:    actorID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

func (h *FinanceHandler) DeleteEntry(c *gin.Context) {
	orgID := middleware.OrganizationIDFromContext(c)
	actorID, _ := middleware.CurrentUserID(c)

	sid, err := utils.ParseSIDParam(c, "entrySID", id.PrefixFinanceEntry, "finance entry")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.financeService.DeleteEntry(c.Request.Context(), orgID, sid, actorID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// MonthlySummary returns per-month income, expense and net totals. The
// range defaults to the trailing 12 months when omitted.
func (h *FinanceHandler) MonthlySummary(c *gin.Context) {
	orgID := middleware.OrganizationIDFromContext(c)

	var from, to time.Time
	if v := parseTimeQuery(c, "from"); v != nil {
		from = *v
	}
	if v := parseTimeQuery(c, "to"); v != nil {
		to = *v
	}

	summaries, err := h.financeService.MonthlySummary(c.Request.Context(), orgID, from, to)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, summaries)
}

func parseTimeQuery(c *gin.Context, key string) *time.Time {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t
	}
	return nil
}

func parseUintQuery(raw string) (uint, error) {
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(n), nil
}
