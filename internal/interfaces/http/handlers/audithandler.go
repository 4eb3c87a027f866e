package handlers

import (
	"github.com/gin-gonic/gin"

	auditapp "tessera/internal/application/audit"
	"tessera/internal/interfaces/http/middleware"
	"tessera/internal/shared/logger"
	"tessera/internal/shared/utils"
)

// AuditHandler serves the append-only audit trail. There are no write
// endpoints; entries are recorded by the application services.
type AuditHandler struct {
	auditService *auditapp.Service
	logger       logger.Interface
}

func NewAuditHandler(auditService *auditapp.Service, logger logger.Interface) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
		logger:       logger,
	}
}

// ListAuditLog is the platform-wide admin view with full filtering.
func (h *AuditHandler) ListAuditLog(c *gin.Context) {
	pagination := utils.ParsePagination(c)

	var actorID uint
	if raw := c.Query("actor_user_id"); raw != "" {
		if n, err := parseUintQuery(raw); err == nil {
			actorID = n
		}
	}

	var orgID uint
	if raw := c.Query("organization_id"); raw != "" {
		if n, err := parseUintQuery(raw); err == nil {
			orgID = n
		}
	}

	entries, total, err := h.auditService.List(c.Request.Context(), auditapp.ListQuery{
		ActorUserID:    actorID,
		OrganizationID: orgID,
		Action:         c.Query("action"),
		TargetType:     c.Query("target_type"),
		From:           parseTimeQuery(c, "from"),
		To:             parseTimeQuery(c, "to"),
		Page:           pagination.Page,
		PageSize:       pagination.PageSize,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, entries, total, pagination.Page, pagination.PageSize)
}

// ListOrganizationAuditLog is the tenant view, pinned to the membership
// organization regardless of query parameters.
func (h *AuditHandler) ListOrganizationAuditLog(c *gin.Context) {
	orgID := middleware.OrganizationIDFromContext(c)
	pagination := utils.ParsePagination(c)

	entries, total, err := h.auditService.List(c.Request.Context(), auditapp.ListQuery{
		OrganizationID: orgID,
		Action:         c.Query("action"),
		From:           parseTimeQuery(c, "from"),
		To:             parseTimeQuery(c, "to"),
		Page:           pagination.Page,
		PageSize:       pagination.PageSize,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, entries, total, pagination.Page, pagination.PageSize)
}
