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

type MemberHandler struct {
	memberService *orgapp.MemberService
	logger        logger.Interface
}

func NewMemberHandler(memberService *orgapp.MemberService, logger logger.Interface) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
		logger:        logger,
	}
}

type AddMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=ADMIN MEMBER"`
}

func (h *MemberHandler) AddMember(c *gin.Context) {
	orgID := middleware.OrganizationIDFromContext(c)
	actorID, _ := middleware.CurrentUserID(c)

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	result, err := h.memberService.AddMember(c.Request.Context(), orgapp.AddMemberCommand{
		OrganizationID: orgID,
		Email:          req.Email,
		Role:           organization.Role(req.Role),
		ActorUserID:    actorID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result)
}

func (h *MemberHandler) ListMembers(c *gin.Context) {
	orgID := middleware.OrganizationIDFromContext(c)

	members, err := h.memberService.ListMembers(c.Request.Context(), orgID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, members)
}

type ChangeMemberRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=ADMIN MEMBER"`
}

func (h *MemberHandler) ChangeMemberRole(c *gin.Context) {
	orgID := middleware.OrganizationIDFromContext(c)
	actorID, _ := middleware.CurrentUserID(c)

	memberUserID, err := parseMemberUserIDParam(c)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid member user ID")
		return
	}

	var req ChangeMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	err = h.memberService.ChangeMemberRole(c.Request.Context(), orgapp.ChangeMemberRoleCommand{
		OrganizationID: orgID,
		MemberUserID:   memberUserID,
		NewRole:        organization.Role(req.Role),
		ActorUserID:    actorID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "member role updated", nil)
}

func (h *MemberHandler) RemoveMember(c *gin.Context) {
	orgID := middleware.OrganizationIDFromContext(c)
	actorID, _ := middleware.CurrentUserID(c)

	memberUserID, err := parseMemberUserIDParam(c)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid member user ID")
		return
	}

	err = h.memberService.RemoveMember(c.Request.Context(), orgapp.RemoveMemberCommand{
		OrganizationID: orgID,
		MemberUserID:   memberUserID,
		ActorUserID:    actorID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

type AssignCustomRoleRequest struct {
	CustomRoleID *uint `json:"custom_role_id"`
}

// AssignCustomRole sets or clears a member's custom role. A null
// custom_role_id reverts the member to their static role's defaults.
func (h *MemberHandler) AssignCustomRole(c *gin.Context) {
	orgID := middleware.OrganizationIDFromContext(c)
	actorID, _ := middleware.CurrentUserID(c)

	memberUserID, err := parseMemberUserIDParam(c)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid member user ID")
		return
	}

	var req AssignCustomRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	err = h.memberService.AssignCustomRole(c.Request.Context(), orgapp.AssignCustomRoleCommand{
		OrganizationID: orgID,
		MemberUserID:   memberUserID,
		CustomRoleID:   req.CustomRoleID,
		ActorUserID:    actorID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "custom role assignment updated", nil)
}

func parseMemberUserIDParam(c *gin.Context) (uint, error) {
	raw := c.Param("userID")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, strconv.ErrSyntax
	}
	return uint(id), nil
}
