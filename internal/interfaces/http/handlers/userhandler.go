package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	userapp "tessera/internal/application/user"
	"tessera/internal/domain/authz"
	"tessera/internal/interfaces/http/middleware"
	"tessera/internal/shared/logger"
	"tessera/internal/shared/utils"
)

// UserHandler serves the platform admin user directory.
type UserHandler struct {
	userService *userapp.Service
	logger      logger.Interface
}

func NewUserHandler(userService *userapp.Service, logger logger.Interface) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	pagination := utils.ParsePagination(c)
	search := c.Query("search")

	users, total, err := h.userService.List(c.Request.Context(), search, pagination.Page, pagination.PageSize)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, users, total, pagination.Page, pagination.PageSize)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	userID, err := parseUserIDParam(c)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid user ID")
		return
	}

	result, err := h.userService.Get(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

type SetGlobalRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=SUPER_ADMIN ADMIN SUPPORT USER"`
}

func (h *UserHandler) SetGlobalRole(c *gin.Context) {
	userID, err := parseUserIDParam(c)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid user ID")
		return
	}

	var req SetGlobalRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, utils.BindingErrorMessage(err))
		return
	}

	actorID, _ := middleware.CurrentUserID(c)

	err = h.userService.SetGlobalRole(c.Request.Context(), userapp.SetGlobalRoleCommand{
		UserID:      userID,
		Role:        authz.ParseGlobalRole(req.Role),
		ActorUserID: actorID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "global role updated", nil)
}

func (h *UserHandler) SuspendUser(c *gin.Context) {
	userID, err := parseUserIDParam(c)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid user ID")
		return
	}

	if err := h.userService.Suspend(c.Request.Context(), userID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "user suspended", nil)
}

func (h *UserHandler) ActivateUser(c *gin.Context) {
	userID, err := parseUserIDParam(c)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid user ID")
		return
	}

	if err := h.userService.Activate(c.Request.Context(), userID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "user activated", nil)
}

func parseUserIDParam(c *gin.Context) (uint, error) {
	raw := c.Param("userID")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, strconv.ErrSyntax
	}
	return uint(id), nil
}
