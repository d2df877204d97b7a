package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"rideshare-backend/internal/common/errors"
	"rideshare-backend/internal/common/middleware"
	"rideshare-backend/internal/features/user/models"
	"rideshare-backend/internal/features/user/service"
)

type UserHandler struct {
	service service.UserService
	logger  zerolog.Logger
}

func NewUserHandler(service service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes expects router to already run TelegramInitDataMiddleware.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup, adminIDs []int64) {
	requireAdmin := middleware.RequireAdmin(adminIDs, h.logger)

	users := router.Group("/users")
	{
		users.GET("", requireAdmin, h.ListUsers)
		users.GET("/me", h.getMe)
		users.GET("/:id", h.GetUser)
		users.PUT("/:id/status", requireAdmin, h.UpdateUserStatus)
		users.PUT("/:id/role", requireAdmin, h.UpdateUserRole)
		users.DELETE("/:id", requireAdmin, h.DeleteUser)
	}
}

// @Summary Get current user
// @Description Get the current user, created from Telegram init data on first request.
// @Tags users
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} models.UserResponse "User data"
// @Failure 401 {object} middleware.ErrorResponse "Missing or invalid init data"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /users/me [get]
func (h *UserHandler) getMe(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		middleware.AbortWithError(c, h.logger, errors.NewUnauthorizedError("Telegram init data required"))
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), identity.ID)
	if err != nil {
		middleware.AbortWithError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Get user by ID
// @Tags users
// @Produce json
// @Security TelegramInitData
// @Param id path int true "User ID"
// @Success 200 {object} models.UserResponse "User data"
// @Failure 400 {object} middleware.ErrorResponse "Invalid request"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		middleware.AbortWithError(c, h.logger, errors.NewValidationError("id", "must be an integer"))
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		middleware.AbortWithError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Update user status
// @Description Update user status (admin only)
// @Tags users
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param id path int true "User ID"
// @Param status body models.StatusUpdate true "New status"
// @Success 200 {object} models.UserResponse "Updated user data"
// @Failure 400 {object} middleware.ErrorResponse "Invalid request"
// @Failure 403 {object} middleware.ErrorResponse "Forbidden - not an admin"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Router /users/{id}/status [put]
func (h *UserHandler) UpdateUserStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		middleware.AbortWithError(c, h.logger, errors.NewValidationError("id", "must be an integer"))
		return
	}

	var input models.StatusUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.AbortWithError(c, h.logger, errors.NewValidationError("status", err.Error()))
		return
	}

	if err := h.service.UpdateUserStatus(c.Request.Context(), id, input.Status); err != nil {
		middleware.AbortWithError(c, h.logger, err)
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		middleware.AbortWithError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary List users
// @Description List all users (admin only)
// @Tags users
// @Produce json
// @Security TelegramInitData
// @Success 200 {array} models.UserResponse "Users ordered by ID"
// @Failure 403 {object} middleware.ErrorResponse "Forbidden - not an admin"
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		middleware.AbortWithError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// @Summary Update user role
// @Description Promote or demote a user (admin only)
// @Tags users
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param id path int true "User ID"
// @Param role body models.RoleUpdate true "New role"
// @Success 200 {object} models.UserResponse "Updated user data"
// @Failure 400 {object} middleware.ErrorResponse "Invalid request"
// @Failure 403 {object} middleware.ErrorResponse "Forbidden - not an admin"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Router /users/{id}/role [put]
func (h *UserHandler) UpdateUserRole(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		middleware.AbortWithError(c, h.logger, errors.NewValidationError("id", "must be an integer"))
		return
	}

	var input models.RoleUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.AbortWithError(c, h.logger, errors.NewValidationError("role", err.Error()))
		return
	}

	if err := h.service.UpdateUserRole(c.Request.Context(), id, input.Role); err != nil {
		middleware.AbortWithError(c, h.logger, err)
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		middleware.AbortWithError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Delete user
// @Description Erase a user profile (admin only)
// @Tags users
// @Security TelegramInitData
// @Param id path int true "User ID"
// @Success 204 "Deleted"
// @Failure 403 {object} middleware.ErrorResponse "Forbidden - not an admin"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		middleware.AbortWithError(c, h.logger, errors.NewValidationError("id", "must be an integer"))
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		middleware.AbortWithError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
