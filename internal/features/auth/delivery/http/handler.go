package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"rideshare-backend/internal/common/errors"
	"rideshare-backend/internal/common/middleware"
	"rideshare-backend/internal/features/auth/models"
	"rideshare-backend/internal/features/auth/service"
	"rideshare-backend/internal/telegramauth"
)

const maxPayloadBytes = 16 << 10

type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/widget", h.LoginWidget)
		auth.POST("/webapp", h.LoginWebApp)
	}
}

// @Summary Login with the Telegram login widget
// @Description Verifies a login-widget payload and creates or refreshes the user.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body object true "Login widget fields including hash"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} middleware.ErrorResponse "Malformed payload"
// @Failure 401 {object} middleware.ErrorResponse "Missing or invalid signature"
// @Router /auth/widget [post]
func (h *AuthHandler) LoginWidget(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPayloadBytes))
	if err != nil {
		middleware.AbortWithError(c, h.logger, errors.Wrap(err, errors.ErrCodeBadRequest, "Failed to read body"))
		return
	}

	payload, err := telegramauth.DecodePayload(body)
	if err != nil {
		middleware.AbortWithError(c, h.logger, errors.Wrap(err, errors.ErrCodeMalformedPayload, "Auth payload is malformed"))
		return
	}

	resp, err := h.service.LoginWidget(c.Request.Context(), payload)
	if err != nil {
		middleware.AbortWithError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Login from the mini app
// @Description Verifies mini-app init data and creates or refreshes the user.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.WebAppLoginRequest true "Raw init data"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} middleware.ErrorResponse "Malformed payload"
// @Failure 401 {object} middleware.ErrorResponse "Missing or invalid signature"
// @Router /auth/webapp [post]
func (h *AuthHandler) LoginWebApp(c *gin.Context) {
	var req models.WebAppLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, h.logger, errors.NewValidationError("init_data", err.Error()))
		return
	}

	resp, err := h.service.LoginWebApp(c.Request.Context(), req.InitData)
	if err != nil {
		middleware.AbortWithError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
