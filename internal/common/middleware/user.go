package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"rideshare-backend/internal/features/user/service"
)

// AutoCreateUser mirrors the authenticated identity into the user store.
func AutoCreateUser(userService service.UserService, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFromContext(c)
		if !ok {
			c.Next()
			return
		}

		logger.Debug().
			Int64("user_id", identity.ID).
			Msg("Auto-creating/updating user")

		if _, err := userService.UpsertFromIdentity(c.Request.Context(), identity); err != nil {
			AbortWithError(c, logger, err)
			return
		}

		c.Next()
	}
}
