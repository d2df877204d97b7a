package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"rideshare-backend/internal/common/errors"
	"rideshare-backend/internal/features/user/service"
)

func RequireAuth(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := IdentityFromContext(c); !ok {
			AbortWithError(c, logger, errors.NewUnauthorizedError("Telegram init data required"))
			return
		}

		c.Next()
	}
}

// RequireAdmin allows only verified identities listed in adminIDs. A
// development-mode bypass never grants admin access.
func RequireAdmin(adminIDs []int64, logger zerolog.Logger) gin.HandlerFunc {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}

	return func(c *gin.Context) {
		identity, ok := IdentityFromContext(c)
		if !ok {
			AbortWithError(c, logger, errors.NewUnauthorizedError("Telegram init data required"))
			return
		}

		if _, isAdmin := admins[identity.ID]; !isAdmin || !c.GetBool(VerifiedKey) {
			AbortWithError(c, logger, errors.NewForbiddenError("admin access required"))
			return
		}

		c.Next()
	}
}

func CheckBanned(userService service.UserService, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFromContext(c)
		if !ok {
			c.Next()
			return
		}

		banned, err := userService.IsBanned(c.Request.Context(), identity.ID)
		if err == nil && banned {
			AbortWithError(c, logger, errors.New(errors.ErrCodeUserBanned, "Your account has been banned"))
			return
		}

		c.Next()
	}
}
