package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"rideshare-backend/internal/common/errors"
	"rideshare-backend/internal/telegramauth"
)

// Context keys set by TelegramInitDataMiddleware.
const (
	IdentityKey = "identity"
	VerifiedKey = "identity_verified"
)

// Headers checked, in order, for mini-app init data.
var initDataHeaders = []string{"init_data", "X-Telegram-Init-Data"}

// InitDataVerifier verifies a raw init-data string.
type InitDataVerifier interface {
	VerifyInitData(ctx context.Context, raw string) telegramauth.Result
}

// TelegramInitDataMiddleware authenticates the request from mini-app init
// data and stores the resulting identity in the context.
func TelegramInitDataMiddleware(verifier InitDataVerifier, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var raw string
		for _, h := range initDataHeaders {
			if raw = c.GetHeader(h); raw != "" {
				break
			}
		}
		if raw == "" {
			AbortWithError(c, logger, errors.NewUnauthorizedError("Telegram init data required"))
			return
		}

		res := verifier.VerifyInitData(c.Request.Context(), raw)
		switch v := res.Verdict.(type) {
		case telegramauth.Verified:
			c.Set(VerifiedKey, true)
		case telegramauth.BypassedUnverified:
			c.Set(VerifiedKey, false)
		case telegramauth.Rejected:
			AbortWithError(c, logger, errors.FromRejection(v))
			return
		default:
			AbortWithError(c, logger, errors.New(errors.ErrCodeInternal, "Unknown verification verdict"))
			return
		}

		c.Set(IdentityKey, *res.Identity)
		c.Next()
	}
}

// IdentityFromContext returns the identity stored by TelegramInitDataMiddleware.
func IdentityFromContext(c *gin.Context) (telegramauth.IdentityRecord, bool) {
	v, exists := c.Get(IdentityKey)
	if !exists {
		return telegramauth.IdentityRecord{}, false
	}
	identity, ok := v.(telegramauth.IdentityRecord)
	return identity, ok
}
