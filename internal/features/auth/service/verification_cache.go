package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"rideshare-backend/internal/common/cache"
	"rideshare-backend/internal/telegramauth"
)

const initDataKeyPrefix = "initdata:"

var errNotCacheable = errors.New("verification result is not cacheable")

type cachedVerification struct {
	Identity telegramauth.IdentityRecord `json:"identity"`
	Digest   string                      `json:"digest"`
}

// VerificationCache memoizes verified mini-app init data in redis. Only
// Verified results are stored; rejected and bypassed payloads are always
// re-evaluated. Entries never outlive the auth_date freshness window.
type VerificationCache struct {
	verifier *telegramauth.Verifier
	cache    *cache.CacheService
	ttl      time.Duration
	logger   zerolog.Logger
}

// NewVerificationCache returns a pass-through verifier when cache is nil or ttl is zero.
func NewVerificationCache(verifier *telegramauth.Verifier, cache *cache.CacheService, ttl time.Duration, logger zerolog.Logger) *VerificationCache {
	return &VerificationCache{
		verifier: verifier,
		cache:    cache,
		ttl:      ttl,
		logger:   logger,
	}
}

func (vc *VerificationCache) enabled() bool {
	return vc.cache != nil && vc.ttl > 0
}

// VerifyInitData parses and verifies a raw init-data string.
func (vc *VerificationCache) VerifyInitData(ctx context.Context, raw string) telegramauth.Result {
	payload, err := telegramauth.ParseInitData(raw)
	if err != nil {
		return telegramauth.Result{Verdict: telegramauth.Rejected{Reason: telegramauth.ReasonMalformedPayload}}
	}

	ttl := vc.entryTTL(payload)
	if ttl <= 0 {
		return vc.verifier.VerifyMiniApp(payload)
	}

	key := initDataKey(raw)

	var (
		res      telegramauth.Result
		computed bool
		hit      cachedVerification
	)
	err = vc.cache.GetOrSet(ctx, key, &hit, ttl, func() (interface{}, error) {
		computed = true
		res = vc.verifier.VerifyMiniApp(payload)
		if !res.IsVerified() {
			return nil, errNotCacheable
		}
		return cachedVerification{Identity: *res.Identity, Digest: res.Digest}, nil
	})

	if computed {
		if err != nil && !errors.Is(err, errNotCacheable) {
			vc.logger.Warn().Err(err).Msg("Verification cache write failed")
		}
		return res
	}
	if err != nil {
		vc.logger.Warn().Err(err).Msg("Verification cache read failed")
		return vc.verifier.VerifyMiniApp(payload)
	}

	if reason, err := vc.verifier.CheckFreshness(payload); err != nil {
		if err := vc.cache.Delete(ctx, key); err != nil {
			vc.logger.Warn().Err(err).Msg("Verification cache delete failed")
		}
		vc.logger.Debug().Err(err).Str("reason", string(reason)).Msg("Cached verification is stale")
		return telegramauth.Result{Verdict: telegramauth.Rejected{Reason: reason}}
	}

	return telegramauth.Result{
		Verdict:  telegramauth.Verified{},
		Identity: &hit.Identity,
		Digest:   hit.Digest,
	}
}

// entryTTL is the configured ttl capped by the time left in the freshness
// window. Zero or less means the result must not be cached.
func (vc *VerificationCache) entryTTL(p telegramauth.AuthPayload) time.Duration {
	if !vc.enabled() {
		return 0
	}

	ttl := vc.ttl
	if left, ok := vc.verifier.FreshFor(p); ok && left < ttl {
		ttl = left
	}
	return ttl
}

func initDataKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return initDataKeyPrefix + hex.EncodeToString(sum[:])
}
