package service

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/benbjohnson/clock"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rideshare-backend/internal/common/cache"
	"rideshare-backend/internal/common/errors"
	userredis "rideshare-backend/internal/features/user/repository/redis"
	userservice "rideshare-backend/internal/features/user/service"
	"rideshare-backend/internal/telegramauth"
)

const testToken = "123456:TEST"

type fixture struct {
	verifier *telegramauth.Verifier
	cache    *VerificationCache
	auth     AuthService
	mr       *miniredis.Miniredis
}

func newFixture(t *testing.T, mode string, ttl time.Duration) *fixture {
	t.Helper()
	return newFixtureWith(t, telegramauth.Config{BotToken: testToken, Mode: mode}, ttl)
}

func newFixtureWith(t *testing.T, cfg telegramauth.Config, ttl time.Duration) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	verifier, err := telegramauth.New(cfg)
	require.NoError(t, err)

	vc := NewVerificationCache(verifier, cache.NewCacheService(client), ttl, zerolog.Nop())
	users := userservice.NewUserService(userredis.NewUserRepository(client), zerolog.Nop())

	return &fixture{
		verifier: verifier,
		cache:    vc,
		auth:     NewAuthService(verifier, vc, users, zerolog.Nop()),
		mr:       mr,
	}
}

func (f *fixture) signInitData(t *testing.T, user string) string {
	t.Helper()

	values := url.Values{}
	values.Set("auth_date", "1700000000")
	values.Set("start_param", "ride_77")
	values.Set("user", user)

	p, err := telegramauth.ParseInitData(values.Encode())
	require.NoError(t, err)
	hash, err := f.verifier.Engine().Sign(telegramauth.SchemeMiniApp, p)
	require.NoError(t, err)

	values.Set("hash", hash)
	return values.Encode()
}

func TestVerificationCache_MemoizesVerifiedOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "production", time.Minute)

	raw := f.signInitData(t, `{"id":42,"first_name":"A","username":"driver_42"}`)

	res := f.cache.VerifyInitData(ctx, raw)
	require.True(t, res.IsVerified())
	assert.True(t, f.mr.Exists(initDataKey(raw)))

	cached := f.cache.VerifyInitData(ctx, raw)
	assert.True(t, cached.IsVerified())
	assert.Equal(t, res.Identity, cached.Identity)
	assert.Equal(t, res.Digest, cached.Digest)

	tampered := strings.Replace(raw, "ride_77", "ride_78", 1)
	res = f.cache.VerifyInitData(ctx, tampered)
	assert.Equal(t, telegramauth.Rejected{Reason: telegramauth.ReasonSignatureMismatch}, res.Verdict)
	assert.False(t, f.mr.Exists(initDataKey(tampered)))

	f.mr.FastForward(2 * time.Minute)
	assert.False(t, f.mr.Exists(initDataKey(raw)))
}

func TestVerificationCache_BoundedByFreshness(t *testing.T) {
	ctx := context.Background()
	signedAt := time.Unix(1700000000, 0)

	mock := clock.NewMock()
	mock.Set(signedAt.Add(59 * time.Minute))
	f := newFixtureWith(t, telegramauth.Config{BotToken: testToken, MaxAge: time.Hour, Clock: mock}, 10*time.Minute)

	raw := f.signInitData(t, `{"id":42,"first_name":"A"}`)

	require.True(t, f.cache.VerifyInitData(ctx, raw).IsVerified())
	require.True(t, f.mr.Exists(initDataKey(raw)))
	assert.Equal(t, time.Minute, f.mr.TTL(initDataKey(raw)))

	mock.Add(5 * time.Minute)
	res := f.cache.VerifyInitData(ctx, raw)
	assert.Equal(t, telegramauth.Rejected{Reason: telegramauth.ReasonExpired}, res.Verdict)
	assert.Nil(t, res.Identity)
	assert.False(t, f.mr.Exists(initDataKey(raw)))

	res = f.cache.VerifyInitData(ctx, raw)
	assert.Equal(t, telegramauth.Rejected{Reason: telegramauth.ReasonExpired}, res.Verdict)
	assert.False(t, f.mr.Exists(initDataKey(raw)))
}

func TestVerificationCache_NeverCachesBypass(t *testing.T) {
	f := newFixture(t, telegramauth.ModeDevelopment, time.Minute)

	raw := "auth_date=1700000000&user=%7B%22id%22%3A42%7D"
	res := f.cache.VerifyInitData(context.Background(), raw)

	assert.Equal(t, telegramauth.BypassedUnverified{Reason: telegramauth.ReasonMissingSignature}, res.Verdict)
	assert.False(t, f.mr.Exists(initDataKey(raw)))
}

func TestVerificationCache_DegradesWhenRedisDown(t *testing.T) {
	f := newFixture(t, "production", time.Minute)
	raw := f.signInitData(t, `{"id":42}`)

	f.mr.Close()
	assert.True(t, f.cache.VerifyInitData(context.Background(), raw).IsVerified())
}

func TestVerificationCache_MalformedQuery(t *testing.T) {
	f := newFixture(t, telegramauth.ModeDevelopment, 0)

	res := f.cache.VerifyInitData(context.Background(), "user=%zz")
	assert.Equal(t, telegramauth.Rejected{Reason: telegramauth.ReasonMalformedPayload}, res.Verdict)
}

func TestAuthService_LoginWebApp(t *testing.T) {
	f := newFixture(t, "production", 0)
	raw := f.signInitData(t, `{"id":42,"first_name":"A","username":"driver_42","is_premium":true}`)

	resp, err := f.auth.LoginWebApp(context.Background(), raw)
	require.NoError(t, err)

	assert.True(t, resp.Verified)
	assert.Equal(t, "verified", resp.Verdict)
	assert.Equal(t, "ride_77", resp.StartParam)
	assert.Equal(t, int64(42), resp.User.ID)
	assert.Equal(t, "driver_42", resp.User.Username)
	assert.True(t, resp.User.IsPremium)
}

func TestAuthService_LoginWidget(t *testing.T) {
	f := newFixture(t, "production", 0)

	p := telegramauth.AuthPayload{"id": "42", "first_name": "A", "auth_date": "1700000000"}
	hash, err := f.verifier.Engine().Sign(telegramauth.SchemeLoginWidget, p)
	require.NoError(t, err)
	p["hash"] = hash

	resp, err := f.auth.LoginWidget(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, resp.Verified)
	assert.Equal(t, "A", resp.User.FirstName)

	p["first_name"] = "B"
	_, err = f.auth.LoginWidget(context.Background(), p)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeSignatureMismatch, errors.AsAppError(err).Code)
}

func TestAuthService_BypassedLoginIsMarkedUnverified(t *testing.T) {
	f := newFixture(t, telegramauth.ModeDevelopment, 0)

	resp, err := f.auth.LoginWidget(context.Background(), telegramauth.AuthPayload{"id": "42", "first_name": "A"})
	require.NoError(t, err)
	assert.False(t, resp.Verified)
	assert.Equal(t, "bypassed: missing_signature", resp.Verdict)
}
