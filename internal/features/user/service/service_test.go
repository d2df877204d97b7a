package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rideshare-backend/internal/common/errors"
	userredis "rideshare-backend/internal/features/user/repository/redis"
	"rideshare-backend/internal/telegramauth"
)

func newTestService(t *testing.T) UserService {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewUserService(userredis.NewUserRepository(client), zerolog.Nop())
}

func strPtr(s string) *string { return &s }

func TestUpsertFromIdentity(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	identity := telegramauth.IdentityRecord{
		ID:        42,
		FirstName: strPtr("A"),
		Username:  strPtr("driver_42"),
	}

	created, err := svc.UpsertFromIdentity(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)
	assert.Equal(t, "user", created.Role)
	assert.Equal(t, "active", created.Status)

	identity.LastName = strPtr("B")
	identity.IsPremium = true
	updated, err := svc.UpsertFromIdentity(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, "B", updated.LastName)
	assert.True(t, updated.IsPremium)
	assert.Equal(t, created.CreatedAt.Unix(), updated.CreatedAt.Unix())
}

func TestUpsertFromIdentity_Validation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.UpsertFromIdentity(context.Background(), telegramauth.IdentityRecord{})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeValidation, errors.AsAppError(err).Code)

	_, err = svc.UpsertFromIdentity(context.Background(), telegramauth.IdentityRecord{ID: 1, Username: strPtr("a b")})
	require.Error(t, err)
	assert.Equal(t, "username", errors.AsAppError(err).Details["field"])
}

func TestUpdateUserStatus(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	err := svc.UpdateUserStatus(ctx, 42, "banned")
	assert.Equal(t, errors.ErrCodeUserNotFound, errors.AsAppError(err).Code)

	_, err = svc.UpsertFromIdentity(ctx, telegramauth.IdentityRecord{ID: 42})
	require.NoError(t, err)

	banned, err := svc.IsBanned(ctx, 42)
	require.NoError(t, err)
	assert.False(t, banned)

	assert.Equal(t, errors.ErrCodeValidation, errors.AsAppError(svc.UpdateUserStatus(ctx, 42, "deleted")).Code)
	require.NoError(t, svc.UpdateUserStatus(ctx, 42, "banned"))

	banned, err = svc.IsBanned(ctx, 42)
	require.NoError(t, err)
	assert.True(t, banned)

	got, err := svc.GetUser(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "banned", got.Status)

	banned, err = svc.IsBanned(ctx, 999)
	require.NoError(t, err)
	assert.False(t, banned)
}

func TestUpdateUserRole(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	assert.Equal(t, errors.ErrCodeUserNotFound, errors.AsAppError(svc.UpdateUserRole(ctx, 42, "driver")).Code)

	_, err := svc.UpsertFromIdentity(ctx, telegramauth.IdentityRecord{ID: 42})
	require.NoError(t, err)

	assert.Equal(t, errors.ErrCodeValidation, errors.AsAppError(svc.UpdateUserRole(ctx, 42, "root")).Code)
	require.NoError(t, svc.UpdateUserRole(ctx, 42, "driver"))

	got, err := svc.GetUser(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "driver", got.Role)

	_, err = svc.UpsertFromIdentity(ctx, telegramauth.IdentityRecord{ID: 42, FirstName: strPtr("Renamed")})
	require.NoError(t, err)
	got, err = svc.GetUser(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "driver", got.Role, "profile refresh keeps the role")
}

func TestListAndDeleteUsers(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	for _, id := range []int64{9, 3, 5} {
		_, err := svc.UpsertFromIdentity(ctx, telegramauth.IdentityRecord{ID: id})
		require.NoError(t, err)
	}

	users, err = svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, []int64{3, 5, 9}, []int64{users[0].ID, users[1].ID, users[2].ID})

	require.NoError(t, svc.DeleteUser(ctx, 5))
	_, err = svc.GetUser(ctx, 5)
	assert.Equal(t, errors.ErrCodeUserNotFound, errors.AsAppError(err).Code)
	assert.Equal(t, errors.ErrCodeUserNotFound, errors.AsAppError(svc.DeleteUser(ctx, 5)).Code)
}
