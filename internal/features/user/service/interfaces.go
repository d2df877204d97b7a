package service

import (
	"context"

	"rideshare-backend/internal/features/user/models"
	"rideshare-backend/internal/telegramauth"
)

type UserService interface {
	GetUser(ctx context.Context, id int64) (*models.UserResponse, error)
	ListUsers(ctx context.Context) ([]*models.UserResponse, error)
	UpdateUserStatus(ctx context.Context, id int64, status string) error
	UpdateUserRole(ctx context.Context, id int64, role string) error
	DeleteUser(ctx context.Context, id int64) error
	UpsertFromIdentity(ctx context.Context, identity telegramauth.IdentityRecord) (*models.UserResponse, error)
	IsBanned(ctx context.Context, id int64) (bool, error)
}
