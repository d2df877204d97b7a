package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rideshare-backend/internal/features/user/models"
	"rideshare-backend/internal/features/user/repository"
)

type userRepository struct {
	client redis.UniversalClient
}

func NewUserRepository(client redis.UniversalClient) repository.UserRepository {
	return &userRepository{
		client: client,
	}
}

func userKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, userKey(user.ID), userJSON, 0).Err()
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	userJSON, err := r.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	var user models.User
	if err := json.Unmarshal(userJSON, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	return r.Create(ctx, user)
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	return r.client.Del(ctx, userKey(id)).Err()
}

func (r *userRepository) List(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	iter := r.client.Scan(ctx, 0, "user:*", 0).Iterator()

	for iter.Next(ctx) {
		userJSON, err := r.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			continue
		}

		var user models.User
		if err := json.Unmarshal(userJSON, &user); err != nil {
			continue
		}

		users = append(users, &user)
	}

	return users, iter.Err()
}
