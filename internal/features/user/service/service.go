package service

import (
	"context"
	stderrors "errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"rideshare-backend/internal/common/errors"
	"rideshare-backend/internal/common/validation"
	"rideshare-backend/internal/features/user/mapper"
	"rideshare-backend/internal/features/user/models"
	"rideshare-backend/internal/features/user/repository"
	"rideshare-backend/internal/telegramauth"
)

const (
	defaultRole  = "user"
	statusActive = "active"
	statusBanned = "banned"
)

type userService struct {
	repo   repository.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo repository.UserRepository, logger zerolog.Logger) UserService {
	return &userService{
		repo:   repo,
		logger: logger,
	}
}

func (s *userService) GetUser(ctx context.Context, id int64) (*models.UserResponse, error) {
	user, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

func (s *userService) UpdateUserStatus(ctx context.Context, id int64, status string) error {
	if err := validation.ValidateUserStatus(status); err != nil {
		return errors.NewValidationError("status", err.Error())
	}

	user, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	user.Status = status
	if err := s.repo.Update(ctx, user); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "Failed to update user")
	}

	s.logger.Info().Int64("user_id", id).Str("status", status).Msg("User status updated")
	return nil
}

// UpdateUserRole switches a user between rider, driver and admin roles.
func (s *userService) UpdateUserRole(ctx context.Context, id int64, role string) error {
	if err := validation.ValidateUserRole(role); err != nil {
		return errors.NewValidationError("role", err.Error())
	}

	user, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	user.Role = role
	if err := s.repo.Update(ctx, user); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "Failed to update user")
	}

	s.logger.Info().Int64("user_id", id).Str("role", role).Msg("User role updated")
	return nil
}

func (s *userService) ListUsers(ctx context.Context) ([]*models.UserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "Failed to list users")
	}

	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	out := make([]*models.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, u.ToResponse())
	}
	return out, nil
}

func (s *userService) DeleteUser(ctx context.Context, id int64) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "Failed to delete user")
	}

	s.logger.Info().Int64("user_id", id).Msg("User deleted")
	return nil
}

func (s *userService) IsBanned(ctx context.Context, id int64) (bool, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.Status == statusBanned, nil
}

// UpsertFromIdentity creates the user on first sight and refreshes profile
// fields when the platform reports changes. Role and status are kept.
func (s *userService) UpsertFromIdentity(ctx context.Context, identity telegramauth.IdentityRecord) (*models.UserResponse, error) {
	if err := validateIdentity(identity); err != nil {
		return nil, err
	}

	profile := mapper.FromIdentity(identity)

	user, err := s.repo.GetByID(ctx, identity.ID)
	switch {
	case err == nil:
		if sameProfile(user, &profile) {
			return user.ToResponse(), nil
		}
		user.Username = profile.Username
		user.FirstName = profile.FirstName
		user.LastName = profile.LastName
		user.LanguageCode = profile.LanguageCode
		user.IsPremium = profile.IsPremium
		user.PhotoURL = profile.PhotoURL
		if err := s.repo.Update(ctx, user); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "Failed to update user")
		}
		return user.ToResponse(), nil

	case stderrors.Is(err, repository.ErrNotFound):
		now := time.Now()
		profile.Role = defaultRole
		profile.Status = statusActive
		profile.CreatedAt = now
		profile.UpdatedAt = now
		if err := s.repo.Create(ctx, &profile); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "Failed to create user")
		}
		s.logger.Info().Int64("user_id", profile.ID).Msg("User created")
		return profile.ToResponse(), nil

	default:
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "Failed to load user")
	}
}

func (s *userService) get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NewUserNotFoundError(id)
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "Failed to load user")
	}
	return user, nil
}

func validateIdentity(identity telegramauth.IdentityRecord) error {
	if err := validation.ValidatePositiveInt(identity.ID, "id"); err != nil {
		return errors.NewValidationError("id", err.Error())
	}
	if identity.Username != nil && *identity.Username != "" {
		if err := validation.ValidateUsername(*identity.Username); err != nil {
			return errors.NewValidationError("username", err.Error())
		}
	}
	if err := validation.ValidateName("first_name", mapper.Deref(identity.FirstName)); err != nil {
		return errors.NewValidationError("first_name", err.Error())
	}
	if err := validation.ValidateName("last_name", mapper.Deref(identity.LastName)); err != nil {
		return errors.NewValidationError("last_name", err.Error())
	}
	if err := validation.ValidateLanguageCode(mapper.Deref(identity.LanguageCode)); err != nil {
		return errors.NewValidationError("language_code", err.Error())
	}
	return nil
}

func sameProfile(a, b *models.User) bool {
	return a.Username == b.Username &&
		a.FirstName == b.FirstName &&
		a.LastName == b.LastName &&
		a.LanguageCode == b.LanguageCode &&
		a.IsPremium == b.IsPremium &&
		a.PhotoURL == b.PhotoURL
}
