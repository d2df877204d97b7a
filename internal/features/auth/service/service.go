package service

import (
	"context"

	"github.com/rs/zerolog"
	initdata "github.com/telegram-mini-apps/init-data-golang"

	"rideshare-backend/internal/common/errors"
	"rideshare-backend/internal/features/auth/models"
	userservice "rideshare-backend/internal/features/user/service"
	"rideshare-backend/internal/telegramauth"
)

type AuthService interface {
	LoginWidget(ctx context.Context, payload telegramauth.AuthPayload) (*models.LoginResponse, error)
	LoginWebApp(ctx context.Context, rawInitData string) (*models.LoginResponse, error)
}

type authService struct {
	verifier *telegramauth.Verifier
	initData *VerificationCache
	users    userservice.UserService
	logger   zerolog.Logger
}

func NewAuthService(verifier *telegramauth.Verifier, initData *VerificationCache, users userservice.UserService, logger zerolog.Logger) AuthService {
	return &authService{
		verifier: verifier,
		initData: initData,
		users:    users,
		logger:   logger,
	}
}

func (s *authService) LoginWidget(ctx context.Context, payload telegramauth.AuthPayload) (*models.LoginResponse, error) {
	return s.complete(ctx, s.verifier.VerifyLoginWidget(payload))
}

func (s *authService) LoginWebApp(ctx context.Context, rawInitData string) (*models.LoginResponse, error) {
	resp, err := s.complete(ctx, s.initData.VerifyInitData(ctx, rawInitData))
	if err != nil {
		return nil, err
	}

	if parsed, err := initdata.Parse(rawInitData); err == nil {
		resp.StartParam = parsed.StartParam
	}
	return resp, nil
}

func (s *authService) complete(ctx context.Context, res telegramauth.Result) (*models.LoginResponse, error) {
	switch v := res.Verdict.(type) {
	case telegramauth.Verified, telegramauth.BypassedUnverified:
	case telegramauth.Rejected:
		return nil, errors.FromRejection(v)
	default:
		return nil, errors.New(errors.ErrCodeInternal, "Unknown verification verdict")
	}

	user, err := s.users.UpsertFromIdentity(ctx, *res.Identity)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("user_id", res.Identity.ID).
		Str("verdict", res.Verdict.String()).
		Msg("User logged in")

	return &models.LoginResponse{
		Verdict:  res.Verdict.String(),
		Verified: res.IsVerified(),
		Identity: *res.Identity,
		User:     user,
	}, nil
}
