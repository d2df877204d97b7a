package models

import (
	usermodels "rideshare-backend/internal/features/user/models"
	"rideshare-backend/internal/telegramauth"
)

// WebAppLoginRequest carries the raw mini-app launch string.
type WebAppLoginRequest struct {
	InitData string `json:"init_data" binding:"required" example:"query_id=AAH...&user=%7B%22id%22%3A1%7D&auth_date=1700000000&hash=..."`
}

// LoginResponse is returned by both login endpoints.
// @Description Verification outcome and the mirrored user profile
type LoginResponse struct {
	// Verdict is "verified" or "bypassed: <reason>" (development only).
	Verdict    string                      `json:"verdict" example:"verified"`
	Verified   bool                        `json:"verified"`
	Identity   telegramauth.IdentityRecord `json:"identity"`
	User       *usermodels.UserResponse    `json:"user"`
	StartParam string                      `json:"start_param,omitempty"`
}
