package mapper

import (
	"rideshare-backend/internal/features/user/models"
	"rideshare-backend/internal/telegramauth"
)

// FromIdentity maps the profile fields of an identity onto a User. Role,
// status and timestamps are left for the caller.
func FromIdentity(identity telegramauth.IdentityRecord) models.User {
	return models.User{
		ID:           identity.ID,
		Username:     Deref(identity.Username),
		FirstName:    Deref(identity.FirstName),
		LastName:     Deref(identity.LastName),
		LanguageCode: Deref(identity.LanguageCode),
		IsPremium:    identity.IsPremium,
		PhotoURL:     Deref(identity.PhotoURL),
	}
}

// Deref returns "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
