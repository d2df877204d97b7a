package telegramauth

import (
	"encoding/json"
	"strconv"
)

// IdentityRecord is the normalized platform user. Optional fields stay nil
// when the platform did not send them.
type IdentityRecord struct {
	ID           int64   `json:"id"`
	Username     *string `json:"username,omitempty"`
	FirstName    *string `json:"first_name,omitempty"`
	LastName     *string `json:"last_name,omitempty"`
	LanguageCode *string `json:"language_code,omitempty"`
	IsPremium    bool    `json:"is_premium"`
	PhotoURL     *string `json:"photo_url,omitempty"`
}

// ExtractIdentity projects a trusted user object into an IdentityRecord.
// It does not validate field shapes.
func ExtractIdentity(user map[string]any) IdentityRecord {
	return IdentityRecord{
		ID:           int64Of(user["id"]),
		Username:     optString(user, "username"),
		FirstName:    optString(user, "first_name"),
		LastName:     optString(user, "last_name"),
		LanguageCode: optString(user, "language_code"),
		IsPremium:    boolOf(user["is_premium"]),
		PhotoURL:     optString(user, "photo_url"),
	}
}

func optString(m map[string]any, key string) *string {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	s, err := stringify(key, v)
	if err != nil {
		return nil
	}
	return &s
}

func int64Of(v any) int64 {
	switch val := v.(type) {
	case int:
		return int64(val)
	case int64:
		return val
	case float64:
		return int64(val)
	case json.Number:
		n, _ := val.Int64()
		return n
	case string:
		n, _ := strconv.ParseInt(val, 10, 64)
		return n
	default:
		return 0
	}
}

func boolOf(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		b, _ := strconv.ParseBool(val)
		return b
	default:
		return false
	}
}
