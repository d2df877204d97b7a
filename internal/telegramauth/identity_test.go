package telegramauth

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractIdentity_Minimal(t *testing.T) {
	got := ExtractIdentity(map[string]any{"id": 42, "first_name": "A", "username": "a_b"})

	assert.Equal(t, int64(42), got.ID)
	require.NotNil(t, got.FirstName)
	assert.Equal(t, "A", *got.FirstName)
	require.NotNil(t, got.Username)
	assert.Equal(t, "a_b", *got.Username)
	assert.False(t, got.IsPremium)
	assert.Nil(t, got.LastName)
	assert.Nil(t, got.LanguageCode)
	assert.Nil(t, got.PhotoURL)
}

func TestExtractIdentity_IDForms(t *testing.T) {
	for _, id := range []any{int64(7), 7.0, json.Number("7"), "7"} {
		assert.Equal(t, int64(7), ExtractIdentity(map[string]any{"id": id}).ID, "%T", id)
	}
	assert.Zero(t, ExtractIdentity(map[string]any{}).ID)
}

func TestExtractIdentity_PassThrough(t *testing.T) {
	got := ExtractIdentity(map[string]any{
		"id":            json.Number("1"),
		"last_name":     "",
		"language_code": "en",
		"is_premium":    true,
		"photo_url":     "https://t.me/p.jpg",
	})

	require.NotNil(t, got.LastName)
	assert.Equal(t, "", *got.LastName)
	assert.Equal(t, "en", *got.LanguageCode)
	assert.True(t, got.IsPremium)
	assert.Equal(t, "https://t.me/p.jpg", *got.PhotoURL)
	assert.Nil(t, got.FirstName)
}
