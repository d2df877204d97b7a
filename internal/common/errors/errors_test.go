package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"rideshare-backend/internal/telegramauth"
)

func TestFromRejection(t *testing.T) {
	tests := []struct {
		reason telegramauth.Reason
		code   ErrorCode
		status int
	}{
		{telegramauth.ReasonMissingSignature, ErrCodeMissingSignature, http.StatusUnauthorized},
		{telegramauth.ReasonSignatureMismatch, ErrCodeSignatureMismatch, http.StatusUnauthorized},
		{telegramauth.ReasonMalformedPayload, ErrCodeMalformedPayload, http.StatusBadRequest},
		{telegramauth.ReasonExpired, ErrCodeAuthExpired, http.StatusUnauthorized},
		{telegramauth.ReasonInternalError, ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.reason), func(t *testing.T) {
			appErr := FromRejection(telegramauth.Rejected{Reason: tt.reason})
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.status, appErr.HTTPStatus())
			assert.Equal(t, string(tt.reason), appErr.Details["reason"])
		})
	}
}

func TestAsAppError(t *testing.T) {
	cause := stderrors.New("boom")
	appErr := AsAppError(cause)
	assert.Equal(t, ErrCodeInternal, appErr.Code)
	assert.ErrorIs(t, appErr, cause)

	orig := NewUserNotFoundError(7)
	assert.Same(t, orig, AsAppError(orig))
	assert.Equal(t, http.StatusNotFound, orig.HTTPStatus())
}

func TestAsAppError_MissingCredential(t *testing.T) {
	_, err := telegramauth.New(telegramauth.Config{})
	appErr := AsAppError(err)

	assert.Equal(t, ErrCodeMissingCredential, appErr.Code)
	assert.ErrorIs(t, appErr, telegramauth.ErrMissingCredential)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus())
}
