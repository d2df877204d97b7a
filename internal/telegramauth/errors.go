package telegramauth

import "errors"

var (
	ErrMissingCredential = errors.New("telegram bot token is not configured")
	ErrUnknownScheme     = errors.New("unknown signature scheme")
	ErrUncoercibleValue  = errors.New("payload value cannot be rendered as a string")
	ErrMalformedPayload  = errors.New("malformed auth payload")
)
