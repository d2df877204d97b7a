package telegramauth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Scheme selects the key derivation used to sign a payload.
type Scheme int

const (
	// SchemeLoginWidget signs with SHA256(botToken).
	SchemeLoginWidget Scheme = iota + 1
	// SchemeMiniApp signs with HMAC-SHA256("WebAppData", botToken).
	SchemeMiniApp
)

const webAppDataKey = "WebAppData"

func (s Scheme) String() string {
	switch s {
	case SchemeLoginWidget:
		return "login_widget"
	case SchemeMiniApp:
		return "mini_app"
	default:
		return "unknown"
	}
}

// SignatureEngine holds both secret keys, derived once from the bot token.
type SignatureEngine struct {
	widgetKey  []byte
	miniAppKey []byte
}

func NewSignatureEngine(botToken string) (*SignatureEngine, error) {
	if botToken == "" {
		return nil, ErrMissingCredential
	}

	widgetKey := sha256.Sum256([]byte(botToken))

	mac := hmac.New(sha256.New, []byte(webAppDataKey))
	mac.Write([]byte(botToken))

	return &SignatureEngine{
		widgetKey:  widgetKey[:],
		miniAppKey: mac.Sum(nil),
	}, nil
}

// Digest returns the lowercase hex HMAC-SHA256 of the check string.
func (e *SignatureEngine) Digest(scheme Scheme, checkString string) (string, error) {
	var key []byte
	switch scheme {
	case SchemeLoginWidget:
		key = e.widgetKey
	case SchemeMiniApp:
		key = e.miniAppKey
	default:
		return "", ErrUnknownScheme
	}

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(checkString))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Sign canonicalizes p and returns the hash a platform signer would attach.
func (e *SignatureEngine) Sign(scheme Scheme, p AuthPayload) (string, error) {
	checkString, err := Canonicalize(p)
	if err != nil {
		return "", err
	}
	return e.Digest(scheme, checkString)
}
