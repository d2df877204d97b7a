package telegramauth

import (
	"bytes"
	"crypto/hmac"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
)

// MaxClockSkew is how far auth_date may lie ahead of the local clock.
const MaxClockSkew = time.Minute

// Config is everything a Verifier needs, read once at startup.
type Config struct {
	BotToken string
	// Mode is the deployment mode; only "development" enables the bypass.
	Mode string
	// MaxAge rejects payloads whose auth_date is older than this. Zero disables the check.
	MaxAge time.Duration
	Clock  clock.Clock
	Logger *zerolog.Logger
}

// Verifier checks that identity payloads were signed by the platform. It is
// immutable after New and safe for concurrent use.
type Verifier struct {
	engine *SignatureEngine
	bypass BypassPolicy
	maxAge time.Duration
	clock  clock.Clock
	log    zerolog.Logger
}

func New(cfg Config) (*Verifier, error) {
	engine, err := NewSignatureEngine(cfg.BotToken)
	if err != nil {
		return nil, err
	}

	v := &Verifier{
		engine: engine,
		bypass: NewBypassPolicy(cfg.Mode),
		maxAge: cfg.MaxAge,
		clock:  cfg.Clock,
		log:    zerolog.Nop(),
	}
	if v.clock == nil {
		v.clock = clock.New()
	}
	if cfg.Logger != nil {
		v.log = cfg.Logger.With().Str("component", "telegramauth").Logger()
	}
	return v, nil
}

// Engine exposes the signature engine, e.g. for signing test fixtures.
func (v *Verifier) Engine() *SignatureEngine {
	return v.engine
}

// BypassEnabled reports whether development-mode bypass is active.
func (v *Verifier) BypassEnabled() bool {
	return v.bypass.Allows()
}

// VerifyLoginWidget verifies a flat login-widget payload.
func (v *Verifier) VerifyLoginWidget(p AuthPayload) Result {
	return v.verify(SchemeLoginWidget, p)
}

// VerifyMiniApp verifies mini-app init data carrying a nested user object.
func (v *Verifier) VerifyMiniApp(p AuthPayload) Result {
	return v.verify(SchemeMiniApp, p)
}

func (v *Verifier) verify(scheme Scheme, p AuthPayload) (res Result) {
	if v == nil || v.engine == nil {
		return Result{Verdict: Rejected{Reason: ReasonInternalError}}
	}

	defer func() {
		if r := recover(); r != nil {
			v.log.Error().
				Str("scheme", scheme.String()).
				Interface("panic", r).
				Msg("Verification fault")
			res = Result{Verdict: Rejected{Reason: ReasonInternalError}}
		}
	}()

	subject, err := identitySubject(scheme, p)
	if err != nil {
		return v.reject(scheme, ReasonMalformedPayload, err)
	}

	received, ok, err := p.signature()
	if err != nil {
		return v.reject(scheme, ReasonMalformedPayload, err)
	}
	if !ok {
		return v.unverified(scheme, ReasonMissingSignature, subject, "")
	}

	checkString, err := Canonicalize(p)
	if err != nil {
		return v.reject(scheme, ReasonInternalError, err)
	}
	digest, err := v.engine.Digest(scheme, checkString)
	if err != nil {
		return v.reject(scheme, ReasonInternalError, err)
	}

	if !hmac.Equal([]byte(digest), []byte(strings.ToLower(received))) {
		return v.unverified(scheme, ReasonSignatureMismatch, subject, digest)
	}

	if reason, err := v.CheckFreshness(p); err != nil {
		res = v.reject(scheme, reason, err)
		res.Digest = digest
		return res
	}

	identity := ExtractIdentity(subject)
	return Result{Verdict: Verified{}, Identity: &identity, Digest: digest}
}

// unverified applies the bypass policy to a missing or mismatched signature.
func (v *Verifier) unverified(scheme Scheme, reason Reason, subject map[string]any, digest string) Result {
	if !v.bypass.Allows() {
		res := v.reject(scheme, reason, nil)
		res.Digest = digest
		return res
	}

	identity := ExtractIdentity(subject)
	v.log.Warn().
		Str("scheme", scheme.String()).
		Str("reason", string(reason)).
		Int64("user_id", identity.ID).
		Msg("Accepting unverified payload in development mode")

	return Result{
		Verdict:  BypassedUnverified{Reason: reason},
		Identity: &identity,
		Digest:   digest,
	}
}

func (v *Verifier) reject(scheme Scheme, reason Reason, err error) Result {
	ev := v.log.Debug().
		Str("scheme", scheme.String()).
		Str("reason", string(reason))
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg("Payload rejected")

	return Result{Verdict: Rejected{Reason: reason}}
}

// CheckFreshness applies the auth_date window to a payload. It returns an
// empty reason when the payload is fresh or the check is disabled.
func (v *Verifier) CheckFreshness(p AuthPayload) (Reason, error) {
	if v.maxAge <= 0 {
		return "", nil
	}

	signed, err := authDate(p)
	if err != nil {
		return ReasonMalformedPayload, err
	}

	now := v.clock.Now()
	if signed.Sub(now) > MaxClockSkew {
		return ReasonExpired, fmt.Errorf("auth_date is %s ahead of the clock", signed.Sub(now).Truncate(time.Second))
	}
	if age := now.Sub(signed); age > v.maxAge {
		return ReasonExpired, fmt.Errorf("auth_date is %s old", age.Truncate(time.Second))
	}
	return "", nil
}

// FreshFor reports how much longer p passes CheckFreshness. ok is false when
// the check is disabled.
func (v *Verifier) FreshFor(p AuthPayload) (d time.Duration, ok bool) {
	if v.maxAge <= 0 {
		return 0, false
	}

	signed, err := authDate(p)
	if err != nil {
		return 0, true
	}
	return signed.Add(v.maxAge).Sub(v.clock.Now()), true
}

func authDate(p AuthPayload) (time.Time, error) {
	raw, ok := p[AuthDateField]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s is missing", ErrMalformedPayload, AuthDateField)
	}
	s, err := stringify(AuthDateField, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	ts, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", ErrMalformedPayload, AuthDateField, err)
	}
	return time.Unix(ts, 0), nil
}

// identitySubject returns the object an IdentityRecord is built from. A
// payload without one is never eligible for bypass.
func identitySubject(scheme Scheme, p AuthPayload) (map[string]any, error) {
	switch scheme {
	case SchemeLoginWidget:
		if _, ok := p[IDField]; !ok {
			return nil, fmt.Errorf("%w: %s is missing", ErrMalformedPayload, IDField)
		}
		return p, nil
	case SchemeMiniApp:
		return decodeUser(p[UserField])
	default:
		return nil, ErrUnknownScheme
	}
}

func decodeUser(v any) (map[string]any, error) {
	var raw []byte
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("%w: %s is missing", ErrMalformedPayload, UserField)
	case map[string]any:
		return val, nil
	case string:
		raw = []byte(val)
	case json.RawMessage:
		raw = val
	default:
		return nil, fmt.Errorf("%w: %s is %T", ErrMalformedPayload, UserField, v)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var user map[string]any
	if err := dec.Decode(&user); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedPayload, UserField, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %s is null", ErrMalformedPayload, UserField)
	}
	return user, nil
}
