package telegramauth

// Reason explains why a payload was not verified.
type Reason string

const (
	ReasonMissingSignature  Reason = "missing_signature"
	ReasonSignatureMismatch Reason = "signature_mismatch"
	ReasonMalformedPayload  Reason = "malformed_payload"
	ReasonInternalError     Reason = "internal_error"
	ReasonExpired           Reason = "expired"
)

// Verdict is one of Verified, Rejected or BypassedUnverified. Callers are
// expected to switch on the concrete type.
type Verdict interface {
	verdict()
	String() string
}

// Verified means the hash matched the recomputed digest.
type Verified struct{}

// Rejected carries the reason verification failed.
type Rejected struct {
	Reason Reason
}

// BypassedUnverified is only produced in development mode. Reason is what
// would otherwise have rejected the payload.
type BypassedUnverified struct {
	Reason Reason
}

func (Verified) verdict()           {}
func (Rejected) verdict()           {}
func (BypassedUnverified) verdict() {}

func (Verified) String() string             { return "verified" }
func (r Rejected) String() string           { return "rejected: " + string(r.Reason) }
func (b BypassedUnverified) String() string { return "bypassed: " + string(b.Reason) }

// Result is the outcome of one verification call.
type Result struct {
	Verdict Verdict
	// Identity is set for Verified and BypassedUnverified only.
	Identity *IdentityRecord
	// Digest is the recomputed hash, empty when none was computed.
	Digest string
}

// IsVerified reports whether the payload was cryptographically verified.
// A bypassed payload is not verified.
func (r Result) IsVerified() bool {
	_, ok := r.Verdict.(Verified)
	return ok
}
