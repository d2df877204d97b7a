package telegramauth

// ModeDevelopment is the only deployment mode that enables the bypass.
const ModeDevelopment = "development"

// BypassPolicy decides whether an unsigned or mismatched payload may be
// accepted anyway. It is fixed when the Verifier is built.
type BypassPolicy struct {
	enabled bool
}

func NewBypassPolicy(mode string) BypassPolicy {
	return BypassPolicy{enabled: mode == ModeDevelopment}
}

func (p BypassPolicy) Allows() bool {
	return p.enabled
}
