package telegramauth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Field names used by both payload variants.
const (
	HashField     = "hash"
	UserField     = "user"
	AuthDateField = "auth_date"
	IDField       = "id"
)

// AuthPayload is an identity block presented by a client. Values are strings,
// numbers, booleans or, for the mini-app "user" entry, either the raw JSON
// string the platform signed or an already decoded object.
type AuthPayload map[string]any

// DecodePayload decodes a JSON object into an AuthPayload keeping numbers
// verbatim, so ids are rendered exactly as the client sent them. Nested
// objects stay json.RawMessage so the signed bytes survive untouched.
func DecodePayload(data []byte) (AuthPayload, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: payload is not an object", ErrMalformedPayload)
	}

	p := make(AuthPayload, len(fields))
	for k, raw := range fields {
		if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '{' {
			p[k] = json.RawMessage(trimmed)
			continue
		}

		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()

		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedPayload, k, err)
		}
		p[k] = v
	}
	return p, nil
}

// ParseInitData converts a URL-encoded mini-app launch string into an
// AuthPayload. The user entry stays a raw JSON string so the check string is
// built from the exact bytes the platform signed.
func ParseInitData(raw string) (AuthPayload, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	p := make(AuthPayload, len(values))
	for k, vs := range values {
		if len(vs) > 0 {
			p[k] = vs[0]
		}
	}
	return p, nil
}

// signature returns the hash field. A present but non-string hash is a
// structural error, not an absent signature.
func (p AuthPayload) signature() (string, bool, error) {
	v, ok := p[HashField]
	if !ok || v == nil {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, fmt.Errorf("%w: %s is %T", ErrMalformedPayload, HashField, v)
	}
	if s == "" {
		return "", false, nil
	}
	return s, true, nil
}

// stringify renders a payload value the way the platform renders it in the
// check string.
func stringify(key string, v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case json.Number:
		return val.String(), nil
	case json.RawMessage:
		return string(val), nil
	case bool:
		return strconv.FormatBool(val), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case map[string]any:
		b, err := json.Marshal(val)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrUncoercibleValue, key, err)
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("%w: %s is %T", ErrUncoercibleValue, key, v)
	}
}
