package telegramauth

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInitData(t *testing.T) {
	p, err := ParseInitData("auth_date=1700000000&user=%7B%22id%22%3A1%7D&hash=abc&hash=def")
	require.NoError(t, err)

	assert.Equal(t, "1700000000", p[AuthDateField])
	assert.Equal(t, `{"id":1}`, p[UserField])
	assert.Equal(t, "abc", p[HashField])

	_, err = ParseInitData("user=%zz")
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestAuthPayload_Signature(t *testing.T) {
	tests := []struct {
		name    string
		payload AuthPayload
		want    string
		present bool
		wantErr bool
	}{
		{name: "absent", payload: AuthPayload{}},
		{name: "null", payload: AuthPayload{HashField: nil}},
		{name: "empty", payload: AuthPayload{HashField: ""}},
		{name: "string", payload: AuthPayload{HashField: "ab12"}, want: "ab12", present: true},
		{name: "number", payload: AuthPayload{HashField: json.Number("12")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := tt.payload.signature()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedPayload)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.present, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"x", "x"},
		{json.Number("1700000000"), "1700000000"},
		{true, "true"},
		{int64(42), "42"},
		{float64(1.5), "1.5"},
		{float64(1700000000), "1700000000"},
		{map[string]any{"id": 1}, `{"id":1}`},
	}

	for _, tt := range tests {
		got, err := stringify("k", tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := stringify("k", []string{"a"})
	assert.ErrorIs(t, err, ErrUncoercibleValue)
}
