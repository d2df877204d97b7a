package telegramauth

import (
	"sort"
	"strings"
)

// Canonicalize builds the data-check string: every field except hash, sorted
// by key, rendered as key=value and joined with "\n".
func Canonicalize(p AuthPayload) (string, error) {
	keys := make([]string, 0, len(p))
	for k := range p {
		if k == HashField {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		v, err := stringify(k, p[k])
		if err != nil {
			return "", err
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(v)
	}
	return b.String(), nil
}
