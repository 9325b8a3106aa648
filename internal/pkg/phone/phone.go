package phone

import "strings"

// Normalize strips every non-digit character, producing the canonical
// digits-only form used for storage and comparison. Idempotent.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Format renders up to nine digits as "XXX XXX XXX" for display
func Format(s string) string {
	digits := Normalize(s)
	if len(digits) > 9 {
		digits = digits[:9]
	}
	switch {
	case len(digits) <= 3:
		return digits
	case len(digits) <= 6:
		return digits[:3] + " " + digits[3:]
	default:
		return digits[:3] + " " + digits[3:6] + " " + digits[6:]
	}
}
