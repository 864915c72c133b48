package geoscore

import "strings"

// NormalizeKey turns an address into its cache key: lowercase, every
// character outside [a-z0-9] becomes '-', runs of '-' collapse to one and
// leading or trailing '-' are dropped.
func NormalizeKey(address string) string {
	lowered := strings.ToLower(address)
	var builder strings.Builder
	builder.Grow(len(lowered))
	lastDash := false
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			builder.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			builder.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(builder.String(), "-")
}
