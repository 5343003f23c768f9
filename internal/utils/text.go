package utils

// Truncate returns a truncated string with "..." if it exceeds maxLen.
// This function is Unicode-safe, counting runes instead of bytes.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// DefaultShortIDLength is the number of characters ShortID keeps by default.
const DefaultShortIDLength = 8

// ShortID returns the first n characters of an id for display.
// If n is 0 or negative, DefaultShortIDLength is used.
//
//	ShortID("1f0c9a7e-3b2d-4c11-9e55-0a6b8f2d9c31", 0) → "1f0c9a7e"
func ShortID(id string, n int) string {
	if n <= 0 {
		n = DefaultShortIDLength
	}
	if len(id) <= n {
		return id
	}
	return id[:n]
}
