package common

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateID generates a unique identifier
func GenerateID() string {
	return uuid.NewString()
}

// Min returns the minimum of two integers
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the maximum of two integers
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi int) int {
	return Max(lo, Min(v, hi))
}

// JoinKey joins non-empty path segments with "/"
func JoinKey(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "/")
}

// SanitizeKey removes path traversal sequences from a storage key
func SanitizeKey(key string) string {
	sanitized := strings.ReplaceAll(key, "..", "")
	sanitized = strings.ReplaceAll(sanitized, "//", "/")
	return strings.Trim(sanitized, "/")
}
