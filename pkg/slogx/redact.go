package slogx

import (
	"log/slog"
	"strings"
)

// Secret masks all but the first three characters of v. Invite codes go
// through this before they reach a log line.
func Secret(key, v string) slog.Attr {
	return slog.String(key, Redact(v, 3))
}

// Redact keeps the first keep runes of s and replaces the rest with '*'.
func Redact(s string, keep int) string {
	r := []rune(s)
	if len(r) <= keep {
		return strings.Repeat("*", len(r))
	}
	return string(r[:keep]) + strings.Repeat("*", len(r)-keep)
}
