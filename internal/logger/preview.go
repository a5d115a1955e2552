package logger

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// TruncateForLog trims s and cuts it to limit runes, marking the cut with an
// ellipsis. A non-positive limit yields an empty string.
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}

	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= limit {
		return s
	}

	return string([]rune(s)[:limit]) + "..."
}

// Preview returns key with a truncated copy of s plus a <key>_length field
// holding the full rune count, so large payloads can be logged at debug level.
func Preview(key, s string, limit int) []zap.Field {
	return []zap.Field{
		zap.Int(strings.TrimSuffix(key, "_preview")+"_length", utf8.RuneCountInString(s)),
		zap.String(key, TruncateForLog(s, limit)),
	}
}
