package logger

import "strings"

// RedactEmail masks a participant address for safe logging.
// "john.doe@example.com" → "jo***@example.com"
// Short local parts (≤2 chars) are fully masked: "ab@example.com" → "***@example.com"
func RedactEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "***@***"
	}
	name := parts[0]
	if len(name) > 2 {
		return name[:2] + "***@" + parts[1]
	}
	return "***@" + parts[1]
}

// RedactToken truncates a tracking token so log lines cannot be replayed
// as working simulation links. The first few characters are enough to
// correlate entries for the same link.
func RedactToken(tok string) string {
	if len(tok) <= 8 {
		return "***"
	}
	return tok[:8] + "***"
}
