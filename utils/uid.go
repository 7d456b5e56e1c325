package utils

import (
	"regexp"
	"strings"
)

// NFC readers report 4, 7 or 10 byte UIDs; accept 8 to 20 hex chars.
var uidPattern = regexp.MustCompile(`^[0-9A-F]{8,20}$`)

// NormalizeUID converts a raw tag UID to canonical form: surrounding
// whitespace trimmed, ':' and '-' separators stripped, uppercase.
// Applied at every boundary that accepts a uid.
func NormalizeUID(raw string) string {
	uid := strings.TrimSpace(raw)
	uid = strings.ReplaceAll(uid, ":", "")
	uid = strings.ReplaceAll(uid, "-", "")
	return strings.ToUpper(uid)
}

// ValidUID reports whether a canonical UID looks like NFC tag hardware
// bytes. A uid failing this is "invalid"; a valid-looking uid with no
// participant behind it is "unregistered" — the two are reported
// differently to the scanner app.
func ValidUID(uid string) bool {
	return uidPattern.MatchString(uid)
}
