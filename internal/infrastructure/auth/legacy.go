package auth

import (
	"encoding/base64"
	"strings"
)

// legacyPaddingMarker is what an older admin client leaves in the decoded
// fields: it sent base64("login:password") where raw text was expected.
const legacyPaddingMarker = "=="

// decodeLegacyBasic recovers credentials sent base64 encoded. It triggers
// only when either field contains "==", decodes the login field and splits
// the result on its first colon.
func decodeLegacyBasic(creds BasicCredentials) (BasicCredentials, bool) {
	if !strings.Contains(creds.Login, legacyPaddingMarker) && !strings.Contains(creds.Password, legacyPaddingMarker) {
		return BasicCredentials{}, false
	}

	raw, err := base64.StdEncoding.DecodeString(creds.Login)
	if err != nil {
		return BasicCredentials{}, false
	}

	login, password, _ := strings.Cut(string(raw), ":")
	return BasicCredentials{Login: login, Password: password}, true
}

// IsLegacyEncoded reports whether a basic payload goes through the
// double-encoding fallback
func IsLegacyEncoded(payload string) bool {
	login, password, _ := strings.Cut(payload, ":")
	_, ok := decodeLegacyBasic(BasicCredentials{Login: login, Password: password})
	return ok
}
