package whatsapp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// signaturePrefix is the scheme Meta prepends to the HMAC hex digest.
const signaturePrefix = "sha256="

// VerifySignature checks the X-Hub-Signature-256 header against the raw
// request body using the app secret. The comparison is constant time.
func VerifySignature(body []byte, header string, appSecret string) bool {
	if appSecret == "" || !strings.HasPrefix(header, signaturePrefix) {
		return false
	}

	expected, err := hex.DecodeString(strings.TrimPrefix(header, signaturePrefix))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)

	return hmac.Equal(expected, mac.Sum(nil))
}
