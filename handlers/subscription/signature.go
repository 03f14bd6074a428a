package subscription

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strings"
)

// Encodings reported by VerifyWebhookSignature for diagnostics.
const (
	EncodingRaw  = "raw"
	EncodingText = "text"
)

// VerifyWebhookSignature checks that signature is the base64 HMAC-SHA256 of
// the request body under secret. The digest is computed over the raw bytes
// and, to tolerate transport re-encoding, over the sanitized UTF-8 text
// form (BOM stripped, invalid sequences replaced). A missing secret or
// signature always fails: no event may be processed without verification.
func VerifyWebhookSignature(raw []byte, signature, secret string) (bool, string) {
	if secret == "" || signature == "" {
		return false, ""
	}

	if signatureMatches(raw, signature, secret) {
		return true, EncodingRaw
	}

	text := normalizeText(raw)
	if text != string(raw) && signatureMatches([]byte(text), signature, secret) {
		return true, EncodingText
	}

	return false, ""
}

func signatureMatches(body []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

func normalizeText(raw []byte) string {
	text := strings.TrimPrefix(string(raw), "\uFEFF")
	return strings.ToValidUTF8(text, "�")
}
