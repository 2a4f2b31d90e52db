package forge

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	derrors "github.com/alexsohr/autodoc/internal/errors"
)

// Sentinel signature verification failures. Classified so the HTTP layer can
// map them to status codes without string matching.
var (
	ErrMissingSignature  = derrors.ValidationError("missing webhook signature header").Build()
	ErrMissingSecret     = derrors.ConfigError("webhook secret not configured").Build()
	ErrSignatureMismatch = derrors.AuthError("webhook signature mismatch").Build()
)

const signaturePrefix = "sha256="

// VerifySignature checks a GitHub-style HMAC-SHA256 webhook signature of the
// form "sha256=<hex>" against the raw request body. The comparison is
// constant-time. It has no side effects beyond the returned error.
func VerifySignature(secret string, body []byte, signature string) error {
	if signature == "" {
		return ErrMissingSignature
	}
	if secret == "" {
		return ErrMissingSecret
	}
	if !strings.HasPrefix(signature, signaturePrefix) {
		return ErrSignatureMismatch
	}

	expected := signature[len(signaturePrefix):]
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	calc := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(calc)) {
		return ErrSignatureMismatch
	}
	return nil
}
