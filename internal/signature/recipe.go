package signature

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"strings"

	"pg-bridge-api/internal/constant"
)

type Algorithm int

const (
	// HMACSHA256 base64(hmac_sha256(message, secret))
	HMACSHA256 Algorithm = iota
	// SHA1Digest hex(sha1(fields..., secret)), secret appended as the last field
	SHA1Digest
)

// Recipe fixes how one message kind is authenticated. Field order is owned by
// the per-recipe field builders in fields.go.
type Recipe struct {
	Name      string
	Algorithm Algorithm
	Separator string
	// JSONQuoted signs the json-encoded form of the joined message, quotes included.
	JSONQuoted bool
}

var (
	CheckoutRequest     = Recipe{Name: "checkout-request", Algorithm: HMACSHA256}
	RefundRequest       = Recipe{Name: "refund-request", Algorithm: HMACSHA256}
	WebhookNotification = Recipe{Name: "webhook-notification", Algorithm: SHA1Digest, Separator: ":"}
	CancellationNotice  = Recipe{Name: "cancellation-webhook", Algorithm: HMACSHA256}
	RefundNotification  = Recipe{Name: "refund-webhook-notification", Algorithm: SHA1Digest, Separator: ":"}
	StatusQuery         = Recipe{Name: "status-query", Algorithm: HMACSHA256}
	PaymentNotice       = Recipe{Name: "payment-notify", Algorithm: HMACSHA256}
	OrderReservation    = Recipe{Name: "order-reservation", Algorithm: HMACSHA256, JSONQuoted: true}
	OrderRequest        = Recipe{Name: "order-request", Algorithm: HMACSHA256}
)

// Sign computes the signature of fields under r.
func Sign(r Recipe, fields []string, secret string) string {
	switch r.Algorithm {
	case SHA1Digest:
		parts := make([]string, 0, len(fields)+1)
		parts = append(parts, fields...)
		parts = append(parts, secret)
		sum := sha1.Sum([]byte(strings.Join(parts, r.Separator)))
		return hex.EncodeToString(sum[:])
	default:
		msg := strings.Join(fields, r.Separator)
		if r.JSONQuoted {
			msg = jsonQuote(msg)
		}
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write([]byte(msg))
		return base64.StdEncoding.EncodeToString(mac.Sum(nil))
	}
}

// Verify recomputes the signature and compares in constant time.
func Verify(r Recipe, fields []string, secret, provided string) error {
	if provided == "" {
		return constant.NewError(constant.CodeAuthenticationFailed)
	}
	expected := Sign(r, fields, secret)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) != 1 {
		return constant.NewErrorf(constant.CodeAuthenticationFailed, "Invalid Hmac (%s)", r.Name)
	}
	return nil
}

// jsonQuote encodes s as a json string without escaping slashes, unicode or html.
func jsonQuote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}
