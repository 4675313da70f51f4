package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// CanonicalMessage is the byte string the provider signs for a checkout
// callback: order id and payment id joined by a single pipe.
func CanonicalMessage(orderID, paymentID string) string {
	return orderID + "|" + paymentID
}

// Sign returns the lowercase hex HMAC-SHA256 of the canonical message.
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(CanonicalMessage(orderID, paymentID)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature matches. The comparison runs in constant
// time over the hex strings; any case or length difference is a mismatch.
func Verify(secret, orderID, paymentID, signature string) bool {
	expected := Sign(secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
