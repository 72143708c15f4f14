// Package signature implements the gateway's payment callback signature:
// hex(HMAC-SHA256(secret, orderID + "|" + paymentID)).
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign computes the expected signature for an order/payment pair
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether sig matches, comparing in constant time
func Verify(secret, orderID, paymentID, sig string) bool {
	expected := Sign(secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(sig))
}
