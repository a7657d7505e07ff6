// Package signature authenticates payment completion notices. Razorpay signs
// the pair (order id, payment id) with the API key secret; we recompute the
// HMAC server-side and compare in constant time. This check is the sole trust
// boundary of the verification pipeline.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Signer computes and verifies gateway payment signatures.
type Signer struct {
	secret []byte
}

// NewSigner creates a Signer using the gateway key secret shared with Razorpay.
func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// Sign returns the hex-encoded HMAC-SHA256 of "orderID|paymentID".
func (s *Signer) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether provided is the genuine signature for the pair.
// Comparison is constant-time to avoid leaking prefix matches.
func (s *Signer) Verify(orderID, paymentID, provided string) bool {
	expected := s.Sign(orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(provided))
}
