package payment

import "crypto/subtle"

// VerifyCallbackToken checks the X-Callback-Token header against the
// configured verification token in constant time. An empty configured
// token never verifies: webhooks must not be accepted unauthenticated.
func VerifyCallbackToken(configured, presented string) bool {
	if configured == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(configured), []byte(presented)) == 1
}
