// Package secret generates instance credentials.
//
// Credentials are opaque random strings handed to the daemon's
// requirepass directive and to the liveness probe. They are rotated
// on every provisioning run that touches an instance.
package secret

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// CredentialBytes is the entropy of a generated credential. The hex
// encoding doubles this to the string length the daemon sees.
const CredentialBytes = 24

// NewCredential returns a fresh random credential.
func NewCredential() (string, error) {
	buf := make([]byte, CredentialBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate credential: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
