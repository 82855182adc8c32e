package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateResetToken generates a random token for the password reset flow.
func GenerateResetToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return hex.EncodeToString(bytes), nil
}
