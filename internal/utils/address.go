package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// NewAddress generates a random 20-byte hex address with a 0x prefix.
// Addresses are assigned once at registration and identify the caller
// in every escrow operation.
func NewAddress() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "0x" + hex.EncodeToString(buf), nil
}

// ValidAddress reports whether s looks like a 0x-prefixed 20-byte hex
// address.
func ValidAddress(s string) bool {
	if len(s) != 42 || !strings.HasPrefix(s, "0x") {
		return false
	}
	_, err := hex.DecodeString(s[2:])
	return err == nil
}
