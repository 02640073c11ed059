package common

import (
	"crypto/rand"
	"encoding/hex"
)

// MakeRandHexString generates a random hexadecimal string of the given size.
// The size parameter specifies the number of random bytes to generate before
// encoding, so the final string length is twice the size. Document ids use
// MakeRandHexString(12), which yields the 24-hex-character format exposed by
// the API.
//
// It returns an error if the random number generator fails.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateRandByteArray returns a byte slice of the given size filled from
// the system CSPRNG. Panics if the generator fails, which is unrecoverable.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// IsHexString reports whether s consists only of lowercase/uppercase
// hexadecimal digits. Used to pre-screen document ids before hitting storage:
// a malformed id behaves exactly like an absent document.
func IsHexString(s string) bool {
	_, err := hex.DecodeString(s)
	return err == nil
}
