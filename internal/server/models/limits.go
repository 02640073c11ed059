// Package models defines the encrypted-envelope data model: surveys, account
// key material and answer sets. Every sensitive value is an IV+ciphertext
// envelope produced and consumed by clients; validation here checks shape and
// size only and never interprets ciphertext.
package models

// Limits bounds every client-supplied field. The values are DoS/storage
// controls, not cryptographic ones. A Limits value is immutable once built
// and is passed explicitly into each validation entry point so tests can
// vary bounds per case.
type Limits struct {
	// Envelope IV length window, in characters of the encoded value.
	IVMinLen int
	IVMaxLen int

	// Per-site ciphertext bounds.
	TitleMaxLen       int
	DescriptionMaxLen int
	QuestionMaxLen    int
	RegexMaxLen       int
	ChoiceMaxLen      int
	KeyCipherMaxLen   int
	KeychainMaxLen    int

	// Plaintext metadata bounds.
	PublicKeyMaxLen  int
	SignatureMaxLen  int
	AlgorithmsMaxLen int
	SaltMaxLen       int

	// Safe ranges for client-chosen KDF costs. Guards against
	// resource-exhaustion via absurd parameters recorded for other clients.
	MinTimeCost   int
	MaxTimeCost   int
	MinMemoryCost int64
	MaxMemoryCost int64

	// Collection bounds.
	MaxQuestions   int
	MaxChoices     int
	MaxAnswerItems int
	AnswerMaxLen   int

	// Exclusive upper bound for question and choice ids.
	MaxID int
}

// DefaultLimits returns the production bounds. The envelope sizes assume
// base64-encoded values: a 44-char public key is a 32-byte key, a 240-char
// key cipher fits an encrypted private key with overhead.
func DefaultLimits() Limits {
	return Limits{
		IVMinLen:          12,
		IVMaxLen:          44,
		TitleMaxLen:       128,
		DescriptionMaxLen: 1024,
		QuestionMaxLen:    256,
		RegexMaxLen:       128,
		ChoiceMaxLen:      512,
		KeyCipherMaxLen:   240,
		KeychainMaxLen:    82,
		PublicKeyMaxLen:   44,
		SignatureMaxLen:   128,
		AlgorithmsMaxLen:  120,
		SaltMaxLen:        64,
		MinTimeCost:       2,
		MaxTimeCost:       12,
		MinMemoryCost:     65535,
		MaxMemoryCost:     3355443200,
		MaxQuestions:      128,
		MaxChoices:        56,
		MaxAnswerItems:    56,
		AnswerMaxLen:      1024,
		MaxID:             1024,
	}
}
