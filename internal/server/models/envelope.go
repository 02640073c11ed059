package models

import (
	"github.com/dmitrijs2005/surveykeeper/internal/common"
)

// Envelope is an IV plus ciphertext pair whose plaintext meaning is opaque to
// the server. It is stored and returned byte-identical; the server never
// decodes or interprets CipherText.
type Envelope struct {
	IV         string `json:"iv"`
	CipherText string `json:"cipher_text"`
}

// Validate checks the envelope's shape against the given per-site ciphertext
// bound. The field name is used to build error messages; it should be the
// JSON path of the envelope, e.g. "title" or "questions[3].regex".
func (e *Envelope) Validate(field string, maxLen int, limits Limits) error {
	if e.IV == "" {
		return common.NewShapeError(field+".iv", "required")
	}
	if len(e.IV) < limits.IVMinLen || len(e.IV) > limits.IVMaxLen {
		return common.NewShapeError(field+".iv", "length must be within [%d,%d]", limits.IVMinLen, limits.IVMaxLen)
	}
	if e.CipherText == "" {
		return common.NewShapeError(field+".cipher_text", "required")
	}
	if len(e.CipherText) > maxLen {
		return common.NewShapeError(field+".cipher_text", "exceeds %d chars", maxLen)
	}
	return nil
}

// KeyPair is an asymmetric key pair envelope: a plaintext public key next to
// an Envelope-wrapped private key. The private half is present only in the
// owner-visible representation.
type KeyPair struct {
	PublicKey  string    `json:"public_key"`
	PrivateKey *Envelope `json:"private_key,omitempty"`
}

// Validate checks a full key pair as submitted on create: both halves must be
// present and within bounds.
func (k *KeyPair) Validate(field string, limits Limits) error {
	if k.PublicKey == "" {
		return common.NewShapeError(field+".public_key", "required")
	}
	if len(k.PublicKey) > limits.PublicKeyMaxLen {
		return common.NewShapeError(field+".public_key", "exceeds %d chars", limits.PublicKeyMaxLen)
	}
	if k.PrivateKey == nil {
		return common.NewShapeError(field+".private_key", "required")
	}
	return k.PrivateKey.Validate(field+".private_key", limits.KeyCipherMaxLen, limits)
}

// Public returns the projection of the key pair holding only the public half.
func (k KeyPair) Public() KeyPair {
	return KeyPair{PublicKey: k.PublicKey}
}
