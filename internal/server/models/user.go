package models

import (
	"net/mail"
	"time"

	"github.com/dmitrijs2005/surveykeeper/internal/common"
)

// DefaultAccountAlgorithms is the informational algorithm tag recorded for
// accounts when a client omits one.
const DefaultAccountAlgorithms = "XCHACHA20_POLY1305+ED25519+ARGON2+X25519_XSalsa20Poly1305+BLAKE2b+IV24+SALT16+KEY32"

// KDFParams are the client-chosen Argon2 parameters used to derive the
// account key locally. The server validates them against safe ranges only;
// it never runs the KDF.
type KDFParams struct {
	Salt       string `json:"salt"`
	TimeCost   int    `json:"time_cost"`
	MemoryCost int64  `json:"memory_cost"`
}

// Validate checks the KDF parameters against the configured safe ranges.
func (p *KDFParams) Validate(limits Limits) error {
	if p.Salt == "" {
		return common.NewShapeError("kdf.salt", "required")
	}
	if len(p.Salt) > limits.SaltMaxLen {
		return common.NewShapeError("kdf.salt", "exceeds %d chars", limits.SaltMaxLen)
	}
	if p.TimeCost < limits.MinTimeCost || p.TimeCost > limits.MaxTimeCost {
		return common.NewShapeError("kdf.time_cost", "must be within [%d,%d]", limits.MinTimeCost, limits.MaxTimeCost)
	}
	if p.MemoryCost < limits.MinMemoryCost || p.MemoryCost > limits.MaxMemoryCost {
		return common.NewShapeError("kdf.memory_cost", "must be within [%d,%d]", limits.MinMemoryCost, limits.MaxMemoryCost)
	}
	return nil
}

// AuthKey is the account's authentication public key. There is no private
// half on the server: login proofs are produced client-side.
type AuthKey struct {
	PublicKey string `json:"public_key"`
}

// OTP holds the account's one-time-password state. Provisioning runs in an
// external collaborator; only Completed is ever surfaced publicly.
type OTP struct {
	Secret    string `json:"secret,omitempty"`
	Completed bool   `json:"completed"`
}

// User is the account aggregate: contact identity plus the cryptographic
// material a client needs to unlock its keychain. All private halves arrive
// already wrapped by the locally derived keychain key.
type User struct {
	ID      string    `json:"id,omitempty"`
	Email   string    `json:"email"`
	Created time.Time `json:"created"`

	Auth        AuthKey   `json:"auth"`
	KeyPair     KeyPair   `json:"keypair"`
	SignKeyPair KeyPair   `json:"sign_keypair"`
	Keychain    Envelope  `json:"keychain"`
	KDF         KDFParams `json:"kdf"`

	IPLookupConsent bool   `json:"ip_lookup_consent"`
	Signature       string `json:"signature"`
	Algorithms      string `json:"algorithms"`

	OTP           OTP  `json:"otp"`
	EmailVerified bool `json:"email_verified"`
}

// PublicUser is the only representation ever returned to a caller other than
// the account owner: KDF parameters (needed to derive the login key) and the
// second-factor flag. Never key material.
type PublicUser struct {
	KDF          KDFParams `json:"kdf"`
	OTPCompleted bool      `json:"otp_completed"`
}

// ValidateCreate checks the structural shape of an account-create payload.
func (u *User) ValidateCreate(limits Limits) error {
	if u.Email == "" {
		return common.NewShapeError("email", "required")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return common.NewShapeError("email", "invalid address")
	}

	if u.Auth.PublicKey == "" {
		return common.NewShapeError("auth.public_key", "required")
	}
	if len(u.Auth.PublicKey) > limits.PublicKeyMaxLen {
		return common.NewShapeError("auth.public_key", "exceeds %d chars", limits.PublicKeyMaxLen)
	}

	if err := u.KeyPair.Validate("keypair", limits); err != nil {
		return err
	}
	if err := u.SignKeyPair.Validate("sign_keypair", limits); err != nil {
		return err
	}
	if err := u.Keychain.Validate("keychain", limits.KeychainMaxLen, limits); err != nil {
		return err
	}
	if err := u.KDF.Validate(limits); err != nil {
		return err
	}

	if u.Signature == "" {
		return common.NewShapeError("signature", "required")
	}
	if len(u.Signature) > limits.SignatureMaxLen {
		return common.NewShapeError("signature", "exceeds %d chars", limits.SignatureMaxLen)
	}
	if len(u.Algorithms) > limits.AlgorithmsMaxLen {
		return common.NewShapeError("algorithms", "exceeds %d chars", limits.AlgorithmsMaxLen)
	}

	return nil
}

// ProjectPublic returns the restricted view of the account.
func (u *User) ProjectPublic() *PublicUser {
	return &PublicUser{KDF: u.KDF, OTPCompleted: u.OTP.Completed}
}
