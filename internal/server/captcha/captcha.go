// Package captcha defines the captcha verification collaborator consumed by
// the submission gatekeeper, plus an mCaptcha-compatible HTTP client.
package captcha

import "context"

// Verifier checks a caller-supplied captcha token. A false result or an
// error both fail the captcha gate: the gate is fail-closed, so a provider
// outage never silently waives the check.
type Verifier interface {
	Verify(ctx context.Context, token string) (bool, error)
}
