// Package geoip defines the network-origin reputation collaborator consumed
// by the submission gatekeeper's proxy gate.
package geoip

import "context"

// Result is the reputation verdict for a network address.
type Result struct {
	Proxy bool
}

// Lookup resolves a network address to a reputation verdict. A nil Result
// with a nil error means the origin is unknown to the provider; how the
// proxy gate treats that is a policy decision made by the caller, not here.
type Lookup interface {
	Lookup(ctx context.Context, addr string) (*Result, error)
}
