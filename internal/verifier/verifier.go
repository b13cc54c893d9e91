// Package verifier implements the siteverify exchange with Cloudflare
// Turnstile.
package verifier

import "context"

// Result is a decoded siteverify response.
type Result struct {
	Success     bool
	ChallengeTS string
	Hostname    string
	Action      string
	CData       string
	ErrorCodes  []string
}

// Verifier performs a single token verification exchange. A Result is
// returned whenever the provider answered with something parseable,
// including "not verified"; the error return is reserved for failures to
// communicate with the provider at all.
type Verifier interface {
	Verify(ctx context.Context, token, ip string) (Result, error)
}
