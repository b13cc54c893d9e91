package turnstile

import (
	"context"
	"net/http"
)

type verifiedKey struct{}

// withVerified marks ctx as belonging to a request that passed
// verification. Only the middleware calls this; the key is unexported so
// handler code cannot fabricate the marker.
func withVerified(ctx context.Context) context.Context {
	return context.WithValue(ctx, verifiedKey{}, struct{}{})
}

// IsVerified reports whether the request owning ctx passed Turnstile
// verification. Absence of the marker means not verified; there is no
// third state, so treat false as a hard failure.
func IsVerified(ctx context.Context) bool {
	_, ok := ctx.Value(verifiedKey{}).(struct{})
	return ok
}

// RequireVerified rejects requests that did not pass through Middleware
// with 401 Unauthorized. Use it on handlers mounted on shared routers
// where the middleware may not cover every path to them.
func RequireVerified(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsVerified(r.Context()) {
			http.Error(w, "Turnstile verification required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
