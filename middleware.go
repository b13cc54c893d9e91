package turnstile

import (
	"encoding/json"
	"net/http"

	"github.com/berkan-cetinkaya/turnstile/internal/verifier"
)

// Machine-readable rejection statuses, one per failure path.
const (
	StatusTokenMissing       = "token_missing"
	StatusVerificationFailed = "verification_failed"
	StatusUpstreamError      = "upstream_error"
)

// Rejection describes why a request was stopped before its handler.
type Rejection struct {
	// StatusCode is the HTTP status mapped from the failure path:
	// 400 for a missing token, 403 for a rejected token, 500 when
	// siteverify could not be reached or understood.
	StatusCode int
	// Status is one of the Status* constants.
	Status string
	// Message is a generic, client-safe description.
	Message string
	// ErrorCodes holds Cloudflare's error codes when the token was
	// rejected. They are for operator-side diagnostics; the default
	// failure handler never sends them to the client.
	ErrorCodes []string
}

// FailureHandler renders a rejection to the client.
type FailureHandler func(http.ResponseWriter, *http.Request, Rejection)

type middlewareConfig struct {
	failureHandler FailureHandler
}

// MiddlewareOption adjusts how Middleware handles rejections.
type MiddlewareOption func(*middlewareConfig)

// WithFailureHandler replaces the default JSON failure handler.
func WithFailureHandler(handler FailureHandler) MiddlewareOption {
	return func(cfg *middlewareConfig) {
		if handler != nil {
			cfg.failureHandler = handler
		}
	}
}

// JSONFailureHandler writes the rejection as
// {"success":false,"status":...,"message":...} with the mapped status
// code. Error codes are deliberately omitted.
func JSONFailureHandler() FailureHandler {
	return func(w http.ResponseWriter, _ *http.Request, rej Rejection) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(rej.StatusCode)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"status":  rej.Status,
			"message": rej.Message,
		})
	}
}

// Middleware returns a handler wrapper that verifies the Turnstile token
// on every request before the wrapped handler runs. Requests that pass
// are forwarded unmodified except for the verified marker on their
// context; every failure path short-circuits with a Rejection and the
// wrapped handler is never invoked.
//
// The outbound siteverify call runs under the request's context, so an
// aborted request abandons its verification call. Evaluations for
// distinct requests are independent; cfg is never mutated.
//
// Middleware panics with ErrMissingSecret if cfg has an empty secret,
// since every verification would otherwise fail at runtime.
func Middleware(cfg Config, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	if cfg.secret == "" {
		panic(ErrMissingSecret)
	}

	mcfg := middlewareConfig{
		failureHandler: JSONFailureHandler(),
	}
	for _, opt := range opts {
		opt(&mcfg)
	}

	var v verifier.Verifier = verifier.New(cfg.secret, cfg.verifyURL, cfg.client)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(cfg.headerName)
			if token == "" {
				cfg.logger.Warn().
					Str("header", cfg.headerName).
					Msg("turnstile token missing")
				mcfg.failureHandler(w, r, Rejection{
					StatusCode: http.StatusBadRequest,
					Status:     StatusTokenMissing,
					Message:    "missing Turnstile token",
				})
				return
			}

			res, err := v.Verify(r.Context(), token, cfg.clientIP(r))
			if err != nil {
				cfg.logger.Error().
					Err(err).
					Msg("turnstile siteverify unavailable")
				mcfg.failureHandler(w, r, Rejection{
					StatusCode: http.StatusInternalServerError,
					Status:     StatusUpstreamError,
					Message:    "verification error",
				})
				return
			}
			if !res.Success {
				cfg.logger.Warn().
					Strs("error_codes", res.ErrorCodes).
					Msg("turnstile verification failed")
				mcfg.failureHandler(w, r, Rejection{
					StatusCode: http.StatusForbidden,
					Status:     StatusVerificationFailed,
					Message:    "Turnstile verification failed",
					ErrorCodes: res.ErrorCodes,
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(withVerified(r.Context())))
		})
	}
}
