// Package turnstiletest provides an in-process siteverify endpoint for
// integration tests. It honors Cloudflare's deterministic test secrets,
// so gate behavior can be exercised without network access:
//
//	srv := turnstiletest.NewServer()
//	defer srv.Close()
//
//	cfg := turnstile.NewConfig(turnstile.TestSecretAlwaysPasses).
//		WithVerifyURL(srv.VerifyURL())
package turnstiletest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	"github.com/berkan-cetinkaya/turnstile"
)

// Server is a fake siteverify endpoint. Verification outcome depends
// only on the submitted secret: the always-pass test secret succeeds,
// anything else fails with an error code, matching the provider's
// test-mode contract.
type Server struct {
	*httptest.Server
	calls atomic.Int64
}

// NewServer starts a fake siteverify server. Close it when done.
func NewServer() *Server {
	s := &Server{}
	s.Server = httptest.NewServer(http.HandlerFunc(s.siteverify))
	return s
}

// VerifyURL is the endpoint to hand to Config.WithVerifyURL.
func (s *Server) VerifyURL() string {
	return s.URL
}

// Calls reports how many verification requests the server received.
func (s *Server) Calls() int {
	return int(s.calls.Load())
}

func (s *Server) siteverify(w http.ResponseWriter, r *http.Request) {
	s.calls.Add(1)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	secret := r.PostFormValue("secret")
	token := r.PostFormValue("response")

	switch {
	case secret == "":
		writeResult(w, false, "missing-input-secret")
	case token == "":
		writeResult(w, false, "missing-input-response")
	case secret == turnstile.TestSecretAlwaysPasses:
		writeResult(w, true)
	case secret == turnstile.TestSecretAlwaysFails:
		writeResult(w, false, "invalid-input-response")
	default:
		writeResult(w, false, "invalid-input-secret")
	}
}

func writeResult(w http.ResponseWriter, success bool, errorCodes ...string) {
	body := map[string]any{
		"success":     success,
		"error-codes": errorCodes,
	}
	if success {
		body["challenge_ts"] = time.Now().UTC().Format(time.RFC3339)
		body["hostname"] = "example.com"
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}
