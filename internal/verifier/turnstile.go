package verifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Turnstile verifies tokens against a siteverify endpoint. One call per
// Verify; no retries, no caching.
type Turnstile struct {
	Secret    string
	VerifyURL string
	Client    *http.Client
}

// New returns a Turnstile verifier. A nil client gets a default with a
// 5 second timeout.
func New(secret, verifyURL string, client *http.Client) *Turnstile {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &Turnstile{
		Secret:    secret,
		VerifyURL: verifyURL,
		Client:    client,
	}
}

// Verify posts the token to the siteverify endpoint as a form and decodes
// the answer. ip is sent as remoteip when non-empty. A parsed response is
// returned even when Cloudflare reports failure; the error return covers
// transport failures, non-2xx statuses and undecodable bodies only.
func (t *Turnstile) Verify(ctx context.Context, token, ip string) (Result, error) {
	form := url.Values{}
	form.Set("secret", t.Secret)
	form.Set("response", token)
	if ip != "" {
		form.Set("remoteip", ip)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.Client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return Result{}, fmt.Errorf("turnstile siteverify returned status %d", resp.StatusCode)
	}

	var raw struct {
		Success     bool     `json:"success"`
		ChallengeTS string   `json:"challenge_ts,omitempty"`
		Hostname    string   `json:"hostname,omitempty"`
		Action      string   `json:"action,omitempty"`
		CData       string   `json:"cdata,omitempty"`
		ErrorCodes  []string `json:"error-codes,omitempty"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Result{}, fmt.Errorf("turnstile decode error: %w", err)
	}

	return Result{
		Success:     raw.Success,
		ChallengeTS: raw.ChallengeTS,
		Hostname:    raw.Hostname,
		Action:      raw.Action,
		CData:       raw.CData,
		ErrorCodes:  raw.ErrorCodes,
	}, nil
}
