package turnstiletest_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/berkan-cetinkaya/turnstile"
	"github.com/berkan-cetinkaya/turnstile/internal/verifier"
	"github.com/berkan-cetinkaya/turnstile/turnstiletest"
)

func TestServer_AlwaysPassSecret(t *testing.T) {
	srv := turnstiletest.NewServer()
	defer srv.Close()

	v := verifier.New(turnstile.TestSecretAlwaysPasses, srv.VerifyURL(), nil)
	res, err := v.Verify(context.Background(), "whatever-token", "")

	require.NoError(t, err)
	require.True(t, res.Success)
	require.NotEmpty(t, res.ChallengeTS)
	require.Equal(t, 1, srv.Calls())
}

func TestServer_AlwaysFailSecret(t *testing.T) {
	srv := turnstiletest.NewServer()
	defer srv.Close()

	v := verifier.New(turnstile.TestSecretAlwaysFails, srv.VerifyURL(), nil)
	res, err := v.Verify(context.Background(), "whatever-token", "")

	require.NoError(t, err)
	require.False(t, res.Success)
	require.Equal(t, []string{"invalid-input-response"}, res.ErrorCodes)
}

func TestServer_UnknownSecretFails(t *testing.T) {
	srv := turnstiletest.NewServer()
	defer srv.Close()

	v := verifier.New("not-a-real-secret", srv.VerifyURL(), nil)
	res, err := v.Verify(context.Background(), "whatever-token", "")

	require.NoError(t, err)
	require.False(t, res.Success)
	require.Equal(t, []string{"invalid-input-secret"}, res.ErrorCodes)
}

func TestServer_CountsCalls(t *testing.T) {
	srv := turnstiletest.NewServer()
	defer srv.Close()

	v := verifier.New(turnstile.TestSecretAlwaysPasses, srv.VerifyURL(), nil)
	for i := 0; i < 3; i++ {
		_, err := v.Verify(context.Background(), "whatever-token", "")
		require.NoError(t, err)
	}
	require.Equal(t, 3, srv.Calls())
}
