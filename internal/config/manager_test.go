package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/berkan-cetinkaya/turnstile/internal/config"
)

func TestEnvSource_Get(t *testing.T) {
	t.Setenv("TURNSTILE_SECRET", "super-secret")

	src := config.NewEnvSource()
	require.Equal(t, "env", src.Name())

	val, err := src.Get("TURNSTILE_SECRET")
	require.NoError(t, err)
	require.Equal(t, "super-secret", val)
}

func TestEnvSource_MissingKeyIsAnError(t *testing.T) {
	src := config.NewEnvSource()
	_, err := src.Get("TURNSTILE_DOES_NOT_EXIST")
	require.Error(t, err)
}

func TestNew_DefaultsToEnvProvider(t *testing.T) {
	t.Setenv("CONFIG_PROVIDER", "")
	t.Setenv("TURNSTILE_SECRET", "from-env")

	mgr, err := config.New()
	require.NoError(t, err)

	val, err := mgr.Get("TURNSTILE_SECRET")
	require.NoError(t, err)
	require.Equal(t, "from-env", val)
}

func TestNew_UnknownProviderIsAnError(t *testing.T) {
	t.Setenv("CONFIG_PROVIDER", "etcd")

	_, err := config.New()
	require.Error(t, err)
	require.Contains(t, err.Error(), "etcd")
}

func TestManager_GetDefault(t *testing.T) {
	t.Setenv("CONFIG_PROVIDER", "env")

	mgr, err := config.New()
	require.NoError(t, err)

	require.Equal(t, "fallback", mgr.GetDefault("TURNSTILE_DOES_NOT_EXIST", "fallback"))

	t.Setenv("TURNSTILE_HEADER", "X-Custom-Turnstile-Token")
	require.Equal(t, "X-Custom-Turnstile-Token", mgr.GetDefault("TURNSTILE_HEADER", "fallback"))
}

func TestManager_MustGetPanicsOnMissingKey(t *testing.T) {
	t.Setenv("CONFIG_PROVIDER", "env")

	mgr, err := config.New()
	require.NoError(t, err)

	require.Panics(t, func() {
		mgr.MustGet("TURNSTILE_DOES_NOT_EXIST")
	})
}
