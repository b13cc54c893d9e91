// Package config loads operator-side settings such as the Turnstile
// secret from a pluggable backend. The library itself takes its settings
// by injection; this package is for the programs assembling them.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Source describes a backend that can provide configuration values.
type Source interface {
	Get(key string) (string, error)
	Name() string
}

// Manager proxies lookups to a single Source.
type Manager struct {
	source Source
}

// New builds a Manager for the source named by CONFIG_PROVIDER
// ("env" or "vault"), defaulting to env when unset.
func New() (*Manager, error) {
	name := strings.ToLower(strings.TrimSpace(os.Getenv("CONFIG_PROVIDER")))
	if name == "" {
		name = "env"
	}
	source, err := newSource(name)
	if err != nil {
		return nil, err
	}
	return &Manager{source: source}, nil
}

func newSource(name string) (Source, error) {
	switch name {
	case "env":
		return NewEnvSource(), nil
	case "vault":
		return NewVaultSource()
	default:
		return nil, fmt.Errorf("unknown config provider: %s", name)
	}
}

// Get returns the value for key from the configured source.
func (m *Manager) Get(key string) (string, error) {
	return m.source.Get(key)
}

// MustGet returns the value or panics if it does not exist.
func (m *Manager) MustGet(key string) string {
	val, err := m.Get(key)
	if err != nil {
		panic(err)
	}
	return val
}

// GetDefault returns the value if available, otherwise defaultVal.
func (m *Manager) GetDefault(key, defaultVal string) string {
	val, err := m.Get(key)
	if err != nil || val == "" {
		return defaultVal
	}
	return val
}
