package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestManagerPrecedence(t *testing.T) {
	t.Setenv("MAX_ITERATIONS", "25")
	t.Setenv("NETBOX_URL", "https://netbox.example.com")

	m := New(zap.NewNop())
	m.Load()

	// Environment overrides the default.
	assert.Equal(t, 25, m.GetInt("MAX_ITERATIONS", 0))
	assert.Equal(t, "https://netbox.example.com", m.GetString("NETBOX_URL", ""))

	// Unset keys fall back.
	assert.Equal(t, "fallback", m.GetString("NETBOX_CAFILE", "fallback"))
	assert.Equal(t, 9, m.GetInt("METRICS_PORT", 9))
}

func TestManagerIgnoresNonInteger(t *testing.T) {
	t.Setenv("MAX_ITERATIONS", "lots")

	m := New(zap.NewNop())
	m.Load()

	assert.Equal(t, 10, m.GetInt("MAX_ITERATIONS", 10))
}
