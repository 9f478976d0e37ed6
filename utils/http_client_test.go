package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewHTTPClient(t *testing.T) {
	client, err := NewHTTPClient(zap.NewNop(), 30*time.Second, "")
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.Equal(t, 30*time.Second, client.Timeout)
}

func TestNewHTTPClient_CABundle(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := NewHTTPClient(zap.NewNop(), time.Second, filepath.Join(t.TempDir(), "nope.pem"))
		require.Error(t, err)
	})

	t.Run("no certificates in file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.pem")
		require.NoError(t, os.WriteFile(path, []byte("not a certificate"), 0o600))

		_, err := NewHTTPClient(zap.NewNop(), time.Second, path)
		require.Error(t, err)
	})
}

func TestParseLogLevel(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "debug", expected: "debug"},
		{input: "WARN", expected: "warn"},
		{input: "error", expected: "error"},
		{input: "", expected: "info"},
		{input: "bogus", expected: "info"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, parseLogLevel(tc.input).String(), "input %q", tc.input)
	}
}
