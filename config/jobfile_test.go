package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJobFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadJobs(t *testing.T) {
	path := writeJobFile(t, `
jobs:
  - module: ipam
    type: prefixes
    field: routing_metadata
    max_iterations: 5
    replace_empty_string_with_null: true
  - module: dcim
    type: devices
    field: inventory_data
`)

	jobs, err := LoadJobs(path)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, "ipam", jobs[0].Module)
	assert.Equal(t, "prefixes", jobs[0].Type)
	assert.Equal(t, "routing_metadata", jobs[0].Field)
	assert.Equal(t, 5, jobs[0].MaxIterations)
	assert.True(t, jobs[0].EmptyStringAsNull)

	// Unset max_iterations falls back to the default.
	assert.Equal(t, DefaultMaxIterations, jobs[1].MaxIterations)
	assert.False(t, jobs[1].EmptyStringAsNull)
}

func TestLoadJobs_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{name: "missing field", content: "jobs:\n  - module: ipam\n    type: prefixes\n"},
		{name: "empty file", content: ""},
		{name: "not yaml", content: "jobs: [unclosed\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadJobs(writeJobFile(t, tc.content))
			require.Error(t, err)
		})
	}
}

func TestLoadJobs_MissingFile(t *testing.T) {
	_, err := LoadJobs(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
