package netbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	testCases := []struct {
		name       string
		module     string
		objectType string
		expected   string
		wantErr    bool
	}{
		{name: "ipam prefixes", module: "ipam", objectType: "prefixes", expected: "/api/ipam/prefixes/"},
		{name: "dcim devices", module: "dcim", objectType: "devices", expected: "/api/dcim/devices/"},
		{name: "underscores accepted", module: "ipam", objectType: "ip_addresses", expected: "/api/ipam/ip-addresses/"},
		{name: "unknown module", module: "nosuch", objectType: "prefixes", wantErr: true},
		{name: "unknown type", module: "ipam", objectType: "devices", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path, err := Lookup(tc.module, tc.objectType)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, path)
		})
	}
}

func TestLookupErrorListsKnownNames(t *testing.T) {
	_, err := Lookup("nosuch", "prefixes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ipam")

	_, err = Lookup("ipam", "nosuch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prefixes")
}
