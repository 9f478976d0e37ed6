package netbox

import (
	"fmt"
	"sort"
	"strings"
)

// registry maps NetBox functional modules to the object types this tool can
// address. Custom fields attach to these models; paths follow the uniform
// /api/<module>/<type>/ layout of the NetBox REST API.
var registry = map[string][]string{
	"circuits": {
		"circuits", "circuit-terminations", "provider-networks", "providers",
	},
	"dcim": {
		"cables", "device-types", "devices", "interfaces", "locations",
		"module-bays", "modules", "power-feeds", "power-panels", "racks",
		"rear-ports", "front-ports", "sites",
	},
	"extras": {
		"config-contexts", "journal-entries", "tags",
	},
	"ipam": {
		"aggregates", "asns", "fhrp-groups", "ip-addresses", "ip-ranges",
		"prefixes", "rirs", "roles", "route-targets", "services", "vlans",
		"vrfs",
	},
	"tenancy": {
		"contact-groups", "contacts", "tenant-groups", "tenants",
	},
	"virtualization": {
		"cluster-groups", "clusters", "interfaces", "virtual-machines",
	},
	"wireless": {
		"wireless-lan-groups", "wireless-lans", "wireless-links",
	},
}

// Lookup resolves a (module, type) pair to its API path. Underscores are
// accepted in the type name the way pynetbox accepts attribute names, so
// "ip_addresses" addresses the ip-addresses endpoint.
func Lookup(module, objectType string) (string, error) {
	types, ok := registry[module]
	if !ok {
		return "", fmt.Errorf("unknown NetBox module %q (known modules: %s)",
			module, strings.Join(knownModules(), ", "))
	}

	normalized := strings.ReplaceAll(objectType, "_", "-")
	for _, t := range types {
		if t == normalized {
			return fmt.Sprintf("/api/%s/%s/", module, normalized), nil
		}
	}
	return "", fmt.Errorf("unknown object type %q in module %q (known types: %s)",
		objectType, module, strings.Join(types, ", "))
}

func knownModules() []string {
	modules := make([]string, 0, len(registry))
	for m := range registry {
		modules = append(modules, m)
	}
	sort.Strings(modules)
	return modules
}
