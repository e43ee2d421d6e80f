package config

// Base keys recognized for every provider: the SSH key material used to reach
// launched instances. Composed into each provider schema rather than
// duplicated per provider.
var baseKeys = map[string]Kind{
	"public_key_path":  KindString,
	"private_key_path": KindString,
	"key_name":         KindString,
}

// providerSchema builds a strict schema from provider-specific keys plus the
// common base keys. Unrecognized keys are rejected: a typo in strato.toml
// should fail validation, not be silently ignored.
func providerSchema(keys map[string]Kind, required ...string) *Schema {
	merged := make(map[string]Kind, len(baseKeys)+len(keys))
	for k, kind := range baseKeys {
		merged[k] = kind
	}
	for k, kind := range keys {
		merged[k] = kind
	}
	return &Schema{Keys: merged, Required: required}
}

// schemas is the static registry of per-provider configuration schemas,
// keyed by provider name. Defined once here, read-only afterwards; safe for
// concurrent lookups without locking.
var schemas = map[string]*Schema{
	"ec2": providerSchema(map[string]Kind{
		"region":            KindString,
		"access_key_id":     KindString,
		"secret_access_key": KindString,
		"profile":           KindString,
	}),

	"azure": providerSchema(map[string]Kind{
		"client_id":       KindString,
		"client_secret":   KindString,
		"subscription_id": KindString,
		"tenant_id":       KindString,
		"region":          KindString,
	}, "client_id", "client_secret", "subscription_id", "tenant_id"),

	"gce": providerSchema(map[string]Kind{
		"credentials_path":      KindString,
		"project":               KindString,
		"region":                KindString,
		"zone":                  KindString,
		"service_account_email": KindString,
	}, "credentials_path", "project"),

	"hcloud": providerSchema(map[string]Kind{
		"token":       KindString,
		"location":    KindString,
		"server_type": KindString,
	}, "token"),

	"ibm": providerSchema(map[string]Kind{
		"resource_group":        KindString,
		"vpc":                   KindString,
		"api_key":               KindString,
		"region":                KindString,
		"zone":                  KindString,
		"floating_ip_substring": KindString,
	}),

	"ibm_classic": providerSchema(map[string]Kind{
		"username":    KindString,
		"api_key":     KindString,
		"domain_name": KindString,
	}, "username", "api_key", "domain_name"),

	"lxd": providerSchema(nil),

	"oci": providerSchema(map[string]Kind{
		"config_path":         KindString,
		"availability_domain": KindString,
		"compartment_id":      KindString,
		"region":              KindString,
		"profile":             KindString,
		"vcn_name":            KindString,
	}, "config_path", "availability_domain", "compartment_id"),

	"openstack": providerSchema(map[string]Kind{
		"network": KindString,
	}, "network"),

	"qemu": providerSchema(map[string]Kind{
		"image_dir":   KindString,
		"working_dir": KindString,
		"qemu_binary": KindString,
	}, "image_dir"),

	"vmware": providerSchema(map[string]Kind{
		"server":             KindString,
		"username":           KindString,
		"password":           KindString,
		"datacenter":         KindString,
		"datastore":          KindString,
		"folder":             KindString,
		"insecure_transport": KindBool,
	}, "server", "username", "password", "datacenter", "datastore", "folder"),
}

// LookupSchema returns the registered schema for provider, if any.
func LookupSchema(provider string) (*Schema, bool) {
	s, ok := schemas[provider]
	return s, ok
}

// Providers returns the names of all providers with a registered schema.
func Providers() []string {
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	return names
}
