package config

import "fmt"

// Values is a flat provider configuration: key to scalar value (string, bool
// or number). It is the shape of both a document section and a resolved
// configuration. Treat a returned Values as read-only.
type Values map[string]any

// Has reports whether key is present with a non-nil value.
func (v Values) Has(key string) bool {
	val, ok := v[key]
	return ok && val != nil
}

// Get returns the value for key, or a MissingKeyError naming the key and how
// to supply it.
func (v Values) Get(key string) (any, error) {
	val, ok := v[key]
	if !ok || val == nil {
		return nil, &MissingKeyError{Key: key}
	}
	return val, nil
}

// GetString returns the value for key as a string. Non-string values are
// rendered with their natural formatting so callers that pass values through
// to SDKs as opaque strings do not need to care about the TOML scalar type.
func (v Values) GetString(key string) (string, error) {
	val, err := v.Get(key)
	if err != nil {
		return "", err
	}
	if s, ok := val.(string); ok {
		return s, nil
	}
	return fmt.Sprintf("%v", val), nil
}

// GetStringDefault returns the value for key as a string, or def when the
// key is absent.
func (v Values) GetStringDefault(key, def string) string {
	s, err := v.GetString(key)
	if err != nil {
		return def
	}
	return s
}

// GetBool returns the value for key as a bool.
func (v Values) GetBool(key string) (bool, error) {
	val, err := v.Get(key)
	if err != nil {
		return false, err
	}
	b, ok := val.(bool)
	if !ok {
		return false, fmt.Errorf("key %q is %T, not a boolean", key, val)
	}
	return b, nil
}

// clone returns a shallow copy. Values hold scalars only, so a shallow copy
// is a full copy.
func (v Values) clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}
