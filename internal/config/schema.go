package config

import (
	"fmt"
	"sort"

	"github.com/stratoforge/strato/internal/log"
)

// Kind is the scalar type a schema expects for a key.
type Kind int

const (
	// KindString accepts TOML strings.
	KindString Kind = iota
	// KindBool accepts TOML booleans.
	KindBool
	// KindInt accepts TOML integers.
	KindInt
	// KindFloat accepts TOML floats and integers.
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindFloat:
		return "number"
	}
	return "unknown"
}

// matches reports whether val, as decoded from TOML, satisfies the kind.
func (k Kind) matches(val any) bool {
	switch k {
	case KindString:
		_, ok := val.(string)
		return ok
	case KindBool:
		_, ok := val.(bool)
		return ok
	case KindInt:
		switch val.(type) {
		case int, int64:
			return true
		}
		return false
	case KindFloat:
		switch val.(type) {
		case int, int64, float64:
			return true
		}
		return false
	}
	return false
}

// Schema declares the shape of one provider's configuration section:
// which keys are recognized (and their scalar kinds), which of those are
// required, and whether keys outside the recognized set are permitted.
// Schemas are plain data, defined once at init and never mutated.
type Schema struct {
	Keys       map[string]Kind
	Required   []string
	AllowExtra bool
}

// Validate checks values against the schema for provider and returns a
// ValidationError collecting every violation found. When no schema is
// registered for provider, validation is skipped: that is not an error, but
// it is logged so validated and unvalidated configurations can be told apart.
func Validate(provider string, values Values) error {
	schema, ok := LookupSchema(provider)
	if !ok {
		log.Named("config").Warnw("no schema registered, skipping validation",
			"provider", provider)
		return nil
	}
	return schema.Validate(provider, values)
}

// Validate checks values against the schema. All violations are collected in
// one pass, in deterministic key order, so a caller can fix everything at
// once instead of replaying failures one by one.
func (s *Schema) Validate(provider string, values Values) error {
	var violations []Violation

	for _, key := range sortedKeys(values) {
		kind, recognized := s.Keys[key]
		if !recognized {
			if !s.AllowExtra {
				violations = append(violations, Violation{Key: key, Kind: UnrecognizedKey})
			}
			continue
		}
		val := values[key]
		if val == nil {
			continue
		}
		if !kind.matches(val) {
			violations = append(violations, Violation{
				Key:    key,
				Kind:   KindMismatch,
				Detail: fmt.Sprintf("expected %s, got %T", kind, val),
			})
		}
	}

	for _, key := range s.Required {
		if !values.Has(key) {
			violations = append(violations, Violation{Key: key, Kind: MissingRequiredKey})
		}
	}

	if len(violations) > 0 {
		return &ValidationError{Provider: provider, Violations: violations}
	}
	return nil
}

func sortedKeys(v Values) []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
