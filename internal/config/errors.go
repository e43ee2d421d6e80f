package config

import (
	"fmt"
	"strings"
)

// SourceNotFoundError is returned when no candidate configuration source
// exists. Attempted lists every location that was tried, in order.
type SourceNotFoundError struct {
	Attempted []string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf(
		"no configuration file found (tried: %s); copy strato.toml.template to ~/.config/strato.toml or /etc/strato.toml",
		strings.Join(e.Attempted, ", "))
}

// SourceParseError is returned when a candidate source was found but is not
// well-formed TOML. It is fatal: the loader never falls through to the next
// candidate, because a found-but-broken file is the more actionable failure.
type SourceParseError struct {
	Location string
	Err      error
}

func (e *SourceParseError) Error() string {
	return fmt.Sprintf("could not parse configuration file %s: %v", e.Location, e.Err)
}

func (e *SourceParseError) Unwrap() error { return e.Err }

// ViolationKind identifies which schema constraint a value violated.
type ViolationKind int

const (
	// UnrecognizedKey means the key is not part of the provider's schema.
	UnrecognizedKey ViolationKind = iota
	// MissingRequiredKey means a required key is absent or nil.
	MissingRequiredKey
	// KindMismatch means the value's type does not match the schema.
	KindMismatch
)

// Violation describes a single schema violation for one key.
type Violation struct {
	Key  string
	Kind ViolationKind
	// Detail carries kind-specific context, e.g. expected/actual types.
	Detail string
}

func (v Violation) String() string {
	switch v.Kind {
	case UnrecognizedKey:
		return fmt.Sprintf("unrecognized key %q", v.Key)
	case MissingRequiredKey:
		return fmt.Sprintf("required key %q is missing", v.Key)
	case KindMismatch:
		return fmt.Sprintf("key %q has wrong type: %s", v.Key, v.Detail)
	}
	return fmt.Sprintf("invalid key %q", v.Key)
}

// ValidationError is returned when a merged configuration fails the schema
// checks for a provider. It collects every violation found in a single pass.
type ValidationError struct {
	Provider   string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.String())
	}
	return fmt.Sprintf("invalid configuration for %s: %s", e.Provider, strings.Join(msgs, "; "))
}

// MissingKeyError is returned when a caller reads a key that is absent from a
// resolved configuration.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s must be set in strato.toml or passed as an override to make this call", e.Key)
}
