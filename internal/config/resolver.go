package config

import (
	"github.com/stratoforge/strato/internal/log"
)

// Options are the inputs to a resolution call.
type Options struct {
	// Provider selects the document section and schema, e.g. "ec2".
	Provider string
	// Source is an optional explicit document location. When nil, the
	// loader's environment variable and default search paths apply.
	Source *Source
	// Overrides are caller-supplied values that win over the document.
	// A nil value means "no opinion" and never masks a document entry.
	Overrides map[string]any
	// SkipValidation disables the schema check over the merged result.
	// Validation runs by default.
	SkipValidation bool
}

// Resolved is the final configuration handed to a provider client, together
// with whether it actually passed schema validation. A provider without a
// registered schema resolves with Validated=false; observability can then
// distinguish validated from merely unvalidated configurations.
type Resolved struct {
	Provider  string
	Values    Values
	Validated bool
}

// Resolver produces validated provider configurations. A custom Loader can
// be injected for tests; NewResolver wires the default one.
type Resolver struct {
	Loader *Loader
}

// NewResolver returns a Resolver using the default loader.
func NewResolver() *Resolver {
	return &Resolver{Loader: NewLoader()}
}

// Resolve loads the configuration document, merges the caller's overrides
// onto the provider's section, optionally validates the merged result, and
// returns it.
//
// The document is always loaded and merged, even when the caller has already
// supplied every value it needs as an override. Deciding to skip the load
// based on override completeness would silently drop unrelated base settings
// (a default key_name, say) that the caller never meant to discard, so the
// resolver deliberately does not inspect the overrides before loading.
func (r *Resolver) Resolve(opts Options) (*Resolved, error) {
	doc, err := r.Loader.Load(opts.Source)
	if err != nil {
		// No source or a broken one: propagate, never proceed with an
		// empty base configuration.
		return nil, err
	}

	merged := Merge(doc.Section(opts.Provider), opts.Overrides)

	validated := false
	if !opts.SkipValidation {
		if err := Validate(opts.Provider, merged); err != nil {
			return nil, err
		}
		if _, ok := LookupSchema(opts.Provider); ok {
			validated = true
			log.Named("config").Debugw("configuration passed validation",
				"provider", opts.Provider)
		}
	}

	return &Resolved{
		Provider:  opts.Provider,
		Values:    merged,
		Validated: validated,
	}, nil
}

// Resolve is the package-level convenience entry point using the default
// loader and search paths.
func Resolve(opts Options) (*Resolved, error) {
	return NewResolver().Resolve(opts)
}
