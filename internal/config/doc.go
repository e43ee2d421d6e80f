// Package config implements the layered configuration engine used by every
// provider client.
//
// Configuration for a provider is assembled from two layers: a TOML document
// found on disk (or supplied directly by the caller) and a set of overrides
// passed at client construction time. The document is always loaded and acts
// as the base; non-nil overrides win key by key. The merged result is checked
// against the provider's declarative schema before it is handed to a client,
// so a misconfigured provider fails at construction rather than on the first
// API call.
//
// The entry point is [Resolve] (or [Resolver.Resolve] with a custom
// [Loader] for tests). Schemas live in a static registry keyed by provider
// name; see [LookupSchema].
package config
