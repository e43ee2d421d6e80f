// Package hcloud implements the instance lifecycle on Hetzner Cloud.
//
// The client resolves its configuration (token, default location and server
// type, SSH key settings) through the config engine at construction, uploads
// the configured public key on first launch, and labels every resource with
// the client tag so Clean can find and remove leftovers.
package hcloud
