// Package cloud defines the uniform instance lifecycle every provider client
// implements and the shared construction path behind them.
//
// A provider client embeds [Base], which resolves its configuration (document
// plus overrides, schema-checked) before any network call is possible, builds
// the SSH key pair from the resolved values, and tracks launched instances
// and created images so [Base.Clean] can tear everything down at the end of a
// test run.
package cloud
