// Package ec2 implements the instance lifecycle on AWS EC2.
//
// Credentials come from the resolved configuration: either a static
// access_key_id/secret_access_key pair, a named shared-config profile, or the
// SDK's default chain when neither is set. All values reach this package as
// opaque strings; their semantics belong to the SDK.
package ec2
