// Package secrets provides the reference token identifier and a
// memory-backed SecretManager for development, tooling, and tests.
//
// Production deployments bring their own SecretManager: secret storage and
// key rotation are deliberately outside this repository. What lives here is
// the minimum needed to exercise token negotiation end to end: an
// XDR-serialized identifier carrying the token's ownership metadata, and a
// manager that derives per-identifier secrets from a master key instead of
// storing them.
package secrets
