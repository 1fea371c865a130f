// Package sasl implements the server side of SASL negotiation for RPC
// transports.
//
// Given an incoming connection and the authentication method it declared,
// the package selects a SASL mechanism, builds a Negotiator with the
// method-specific service principal and server id, and wires the correct
// credential callback handler into the mechanism session:
//
//   - AuthToken uses a token callback handler that answers name/password
//     queries from a SecretManager and records the attempting user on the
//     connection.
//   - AuthKerberos uses a GSSAPI callback handler that only answers
//     authorization queries, and the session factory call runs under the
//     server's own Kerberos identity.
//   - AuthSimple never negotiates; callers must special-case it before
//     touching this package.
//
// The mechanism state machines themselves are external: implementations
// register a ServerFactory per mechanism name with RegisterProvider, and the
// transport drives the returned Session. This package only decides which
// mechanism runs, with which identity parameters, and how its credential
// callbacks are answered.
package sasl
