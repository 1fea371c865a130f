// Package kerberos manages the server's own Kerberos identity: the service
// keytab, krb5.conf, and service principal name.
//
// The Identity type is the capability object the SASL negotiator uses for
// Kerberos negotiations. Reading the principal name yields the
// primary/instance parameters for GSSAPI session creation, and Do runs the
// session factory call with the server's credentials pinned. Keytabs can be
// hot-reloaded at runtime without disrupting active negotiations.
//
// Kerberos ticket validation itself (AP-REQ verification and the rest of
// the GSSAPI exchange) belongs to the mechanism provider, not this package.
package kerberos
