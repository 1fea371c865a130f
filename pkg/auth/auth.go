// Package auth provides the protocol-neutral identity type shared by the
// SASL negotiation core and its hosts.
//
// Credential callback handlers resolve a token or Kerberos principal into an
// Identity and record it on the connection; transports and audit layers
// consume it without caring which mechanism produced it.
package auth

import "errors"

// Identity represents an authenticated (or authenticating) identity in a
// mechanism-neutral form.
type Identity struct {
	// Username is the short user name (e.g. the token owner).
	Username string

	// Principal is the Kerberos principal name (e.g. "alice@EXAMPLE.COM").
	// Empty for non-Kerberos authentication.
	Principal string

	// Method is the authentication method name that produced this identity
	// ("TOKEN", "KERBEROS", ...).
	Method string

	// Attributes holds extensible mechanism-specific metadata.
	Attributes map[string]string
}

// String returns the most specific name available for logging.
func (id *Identity) String() string {
	if id == nil {
		return "<nil>"
	}
	if id.Principal != "" {
		return id.Principal
	}
	return id.Username
}

// Standard authentication errors.
var (
	// ErrAuthFailed indicates that authentication was attempted but failed.
	ErrAuthFailed = errors.New("auth: authentication failed")

	// ErrNotAuthenticated indicates an operation that requires an
	// authenticated identity was attempted without one.
	ErrNotAuthenticated = errors.New("auth: not authenticated")
)
