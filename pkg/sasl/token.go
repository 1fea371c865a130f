package sasl

import (
	"github.com/marmos91/saslgate/pkg/auth"
)

// TokenIdentifier is the structured identity carried inside a shared-secret
// token. Concrete types are supplied by the SecretManager; this core only
// deserializes them and reads the associated user.
type TokenIdentifier interface {
	// Deserialize populates the identifier from its serialized form.
	// Truncated or malformed input must return an error.
	Deserialize(raw []byte) error

	// User returns the identity this token authenticates.
	User() *auth.Identity
}

// SecretManager owns the long-lived secret material behind token
// authentication. It is injected per negotiation but shared process-wide, so
// implementations must be safe for concurrent use.
//
// RetrieveSecret may retry internally (for example across a key-rotation
// boundary); this package never retries on its own and surfaces whatever the
// manager returns.
type SecretManager interface {
	// CreateIdentifier returns a blank identifier of the manager's concrete
	// type, ready for Deserialize.
	CreateIdentifier() TokenIdentifier

	// RetrieveSecret returns the secret bytes for a resolved identifier.
	RetrieveSecret(identifier TokenIdentifier) ([]byte, error)
}

// ResolveIdentifier turns a wire-encoded identifier into a structured
// TokenIdentifier using the secret manager's factory. Any decoding or
// deserialization failure is reported as *InvalidTokenError with the cause
// preserved; no other error type escapes.
func ResolveIdentifier(encoded string, secrets SecretManager) (TokenIdentifier, error) {
	raw, err := DecodeIdentifier(encoded)
	if err != nil {
		return nil, &InvalidTokenError{Reason: "can't decode token identifier", Err: err}
	}
	identifier := secrets.CreateIdentifier()
	if err := identifier.Deserialize(raw); err != nil {
		return nil, &InvalidTokenError{Reason: "can't deserialize token identifier", Err: err}
	}
	return identifier, nil
}

// ResolveSecret fetches the secret for a resolved identifier. The secret
// manager's result and errors pass through untouched.
func ResolveSecret(identifier TokenIdentifier, secrets SecretManager) ([]byte, error) {
	return secrets.RetrieveSecret(identifier)
}
