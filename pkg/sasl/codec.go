package sasl

import "encoding/base64"

// Token identifiers are opaque binary values; on the wire they travel inside
// mechanism exchanges that require text, so they are base64-encoded with the
// standard alphabet. Encode and decode round-trip exactly for every byte
// sequence, including empty input and embedded zero bytes.

// EncodeIdentifier encodes a raw token identifier for wire transmission.
func EncodeIdentifier(identifier []byte) string {
	return base64.StdEncoding.EncodeToString(identifier)
}

// DecodeIdentifier decodes a wire-encoded token identifier back to bytes.
func DecodeIdentifier(identifier string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(identifier)
}

// EncodePassword encodes a secret the way mechanisms expect passwords: the
// base64 text as a mutable byte slice, so the caller can zero it when the
// negotiation round is done.
func EncodePassword(password []byte) []byte {
	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(password)))
	base64.StdEncoding.Encode(encoded, password)
	return encoded
}
