package secrets

import (
	"bytes"
	"fmt"
	"time"

	xdr "github.com/rasky/go-xdr/xdr2"

	"github.com/marmos91/saslgate/pkg/auth"
	"github.com/marmos91/saslgate/pkg/sasl"
)

// StandardIdentifier is the reference token identifier. It is serialized
// with XDR, so the wire form is stable across platforms and languages.
type StandardIdentifier struct {
	// Owner is the user this token authenticates.
	Owner string

	// Renewer is the identity allowed to renew the token. May be empty.
	Renewer string

	// IssueDate is the issue time in Unix seconds.
	IssueDate int64

	// MaxDate is the expiry time in Unix seconds; zero means no expiry.
	MaxDate int64

	// Sequence disambiguates tokens issued to the same owner.
	Sequence uint32

	// KeyID names the master key generation the secret derives from.
	KeyID uint32
}

// NewStandardIdentifier mints an identifier for owner, valid for the given
// lifetime from now.
func NewStandardIdentifier(owner, renewer string, lifetime time.Duration, sequence, keyID uint32) *StandardIdentifier {
	now := time.Now()
	id := &StandardIdentifier{
		Owner:     owner,
		Renewer:   renewer,
		IssueDate: now.Unix(),
		Sequence:  sequence,
		KeyID:     keyID,
	}
	if lifetime > 0 {
		id.MaxDate = now.Add(lifetime).Unix()
	}
	return id
}

// Serialize encodes the identifier to its XDR wire form.
func (id *StandardIdentifier) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := xdr.Marshal(&buf, id); err != nil {
		return nil, fmt.Errorf("marshal token identifier: %w", err)
	}
	return buf.Bytes(), nil
}

// Deserialize populates the identifier from its XDR wire form. Truncated or
// malformed buffers return an error.
func (id *StandardIdentifier) Deserialize(raw []byte) error {
	if _, err := xdr.Unmarshal(bytes.NewReader(raw), id); err != nil {
		return fmt.Errorf("unmarshal token identifier: %w", err)
	}
	return nil
}

// User returns the identity this token authenticates.
func (id *StandardIdentifier) User() *auth.Identity {
	return &auth.Identity{
		Username: id.Owner,
		Method:   sasl.AuthToken.String(),
	}
}

// Expired reports whether the token's validity window has passed at now.
func (id *StandardIdentifier) Expired(now time.Time) bool {
	return id.MaxDate != 0 && now.Unix() > id.MaxDate
}

func (id *StandardIdentifier) String() string {
	return fmt.Sprintf("token for %s (seq %d, key %d)", id.Owner, id.Sequence, id.KeyID)
}

// Compile-time check that StandardIdentifier implements sasl.TokenIdentifier.
var _ sasl.TokenIdentifier = (*StandardIdentifier)(nil)
