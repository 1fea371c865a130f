package secrets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/saslgate/pkg/auth"
	"github.com/marmos91/saslgate/pkg/sasl"
)

// foreignIdentifier is a TokenIdentifier of a type the manager doesn't mint.
type foreignIdentifier struct{}

func (foreignIdentifier) Deserialize([]byte) error { return nil }
func (foreignIdentifier) User() *auth.Identity     { return nil }

func TestMemoryManagerRetrieveSecret(t *testing.T) {
	manager := NewMemoryManager("master-passphrase", []byte("salt"))

	t.Run("secrets are deterministic per identifier", func(t *testing.T) {
		id := NewStandardIdentifier("alice", "", time.Hour, 1, 1)

		first, err := manager.RetrieveSecret(id)
		require.NoError(t, err)
		require.Len(t, first, 32)

		second, err := manager.RetrieveSecret(id)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("distinct identifiers get distinct secrets", func(t *testing.T) {
		a := NewStandardIdentifier("alice", "", time.Hour, 1, 1)
		b := NewStandardIdentifier("bob", "", time.Hour, 1, 1)

		secretA, err := manager.RetrieveSecret(a)
		require.NoError(t, err)
		secretB, err := manager.RetrieveSecret(b)
		require.NoError(t, err)
		assert.NotEqual(t, secretA, secretB)
	})

	t.Run("distinct master keys get distinct secrets", func(t *testing.T) {
		other := NewMemoryManager("another-passphrase", []byte("salt"))
		id := NewStandardIdentifier("alice", "", time.Hour, 1, 1)

		secret, err := manager.RetrieveSecret(id)
		require.NoError(t, err)
		otherSecret, err := other.RetrieveSecret(id)
		require.NoError(t, err)
		assert.NotEqual(t, secret, otherSecret)
	})

	t.Run("expired token is invalid", func(t *testing.T) {
		id := &StandardIdentifier{
			Owner:     "alice",
			IssueDate: time.Now().Add(-2 * time.Hour).Unix(),
			MaxDate:   time.Now().Add(-time.Hour).Unix(),
		}

		_, err := manager.RetrieveSecret(id)
		var tokenErr *sasl.InvalidTokenError
		require.ErrorAs(t, err, &tokenErr)
		assert.Contains(t, tokenErr.Reason, "expired")
	})

	t.Run("foreign identifier type is invalid", func(t *testing.T) {
		_, err := manager.RetrieveSecret(foreignIdentifier{})
		var tokenErr *sasl.InvalidTokenError
		require.ErrorAs(t, err, &tokenErr)
	})
}

func TestMemoryManagerResolvesWireIdentifiers(t *testing.T) {
	manager := NewMemoryManager("master-passphrase", []byte("salt"))

	minted := NewStandardIdentifier("alice", "renewer-svc", time.Hour, 42, 1)
	raw, err := minted.Serialize()
	require.NoError(t, err)

	resolved, err := sasl.ResolveIdentifier(sasl.EncodeIdentifier(raw), manager)
	require.NoError(t, err)

	id, ok := resolved.(*StandardIdentifier)
	require.True(t, ok)
	assert.Equal(t, *minted, *id)

	// The secret derived from the resolved identifier matches the one the
	// issuer would derive from the minted identifier.
	issued, err := manager.RetrieveSecret(minted)
	require.NoError(t, err)
	presented, err := manager.RetrieveSecret(resolved)
	require.NoError(t, err)
	assert.Equal(t, issued, presented)
}
