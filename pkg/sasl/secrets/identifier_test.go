package secrets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardIdentifierRoundTrip(t *testing.T) {
	original := NewStandardIdentifier("alice", "renewer-svc", time.Hour, 7, 3)

	raw, err := original.Serialize()
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	var decoded StandardIdentifier
	require.NoError(t, decoded.Deserialize(raw))
	assert.Equal(t, *original, decoded)
}

func TestStandardIdentifierDeserializeErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{"empty", nil},
		{"truncated", []byte{0x00, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id StandardIdentifier
			require.Error(t, id.Deserialize(tt.raw))
		})
	}
}

func TestNewStandardIdentifier(t *testing.T) {
	t.Run("lifetime sets the expiry window", func(t *testing.T) {
		id := NewStandardIdentifier("alice", "", time.Hour, 0, 0)
		assert.InDelta(t, time.Now().Unix(), id.IssueDate, 2)
		assert.InDelta(t, time.Now().Add(time.Hour).Unix(), id.MaxDate, 2)
	})

	t.Run("zero lifetime never expires", func(t *testing.T) {
		id := NewStandardIdentifier("alice", "", 0, 0, 0)
		assert.Zero(t, id.MaxDate)
		assert.False(t, id.Expired(time.Now().Add(100*365*24*time.Hour)))
	})
}

func TestStandardIdentifierExpired(t *testing.T) {
	now := time.Now()
	id := &StandardIdentifier{Owner: "alice", MaxDate: now.Unix()}

	assert.False(t, id.Expired(now))
	assert.True(t, id.Expired(now.Add(2*time.Second)))
}

func TestStandardIdentifierUser(t *testing.T) {
	id := NewStandardIdentifier("alice", "", time.Hour, 0, 0)
	user := id.User()
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "TOKEN", user.Method)
}
