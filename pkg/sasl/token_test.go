package sasl

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/saslgate/pkg/auth"
)

// fakeIdentifier is an in-package TokenIdentifier whose serialized form is
// just its owner name.
type fakeIdentifier struct {
	owner string
}

func (f *fakeIdentifier) Deserialize(raw []byte) error {
	if len(raw) == 0 {
		return errors.New("empty identifier")
	}
	f.owner = string(raw)
	return nil
}

func (f *fakeIdentifier) User() *auth.Identity {
	return &auth.Identity{Username: f.owner, Method: AuthToken.String()}
}

// fakeSecrets is a SecretManager returning a fixed secret or error.
type fakeSecrets struct {
	secret []byte
	err    error

	retrieved []TokenIdentifier
}

func (f *fakeSecrets) CreateIdentifier() TokenIdentifier {
	return &fakeIdentifier{}
}

func (f *fakeSecrets) RetrieveSecret(identifier TokenIdentifier) ([]byte, error) {
	f.retrieved = append(f.retrieved, identifier)
	if f.err != nil {
		return nil, f.err
	}
	return f.secret, nil
}

func TestResolveIdentifier(t *testing.T) {
	t.Run("resolves a well-formed identifier", func(t *testing.T) {
		manager := &fakeSecrets{}
		encoded := EncodeIdentifier([]byte("alice"))

		identifier, err := ResolveIdentifier(encoded, manager)
		require.NoError(t, err)
		assert.Equal(t, "alice", identifier.User().Username)
	})

	t.Run("undecodable input is an invalid token", func(t *testing.T) {
		_, err := ResolveIdentifier("%%% not base64 %%%", &fakeSecrets{})
		require.Error(t, err)

		var tokenErr *InvalidTokenError
		require.ErrorAs(t, err, &tokenErr)
		assert.Contains(t, tokenErr.Reason, "decode")
		assert.Error(t, tokenErr.Unwrap())
	})

	t.Run("deserialization failure is an invalid token", func(t *testing.T) {
		_, err := ResolveIdentifier(EncodeIdentifier(nil), &fakeSecrets{})
		require.Error(t, err)

		var tokenErr *InvalidTokenError
		require.ErrorAs(t, err, &tokenErr)
		assert.Contains(t, tokenErr.Reason, "deserialize")
	})
}

func TestResolveSecret(t *testing.T) {
	t.Run("passes the manager's secret through", func(t *testing.T) {
		manager := &fakeSecrets{secret: []byte("s3cret")}
		identifier := &fakeIdentifier{owner: "alice"}

		secret, err := ResolveSecret(identifier, manager)
		require.NoError(t, err)
		assert.Equal(t, []byte("s3cret"), secret)
		require.Len(t, manager.retrieved, 1)
		assert.Same(t, identifier, manager.retrieved[0].(*fakeIdentifier))
	})

	t.Run("passes the manager's error through untouched", func(t *testing.T) {
		managerErr := fmt.Errorf("key rotation in progress")
		manager := &fakeSecrets{err: managerErr}

		_, err := ResolveSecret(&fakeIdentifier{}, manager)
		require.ErrorIs(t, err, managerErr)
	})
}

func TestErrorMessages(t *testing.T) {
	t.Run("access control", func(t *testing.T) {
		err := &AccessControlError{Reason: "no mechanism"}
		assert.Equal(t, "sasl: no mechanism", err.Error())

		cause := errors.New("boom")
		wrapped := &AccessControlError{Reason: "no mechanism", Err: cause}
		assert.Equal(t, "sasl: no mechanism: boom", wrapped.Error())
		assert.ErrorIs(t, wrapped, cause)
	})

	t.Run("invalid token", func(t *testing.T) {
		err := &InvalidTokenError{Reason: "token is expired"}
		assert.Equal(t, "sasl: invalid token: token is expired", err.Error())
	})

	t.Run("unsupported callback", func(t *testing.T) {
		err := &UnsupportedCallbackError{
			Callback: NewRealmCallback("realm", ""),
			Reason:   "nobody answers realms here",
		}
		assert.Contains(t, err.Error(), "unsupported callback realm")

		nilCallback := &UnsupportedCallbackError{Reason: "no callback at all"}
		assert.Contains(t, nilCallback.Error(), "<nil>")
	})
}
