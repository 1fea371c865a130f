package sasl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/saslgate/pkg/config"
)

// fakeCallback is a callback kind the built-in handlers don't know.
type fakeCallback struct{}

func (fakeCallback) CallbackName() string { return "fake" }

// recordingExtension captures what the token handler forwards.
type recordingExtension struct {
	callbacks []Callback
	name      string
	secret    []byte
	err       error
}

func (r *recordingExtension) HandleUnknown(callbacks []Callback, name string, secret []byte) error {
	r.callbacks = callbacks
	r.name = name
	r.secret = secret
	return r.err
}

func newTokenConn() *ConnState {
	return NewConnState(&config.Config{}, "192.0.2.7:819")
}

func TestTokenCallbackHandlerRound(t *testing.T) {
	secrets := &fakeSecrets{secret: []byte("derived-secret")}
	conn := newTokenConn()
	handler := NewTokenCallbackHandler(secrets, conn, nil)

	encoded := EncodeIdentifier([]byte("alice"))
	nc := NewNameCallback("username", encoded)
	pc := NewPasswordCallback("password")
	rc := NewRealmCallback("realm", "default")
	ac := NewAuthorizeCallback(encoded, encoded)

	require.NoError(t, handler.Handle([]Callback{rc, nc, pc, ac}))

	t.Run("password is the encoded secret", func(t *testing.T) {
		assert.Equal(t, EncodePassword([]byte("derived-secret")), pc.Password())
	})

	t.Run("attempting user is recorded on the connection", func(t *testing.T) {
		user := conn.AttemptingUser()
		require.NotNil(t, user)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "TOKEN", user.Method)
	})

	t.Run("matching identities are authorized", func(t *testing.T) {
		assert.True(t, ac.Authorized())
		assert.Equal(t, encoded, ac.AuthorizedID())
	})

	t.Run("realm stays unanswered", func(t *testing.T) {
		assert.Equal(t, "default", rc.Text())
	})
}

func TestTokenCallbackHandlerAuthorization(t *testing.T) {
	t.Run("mismatched identities are denied", func(t *testing.T) {
		handler := NewTokenCallbackHandler(&fakeSecrets{}, newTokenConn(), nil)
		ac := NewAuthorizeCallback("alice", "bob")

		require.NoError(t, handler.Handle([]Callback{ac}))
		assert.False(t, ac.Authorized())
		assert.Equal(t, "", ac.AuthorizedID())
	})

	t.Run("authorize alone needs no token resolution", func(t *testing.T) {
		secrets := &fakeSecrets{}
		handler := NewTokenCallbackHandler(secrets, newTokenConn(), nil)
		ac := NewAuthorizeCallback("alice", "alice")

		require.NoError(t, handler.Handle([]Callback{ac}))
		assert.True(t, ac.Authorized())
		assert.Empty(t, secrets.retrieved)
	})
}

func TestTokenCallbackHandlerErrors(t *testing.T) {
	t.Run("password without name", func(t *testing.T) {
		handler := NewTokenCallbackHandler(&fakeSecrets{}, newTokenConn(), nil)
		pc := NewPasswordCallback("password")

		err := handler.Handle([]Callback{pc})
		var callbackErr *UnsupportedCallbackError
		require.ErrorAs(t, err, &callbackErr)
		assert.Same(t, pc, callbackErr.Callback)
	})

	t.Run("garbage identifier", func(t *testing.T) {
		handler := NewTokenCallbackHandler(&fakeSecrets{}, newTokenConn(), nil)
		nc := NewNameCallback("username", "%%% not a token %%%")
		pc := NewPasswordCallback("password")

		err := handler.Handle([]Callback{nc, pc})
		var tokenErr *InvalidTokenError
		require.ErrorAs(t, err, &tokenErr)
		assert.Nil(t, pc.Password())
	})

	t.Run("secret manager failure propagates", func(t *testing.T) {
		managerErr := &InvalidTokenError{Reason: "token is expired"}
		handler := NewTokenCallbackHandler(&fakeSecrets{err: managerErr}, newTokenConn(), nil)
		nc := NewNameCallback("username", EncodeIdentifier([]byte("alice")))
		pc := NewPasswordCallback("password")

		err := handler.Handle([]Callback{nc, pc})
		require.ErrorIs(t, err, managerErr)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		handler := NewTokenCallbackHandler(&fakeSecrets{}, newTokenConn(), nil)
		require.NoError(t, handler.Handle(nil))
	})
}

func TestTokenCallbackHandlerExtension(t *testing.T) {
	t.Run("unknown callbacks are rejected by default", func(t *testing.T) {
		handler := NewTokenCallbackHandler(&fakeSecrets{}, newTokenConn(), nil)

		err := handler.Handle([]Callback{fakeCallback{}})
		var callbackErr *UnsupportedCallbackError
		require.ErrorAs(t, err, &callbackErr)
	})

	t.Run("configured extension receives the round's credentials", func(t *testing.T) {
		extension := &recordingExtension{}
		RegisterCallbackHandler("recording", extension)

		cfg := &config.Config{}
		cfg.Callback.Handler = "recording"
		conn := NewConnState(cfg, "192.0.2.7:819")

		secrets := &fakeSecrets{secret: []byte("derived-secret")}
		handler := NewTokenCallbackHandler(secrets, conn, nil)

		nc := NewNameCallback("username", EncodeIdentifier([]byte("alice")))
		unknown := fakeCallback{}
		require.NoError(t, handler.Handle([]Callback{nc, unknown}))

		require.Len(t, extension.callbacks, 1)
		assert.Equal(t, unknown, extension.callbacks[0])
		assert.Equal(t, EncodeIdentifier([]byte("alice")), extension.name)
		assert.Equal(t, EncodePassword([]byte("derived-secret")), extension.secret)
	})

	t.Run("round without a name forwards empty credentials", func(t *testing.T) {
		extension := &recordingExtension{}
		RegisterCallbackHandler("recording-empty", extension)

		cfg := &config.Config{}
		cfg.Callback.Handler = "recording-empty"
		handler := NewTokenCallbackHandler(&fakeSecrets{}, NewConnState(cfg, "192.0.2.7:819"), nil)

		require.NoError(t, handler.Handle([]Callback{fakeCallback{}}))
		assert.Equal(t, "", extension.name)
		assert.Nil(t, extension.secret)
	})
}
