package sasl

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/saslgate/pkg/config"
)

// fakeIdentity is a ServerIdentity with a fixed principal that records
// whether Do was used.
type fakeIdentity struct {
	principal string
	elevated  bool
}

func (f *fakeIdentity) PrincipalName() string { return f.principal }

func (f *fakeIdentity) Do(fn func() error) error {
	f.elevated = true
	return fn()
}

// fakeSession is an inert mechanism session.
type fakeSession struct {
	closed bool
}

func (s *fakeSession) Evaluate(response []byte) ([]byte, error) { return nil, nil }
func (s *fakeSession) IsComplete() bool                         { return true }
func (s *fakeSession) AuthorizationID() string                  { return "" }
func (s *fakeSession) Close() error                             { s.closed = true; return nil }

// fakeFactory records the parameters of the last CreateSession call.
type fakeFactory struct {
	session Session
	err     error

	mechanism        string
	servicePrincipal string
	serverID         string
	props            map[string]string
	handler          CallbackHandler
	calls            int
}

func (f *fakeFactory) CreateSession(ctx context.Context, mechanism, servicePrincipal, serverID string,
	props map[string]string, handler CallbackHandler) (Session, error) {
	f.calls++
	f.mechanism = mechanism
	f.servicePrincipal = servicePrincipal
	f.serverID = serverID
	f.props = props
	f.handler = handler
	return f.session, f.err
}

func TestParsePrincipal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		primary  string
		instance string
		realm    string
	}{
		{"full principal", "nfs/server.example.com@EXAMPLE.COM", "nfs", "server.example.com", "EXAMPLE.COM"},
		{"no instance", "nn@EXAMPLE.COM", "nn", "", "EXAMPLE.COM"},
		{"no realm", "nfs/server.example.com", "nfs", "server.example.com", ""},
		{"bare primary", "alice", "alice", "", ""},
		{"empty", "", "", "", ""},
		{"slash in realm stays in realm", "host/a@REALM/with/slash", "host", "a", "REALM/with/slash"},
		{"splitting stops at first at-sign", "svc/host@A@B", "svc", "host", "A@B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary, instance, realm := ParsePrincipal(tt.input)
			assert.Equal(t, tt.primary, primary)
			assert.Equal(t, tt.instance, instance)
			assert.Equal(t, tt.realm, realm)
		})
	}
}

func TestNewNegotiator(t *testing.T) {
	t.Run("simple has no mechanism", func(t *testing.T) {
		n, err := NewNegotiator(AuthSimple, nil)
		require.NoError(t, err)
		assert.Equal(t, AuthSimple, n.Method())
		assert.Equal(t, "", n.Mechanism())
		assert.Equal(t, StateMethodBound, n.CurrentState())
	})

	t.Run("token uses the fixed realm as server id", func(t *testing.T) {
		for _, method := range []AuthMethod{AuthToken, AuthDigest} {
			n, err := NewNegotiator(method, nil)
			require.NoError(t, err)
			assert.Equal(t, DefaultTokenMechanism, n.Mechanism())
			assert.Equal(t, "", n.ServicePrincipal())
			assert.Equal(t, DefaultRealm, n.ServerID())
		}
	})

	t.Run("kerberos splits the server principal", func(t *testing.T) {
		identity := &fakeIdentity{principal: "nfs/server.example.com@EXAMPLE.COM"}
		n, err := NewNegotiator(AuthKerberos, identity)
		require.NoError(t, err)
		assert.Equal(t, "GSSAPI", n.Mechanism())
		assert.Equal(t, "nfs", n.ServicePrincipal())
		assert.Equal(t, "server.example.com", n.ServerID())
	})

	t.Run("kerberos without an identity is rejected", func(t *testing.T) {
		_, err := NewNegotiator(AuthKerberos, nil)
		var accessErr *AccessControlError
		require.ErrorAs(t, err, &accessErr)
	})

	t.Run("unknown method is rejected", func(t *testing.T) {
		_, err := NewNegotiator(AuthMethod(42), nil)
		var accessErr *AccessControlError
		require.ErrorAs(t, err, &accessErr)
		assert.Contains(t, err.Error(), "does not support")
	})
}

func TestRequestSessionToken(t *testing.T) {
	conn := NewConnState(&config.Config{}, "192.0.2.1:1021")
	secrets := &fakeSecrets{secret: []byte("secret")}

	t.Run("creates the session with token parameters", func(t *testing.T) {
		factory := &fakeFactory{session: &fakeSession{}}
		n, err := NewNegotiator(AuthToken, nil, WithFactory(factory))
		require.NoError(t, err)

		session, err := n.RequestSession(context.Background(), conn, SecurityProps(QOPAuthentication), secrets)
		require.NoError(t, err)
		require.NotNil(t, session)
		assert.Equal(t, StateSessionCreated, n.CurrentState())

		assert.Equal(t, DefaultTokenMechanism, factory.mechanism)
		assert.Equal(t, "", factory.servicePrincipal)
		assert.Equal(t, DefaultRealm, factory.serverID)
		assert.Equal(t, "auth", factory.props[PropQOP])
		assert.IsType(t, &TokenCallbackHandler{}, factory.handler)
	})

	t.Run("negotiator is spent after success", func(t *testing.T) {
		factory := &fakeFactory{session: &fakeSession{}}
		n, err := NewNegotiator(AuthToken, nil, WithFactory(factory))
		require.NoError(t, err)

		_, err = n.RequestSession(context.Background(), conn, nil, secrets)
		require.NoError(t, err)

		_, err = n.RequestSession(context.Background(), conn, nil, secrets)
		var accessErr *AccessControlError
		require.ErrorAs(t, err, &accessErr)
		assert.Equal(t, 1, factory.calls)
	})

	t.Run("missing mechanism implementation", func(t *testing.T) {
		factory := &fakeFactory{} // returns (nil, nil)
		n, err := NewNegotiator(AuthToken, nil, WithFactory(factory))
		require.NoError(t, err)

		_, err = n.RequestSession(context.Background(), conn, nil, secrets)
		var accessErr *AccessControlError
		require.ErrorAs(t, err, &accessErr)
		assert.Contains(t, err.Error(), "unable to find SASL server implementation for "+DefaultTokenMechanism)
		assert.Equal(t, StateRejected, n.CurrentState())
	})

	t.Run("factory error is wrapped and terminal", func(t *testing.T) {
		factoryErr := errors.New("mechanism exploded")
		factory := &fakeFactory{err: factoryErr}
		n, err := NewNegotiator(AuthToken, nil, WithFactory(factory))
		require.NoError(t, err)

		_, err = n.RequestSession(context.Background(), conn, nil, secrets)
		require.ErrorIs(t, err, factoryErr)
		assert.Equal(t, StateRejected, n.CurrentState())
	})
}

func TestRequestSessionKerberos(t *testing.T) {
	conn := NewConnState(&config.Config{}, "192.0.2.1:1021")

	t.Run("factory call runs under the server identity", func(t *testing.T) {
		identity := &fakeIdentity{principal: "nfs/server.example.com@EXAMPLE.COM"}
		factory := &fakeFactory{session: &fakeSession{}}
		n, err := NewNegotiator(AuthKerberos, identity, WithFactory(factory))
		require.NoError(t, err)

		session, err := n.RequestSession(context.Background(), conn, nil, nil)
		require.NoError(t, err)
		require.NotNil(t, session)

		assert.True(t, identity.elevated, "CreateSession must run inside identity.Do")
		assert.Equal(t, "GSSAPI", factory.mechanism)
		assert.Equal(t, "nfs", factory.servicePrincipal)
		assert.Equal(t, "server.example.com", factory.serverID)
		assert.IsType(t, &GssCallbackHandler{}, factory.handler)
	})

	t.Run("principal without instance part is rejected", func(t *testing.T) {
		identity := &fakeIdentity{principal: "nn@EXAMPLE.COM"}
		factory := &fakeFactory{session: &fakeSession{}}
		n, err := NewNegotiator(AuthKerberos, identity, WithFactory(factory))
		require.NoError(t, err)

		_, err = n.RequestSession(context.Background(), conn, nil, nil)
		var accessErr *AccessControlError
		require.ErrorAs(t, err, &accessErr)
		assert.Contains(t, err.Error(), "does not have the expected instance part")
		assert.Equal(t, StateRejected, n.CurrentState())
		assert.Zero(t, factory.calls)
	})
}

func TestRequestSessionSimple(t *testing.T) {
	conn := NewConnState(&config.Config{}, "192.0.2.1:1021")

	n, err := NewNegotiator(AuthSimple, nil)
	require.NoError(t, err)

	_, err = n.RequestSession(context.Background(), conn, nil, nil)
	var accessErr *AccessControlError
	require.ErrorAs(t, err, &accessErr)
	assert.Contains(t, err.Error(), "SIMPLE")
	assert.Equal(t, StateRejected, n.CurrentState())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "method_bound", StateMethodBound.String())
	assert.Equal(t, "session_created", StateSessionCreated.String())
	assert.Equal(t, "rejected", StateRejected.String())
	assert.Equal(t, "State(9)", State(9).String())
}
