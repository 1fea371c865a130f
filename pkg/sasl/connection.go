package sasl

import (
	"sync"

	"github.com/google/uuid"
	"github.com/marmos91/saslgate/pkg/auth"
	"github.com/marmos91/saslgate/pkg/config"
)

// Connection is the transport-level session this package negotiates for.
// The core only ever reads its configuration and writes a single field: the
// user currently attempting authentication, recorded before authentication
// is confirmed so that audit and authorization layers can see who is trying.
type Connection interface {
	// Config returns the server configuration visible to this connection.
	Config() *config.Config

	// SetAttemptingUser records the identity currently trying to
	// authenticate on this connection.
	SetAttemptingUser(user *auth.Identity)
}

// ConnState is the standard Connection implementation handed to negotiators
// by transports. One ConnState serves exactly one connection and one
// negotiation at a time; the attempting-user field is still guarded so audit
// readers on other goroutines see a consistent value.
type ConnState struct {
	id         string
	remoteAddr string
	cfg        *config.Config

	mu             sync.Mutex
	attemptingUser *auth.Identity
}

// NewConnState creates connection state for a transport connection.
func NewConnState(cfg *config.Config, remoteAddr string) *ConnState {
	return &ConnState{
		id:         uuid.NewString(),
		remoteAddr: remoteAddr,
		cfg:        cfg,
	}
}

// ID returns the connection's unique identifier, used in logs.
func (c *ConnState) ID() string { return c.id }

// RemoteAddr returns the peer address.
func (c *ConnState) RemoteAddr() string { return c.remoteAddr }

// Config returns the server configuration for this connection.
func (c *ConnState) Config() *config.Config { return c.cfg }

// SetAttemptingUser records the identity currently attempting to
// authenticate.
func (c *ConnState) SetAttemptingUser(user *auth.Identity) {
	c.mu.Lock()
	c.attemptingUser = user
	c.mu.Unlock()
}

// AttemptingUser returns the identity last recorded by SetAttemptingUser,
// or nil if no authentication attempt reached credential resolution yet.
func (c *ConnState) AttemptingUser() *auth.Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attemptingUser
}

// Compile-time check that ConnState implements Connection.
var _ Connection = (*ConnState)(nil)
