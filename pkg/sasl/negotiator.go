package sasl

import (
	"context"
	"fmt"
	"strings"

	"github.com/marmos91/saslgate/internal/logger"
	"github.com/marmos91/saslgate/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// DefaultRealm is the fixed server id used for token authentication, where
// no real realm exists.
const DefaultRealm = "default"

// ServerIdentity is the capability object representing the server's own
// authenticated identity. For Kerberos it is backed by the service keytab;
// the mechanism session factory call runs inside Do so that it executes with
// the server's credentials attached, not the caller's.
type ServerIdentity interface {
	// PrincipalName returns the server's fully qualified principal name
	// (e.g. "nfs/server.example.com@EXAMPLE.COM").
	PrincipalName() string

	// Do runs fn under this identity.
	Do(fn func() error) error
}

// State is the lifecycle state of one negotiation attempt.
type State int

const (
	// StateMethodBound means the negotiator is constructed for a method and
	// no session has been requested yet.
	StateMethodBound State = iota

	// StateSessionCreated means the mechanism session was created and is now
	// owned by the transport.
	StateSessionCreated

	// StateRejected is terminal: the session request failed and the caller
	// must close the connection.
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateMethodBound:
		return "method_bound"
	case StateSessionCreated:
		return "session_created"
	case StateRejected:
		return "rejected"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Negotiator builds a mechanism session for one connection's declared
// authentication method. It is created per connection, used by whatever
// goroutine drives that connection's negotiation, and discarded afterwards;
// it introduces no concurrency of its own.
type Negotiator struct {
	method           AuthMethod
	mechanism        string
	servicePrincipal string
	serverID         string

	identity ServerIdentity
	factory  ServerFactory
	metrics  *Metrics
	state    State
}

// Option configures a Negotiator.
type Option func(*Negotiator)

// WithMetrics attaches negotiation metrics. A nil value disables recording.
func WithMetrics(m *Metrics) Option {
	return func(n *Negotiator) { n.metrics = m }
}

// WithFactory overrides the process-wide mechanism session factory.
// Primarily for tests; production negotiators use the provider registry.
func WithFactory(f ServerFactory) Option {
	return func(n *Negotiator) { n.factory = f }
}

// NewNegotiator binds a negotiator to an authentication method and computes
// the method-specific negotiation parameters.
//
// For AuthSimple the negotiator is a terminal no-op: no mechanism exists and
// RequestSession always fails. For AuthToken the service principal is empty
// and the server id is the fixed DefaultRealm. For AuthKerberos the server's
// own principal is read from identity and split into primary/instance@realm;
// the primary becomes the service principal and the instance the server id.
//
// Any method outside the closed set fails with an AccessControlError; the
// enumeration should make that unreachable.
func NewNegotiator(method AuthMethod, identity ServerIdentity, opts ...Option) (*Negotiator, error) {
	n := &Negotiator{
		method:    method,
		mechanism: method.MechanismName(),
		identity:  identity,
		factory:   registryFactory{},
		state:     StateMethodBound,
	}
	for _, opt := range opts {
		opt(n)
	}

	switch method {
	case AuthSimple:
		return n, nil // no mechanism for SIMPLE

	case AuthToken, AuthDigest:
		n.servicePrincipal = ""
		n.serverID = DefaultRealm

	case AuthKerberos:
		if identity == nil {
			return nil, &AccessControlError{Reason: "unable to acquire the server's Kerberos identity"}
		}
		fullName := identity.PrincipalName()
		logger.Debug("Kerberos principal name for negotiation", "principal", fullName)
		primary, instance, _ := ParsePrincipal(fullName)
		n.servicePrincipal = primary
		// The instance check happens in RequestSession so that construction
		// for diagnostics (logging the derived parameters) still works.
		n.serverID = instance

	default:
		return nil, &AccessControlError{
			Reason: fmt.Sprintf("server does not support SASL authentication method %s", method),
		}
	}

	return n, nil
}

// Method returns the bound authentication method.
func (n *Negotiator) Method() AuthMethod { return n.method }

// Mechanism returns the resolved SASL mechanism name.
func (n *Negotiator) Mechanism() string { return n.mechanism }

// ServicePrincipal returns the derived service principal parameter.
func (n *Negotiator) ServicePrincipal() string { return n.servicePrincipal }

// ServerID returns the derived server id parameter.
func (n *Negotiator) ServerID() string { return n.serverID }

// CurrentState returns the negotiation lifecycle state.
func (n *Negotiator) CurrentState() State { return n.state }

// RequestSession creates the mechanism session for this negotiation,
// parameterized with the credential callback handler appropriate to the
// bound method. On success the session is owned by the caller and the
// negotiator is spent. On any failure the negotiator enters the terminal
// Rejected state and the caller must close the connection.
func (n *Negotiator) RequestSession(ctx context.Context, conn Connection,
	props map[string]string, secrets SecretManager) (Session, error) {

	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanNegotiate)
	defer span.End()
	span.SetAttributes(
		attribute.String(telemetry.AttrAuthMethod, n.method.String()),
		attribute.String(telemetry.AttrMechanism, n.mechanism),
	)

	session, err := n.requestSession(ctx, conn, props, secrets)
	if err != nil {
		telemetry.RecordError(ctx, err)
		n.metrics.RecordAuthFailure(err)
	}
	n.metrics.RecordSessionCreation(n.method, err == nil)
	return session, err
}

func (n *Negotiator) requestSession(ctx context.Context, conn Connection,
	props map[string]string, secrets SecretManager) (Session, error) {

	if n.state != StateMethodBound {
		return nil, &AccessControlError{
			Reason: fmt.Sprintf("negotiation is %s, no further session may be requested", n.state),
		}
	}

	var handler CallbackHandler
	runAsServer := false

	switch n.method {
	case AuthToken, AuthDigest:
		handler = NewTokenCallbackHandler(secrets, conn, n.metrics)

	case AuthKerberos:
		if n.serverID == "" {
			n.state = StateRejected
			return nil, &AccessControlError{
				Reason: "Kerberos principal name does not have the expected instance part: " +
					n.identity.PrincipalName(),
			}
		}
		handler = NewGssCallbackHandler(n.metrics)
		runAsServer = true

	default:
		// AuthSimple and anything else: no mechanism to negotiate.
		n.state = StateRejected
		return nil, &AccessControlError{
			Reason: fmt.Sprintf("server does not support SASL authentication method %s", n.method),
		}
	}

	var session Session
	var err error
	if runAsServer {
		// The factory call itself must run with the server's Kerberos
		// credentials attached, not the caller's.
		err = n.identity.Do(func() error {
			session, err = n.factory.CreateSession(ctx, n.mechanism, n.servicePrincipal,
				n.serverID, props, handler)
			return err
		})
	} else {
		session, err = n.factory.CreateSession(ctx, n.mechanism, n.servicePrincipal,
			n.serverID, props, handler)
	}
	if err != nil {
		n.state = StateRejected
		return nil, fmt.Errorf("create %s session: %w", n.mechanism, err)
	}
	if session == nil {
		n.state = StateRejected
		return nil, &AccessControlError{
			Reason: "unable to find SASL server implementation for " + n.mechanism,
		}
	}

	n.state = StateSessionCreated
	logger.Debug("Created SASL session",
		"method", n.method.String(),
		"mechanism", n.mechanism,
		"service_principal", n.servicePrincipal,
		"server_id", n.serverID,
	)
	return session, nil
}

// ParsePrincipal splits a fully qualified Kerberos principal of the form
// primary/instance@realm. The realm is everything after the first '@'
// (splitting stops there); the instance is everything between the first '/'
// and the realm, empty when the principal has no instance part.
func ParsePrincipal(name string) (primary, instance, realm string) {
	if i := strings.IndexByte(name, '@'); i >= 0 {
		realm = name[i+1:]
		name = name[:i]
	}
	if j := strings.IndexByte(name, '/'); j >= 0 {
		return name[:j], name[j+1:], realm
	}
	return name, "", realm
}
