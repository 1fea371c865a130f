package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Common attribute keys for negotiation operations.
// These follow OpenTelemetry semantic conventions where applicable; the
// sasl.* prefix covers negotiation-specific attributes.
const (
	// ========================================================================
	// Client attributes
	// ========================================================================
	AttrClientAddr = "client.address"

	// ========================================================================
	// Negotiation attributes
	// ========================================================================
	AttrAuthMethod       = "sasl.auth_method"       // SIMPLE, KERBEROS, TOKEN, PLAIN
	AttrMechanism        = "sasl.mechanism"         // GSSAPI, DIGEST-MD5, ...
	AttrServicePrincipal = "sasl.service_principal" // Derived protocol/service parameter
	AttrServerID         = "sasl.server_id"         // Derived server id parameter
	AttrState            = "sasl.state"             // Negotiation lifecycle state
	AttrCallbackCount    = "sasl.callback_count"    // Callbacks in a handler round
	AttrQOP              = "sasl.qop"               // Negotiated quality of protection

	// ========================================================================
	// Identity attributes
	// ========================================================================
	AttrPrincipal = "sasl.principal" // Kerberos principal name
	AttrUsername  = "user.name"     // Resolved or attempting user name
	AttrAuthzID   = "sasl.authz_id" // Authorization id granted by the mechanism
)

// Span names for negotiation operations.
const (
	// Root span for one session negotiation
	SpanNegotiate = "sasl.negotiate"

	// Per-round callback handling
	SpanTokenCallbacks = "sasl.token_callbacks"
	SpanGssCallbacks   = "sasl.gss_callbacks"

	// Token identifier resolution
	SpanResolveToken = "sasl.resolve_token"
)

// ClientAddr returns an attribute for full client address
func ClientAddr(addr string) attribute.KeyValue {
	return attribute.String(AttrClientAddr, addr)
}

// AuthMethod returns an attribute for the authentication method
func AuthMethod(method string) attribute.KeyValue {
	return attribute.String(AttrAuthMethod, method)
}

// Mechanism returns an attribute for the SASL mechanism name
func Mechanism(name string) attribute.KeyValue {
	return attribute.String(AttrMechanism, name)
}

// ServicePrincipal returns an attribute for the service principal parameter
func ServicePrincipal(p string) attribute.KeyValue {
	return attribute.String(AttrServicePrincipal, p)
}

// ServerID returns an attribute for the server id parameter
func ServerID(id string) attribute.KeyValue {
	return attribute.String(AttrServerID, id)
}

// State returns an attribute for the negotiation state
func State(s string) attribute.KeyValue {
	return attribute.String(AttrState, s)
}

// CallbackCount returns an attribute for the callback count of a round
func CallbackCount(n int) attribute.KeyValue {
	return attribute.Int(AttrCallbackCount, n)
}

// QOP returns an attribute for the negotiated quality of protection
func QOP(qop string) attribute.KeyValue {
	return attribute.String(AttrQOP, qop)
}

// Principal returns an attribute for a Kerberos principal name
func Principal(p string) attribute.KeyValue {
	return attribute.String(AttrPrincipal, p)
}

// Username returns an attribute for a user name
func Username(name string) attribute.KeyValue {
	return attribute.String(AttrUsername, name)
}

// AuthzID returns an attribute for the granted authorization id
func AuthzID(id string) attribute.KeyValue {
	return attribute.String(AttrAuthzID, id)
}

// StartNegotiationSpan starts the root span for one session negotiation.
func StartNegotiationSpan(ctx context.Context, method, mechanism string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{
		AuthMethod(method),
		Mechanism(mechanism),
	}
	allAttrs = append(allAttrs, attrs...)

	return StartSpan(ctx, SpanNegotiate, trace.WithAttributes(allAttrs...))
}

// StartCallbackSpan starts a span for one callback-handler round.
func StartCallbackSpan(ctx context.Context, name string, count int, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{
		CallbackCount(count),
	}
	allAttrs = append(allAttrs, attrs...)

	return StartSpan(ctx, name, trace.WithAttributes(allAttrs...))
}
