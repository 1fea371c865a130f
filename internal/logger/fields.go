package logger

import "log/slog"

// Standard field keys for structured logging.
// Use these keys consistently across all log statements so negotiation
// events can be aggregated and queried by connection, method, or principal.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// ========================================================================
	// Connection
	// ========================================================================
	KeyConnID     = "conn_id"     // Connection identifier
	KeyClientAddr = "client_addr" // Client remote address

	// ========================================================================
	// Negotiation
	// ========================================================================
	KeyMethod           = "method"            // Authentication method: SIMPLE, KERBEROS, TOKEN, PLAIN
	KeyMechanism        = "mechanism"         // SASL mechanism name: GSSAPI, DIGEST-MD5, ...
	KeyServicePrincipal = "service_principal" // Derived protocol/service principal parameter
	KeyServerID         = "server_id"         // Derived server id parameter
	KeyState            = "state"             // Negotiation lifecycle state

	// ========================================================================
	// Identity
	// ========================================================================
	KeyPrincipal = "principal" // Kerberos principal name
	KeyUser      = "user"      // Resolved or attempting user name
	KeyAuthzID   = "authz_id"  // Authorization id granted by the mechanism

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
	KeyReason     = "reason"      // Rejection or failure reason
	KeyCallbacks  = "callbacks"   // Number of callbacks in a handler round
)

// ============================================================================
// Field constructors for type safety
// These functions provide type-safe construction of slog.Attr values.
// ============================================================================

// TraceID returns a slog.Attr for OpenTelemetry trace ID
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for OpenTelemetry span ID
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// ConnID returns a slog.Attr for connection identifier
func ConnID(id string) slog.Attr {
	return slog.String(KeyConnID, id)
}

// ClientAddr returns a slog.Attr for client remote address
func ClientAddr(addr string) slog.Attr {
	return slog.String(KeyClientAddr, addr)
}

// Method returns a slog.Attr for authentication method
func Method(m string) slog.Attr {
	return slog.String(KeyMethod, m)
}

// Mechanism returns a slog.Attr for SASL mechanism name
func Mechanism(m string) slog.Attr {
	return slog.String(KeyMechanism, m)
}

// ServicePrincipal returns a slog.Attr for the service principal parameter
func ServicePrincipal(p string) slog.Attr {
	return slog.String(KeyServicePrincipal, p)
}

// ServerID returns a slog.Attr for the server id parameter
func ServerID(id string) slog.Attr {
	return slog.String(KeyServerID, id)
}

// State returns a slog.Attr for negotiation state
func State(s string) slog.Attr {
	return slog.String(KeyState, s)
}

// Principal returns a slog.Attr for Kerberos principal name
func Principal(p string) slog.Attr {
	return slog.String(KeyPrincipal, p)
}

// User returns a slog.Attr for user name
func User(u string) slog.Attr {
	return slog.String(KeyUser, u)
}

// AuthzID returns a slog.Attr for the granted authorization id
func AuthzID(id string) slog.Attr {
	return slog.String(KeyAuthzID, id)
}

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Reason returns a slog.Attr for a rejection reason
func Reason(r string) slog.Attr {
	return slog.String(KeyReason, r)
}

// Callbacks returns a slog.Attr for the callback count of a round
func Callbacks(n int) slog.Attr {
	return slog.Int(KeyCallbacks, n)
}
