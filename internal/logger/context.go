package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// logContextKey is the key for LogContext in context.Context
var logContextKey = contextKey{}

// LogContext holds connection-scoped logging context
type LogContext struct {
	TraceID    string    // OpenTelemetry trace ID
	SpanID     string    // OpenTelemetry span ID
	ConnID     string    // Connection identifier
	ClientAddr string    // Client remote address
	Method     string    // Authentication method (SIMPLE, KERBEROS, TOKEN, PLAIN)
	Mechanism  string    // SASL mechanism name
	Principal  string    // Server or client principal, once known
	StartTime  time.Time // For duration calculation
}

// WithContext returns a new context with the given LogContext
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext for a connection
func NewLogContext(connID, clientAddr string) *LogContext {
	return &LogContext{
		ConnID:     connID,
		ClientAddr: clientAddr,
		StartTime:  time.Now(),
	}
}

// Clone creates a copy of the LogContext
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	clone := *lc
	return &clone
}

// WithMethod returns a copy with the method and mechanism set
func (lc *LogContext) WithMethod(method, mechanism string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Method = method
		clone.Mechanism = mechanism
	}
	return clone
}

// WithPrincipal returns a copy with the principal set
func (lc *LogContext) WithPrincipal(principal string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Principal = principal
	}
	return clone
}

// WithTrace returns a copy with trace info set
func (lc *LogContext) WithTrace(traceID, spanID string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.TraceID = traceID
		clone.SpanID = spanID
	}
	return clone
}

// DurationMs returns the duration since StartTime in milliseconds
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}
