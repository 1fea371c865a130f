package sasl

import "fmt"

// AccessControlError indicates a fatal negotiation failure caused by an
// unsupported or misconfigured authentication method: no mechanism
// implementation registered for the selected mechanism, an unqualified
// server principal, or a session requested for a method that never
// negotiates. The connection must be rejected.
type AccessControlError struct {
	Reason string
	Err    error
}

func (e *AccessControlError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sasl: %s: %v", e.Reason, e.Err)
	}
	return "sasl: " + e.Reason
}

func (e *AccessControlError) Unwrap() error { return e.Err }

// InvalidTokenError indicates that a wire-encoded token identifier could not
// be decoded or deserialized, or that the resolved identifier is otherwise
// invalid (expired, unknown key). It is fatal to the negotiation attempt
// only; the underlying cause is preserved for diagnostics.
type InvalidTokenError struct {
	Reason string
	Err    error
}

func (e *InvalidTokenError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sasl: invalid token: %s: %v", e.Reason, e.Err)
	}
	return "sasl: invalid token: " + e.Reason
}

func (e *InvalidTokenError) Unwrap() error { return e.Err }

// UnsupportedCallbackError indicates that the mechanism presented a callback
// this handler cannot answer and no extension handler accepted it. The
// offending callback is carried for diagnostics.
type UnsupportedCallbackError struct {
	Callback Callback
	Reason   string
}

func (e *UnsupportedCallbackError) Error() string {
	name := "<nil>"
	if e.Callback != nil {
		name = e.Callback.CallbackName()
	}
	return fmt.Sprintf("sasl: unsupported callback %s: %s", name, e.Reason)
}
