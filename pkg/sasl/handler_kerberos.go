package sasl

import (
	"github.com/marmos91/saslgate/internal/logger"
)

// GssCallbackHandler answers the credential callbacks of a Kerberos (GSSAPI)
// negotiation. GSSAPI proves the client's identity inside the mechanism, so
// the only callback this handler expects is the authorization check; any
// other kind is a protocol violation.
type GssCallbackHandler struct {
	metrics *Metrics
}

// NewGssCallbackHandler creates the handler for one connection's Kerberos
// negotiation.
func NewGssCallbackHandler(metrics *Metrics) *GssCallbackHandler {
	return &GssCallbackHandler{metrics: metrics}
}

// Handle approves authorization only when the authenticated principal equals
// the requested principal. Exact match, no realm rewriting, no delegation.
func (h *GssCallbackHandler) Handle(callbacks []Callback) error {
	h.metrics.RecordCallbackRound("gssapi")

	var ac *AuthorizeCallback
	for _, callback := range callbacks {
		cb, ok := callback.(*AuthorizeCallback)
		if !ok {
			return &UnsupportedCallbackError{
				Callback: callback,
				Reason:   "unrecognized SASL GSSAPI callback",
			}
		}
		ac = cb
	}

	if ac != nil {
		authID := ac.AuthenticationID()
		authzID := ac.AuthorizationID()
		if authID == authzID {
			ac.SetAuthorized(true)
			ac.SetAuthorizedID(authzID)
			logger.Debug("SASL server GSSAPI callback: setting canonicalized client id",
				"authorized_id", authzID)
		} else {
			ac.SetAuthorized(false)
		}
	}

	return nil
}

// Compile-time check that GssCallbackHandler implements CallbackHandler.
var _ CallbackHandler = (*GssCallbackHandler)(nil)
