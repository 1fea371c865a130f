package sasl

import (
	"github.com/marmos91/saslgate/internal/logger"
)

// TokenCallbackHandler answers the credential callbacks of a token
// negotiation. Per round it resolves the claimed token identifier through
// the SecretManager, records the resolved identity on the connection as the
// attempting user, and answers the password callback with the encoded
// secret. Callback kinds it does not recognize are forwarded to the
// process-wide extension handler.
type TokenCallbackHandler struct {
	secrets   SecretManager
	conn      Connection
	extension CustomizedCallbackHandler
	metrics   *Metrics
}

// NewTokenCallbackHandler creates the handler for one connection's token
// negotiation. The extension handler is resolved from the connection's
// configuration, falling back to the handler bound at Init.
func NewTokenCallbackHandler(secrets SecretManager, conn Connection, metrics *Metrics) *TokenCallbackHandler {
	extension := extensionHandler()
	if cfg := conn.Config(); cfg != nil && cfg.Callback.Handler != "" {
		extension = resolveExtensionHandler(cfg.Callback.Handler)
	}
	return &TokenCallbackHandler{
		secrets:   secrets,
		conn:      conn,
		extension: extension,
		metrics:   metrics,
	}
}

// Handle processes one batch of callbacks raised by the mechanism.
//
// The batch is partitioned by kind in a single pass: realm requests are
// ignored, the name/password/authorize requests are answered here, and
// everything else goes to the extension handler together with the name and
// secret resolved in this round (empty when the round had no name request).
func (h *TokenCallbackHandler) Handle(callbacks []Callback) error {
	h.metrics.RecordCallbackRound("token")

	var (
		nc      *NameCallback
		pc      *PasswordCallback
		ac      *AuthorizeCallback
		unknown []Callback
	)
	for _, callback := range callbacks {
		switch cb := callback.(type) {
		case *AuthorizeCallback:
			ac = cb
		case *NameCallback:
			nc = cb
		case *PasswordCallback:
			pc = cb
		case *RealmCallback:
			continue // realm is ignored
		default:
			unknown = append(unknown, cb)
		}
	}

	if pc != nil {
		if nc == nil {
			return &UnsupportedCallbackError{
				Callback: pc,
				Reason:   "password callback without a paired name callback",
			}
		}
		secret, err := h.passwordFor(nc.DefaultName())
		if err != nil {
			return err
		}
		pc.SetPassword(secret)
	}

	if ac != nil {
		authID := ac.AuthenticationID()
		authzID := ac.AuthorizationID()
		if authID == authzID {
			ac.SetAuthorized(true)
			ac.SetAuthorizedID(authzID)
			logger.Debug("SASL server callback: setting authorized id", "authorized_id", authzID)
		} else {
			ac.SetAuthorized(false)
		}
	}

	if len(unknown) > 0 {
		var name string
		var secret []byte
		if nc != nil {
			name = nc.DefaultName()
			var err error
			if secret, err = h.passwordFor(name); err != nil {
				return err
			}
		}
		if err := h.extension.HandleUnknown(unknown, name, secret); err != nil {
			return err
		}
	}

	return nil
}

// passwordFor resolves the wire-encoded identifier, records the resolved
// identity as the connection's attempting user, and returns the encoded
// secret.
func (h *TokenCallbackHandler) passwordFor(name string) ([]byte, error) {
	identifier, err := ResolveIdentifier(name, h.secrets)
	if err != nil {
		return nil, err
	}
	user := identifier.User()
	h.conn.SetAttemptingUser(user)
	logger.Debug("SASL server callback: setting password for client", "user", user)

	secret, err := ResolveSecret(identifier, h.secrets)
	if err != nil {
		return nil, err
	}
	return EncodePassword(secret), nil
}

// Compile-time check that TokenCallbackHandler implements CallbackHandler.
var _ CallbackHandler = (*TokenCallbackHandler)(nil)
