package sasl

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/marmos91/saslgate/internal/logger"
	"github.com/marmos91/saslgate/pkg/config"
)

// DefaultTokenMechanism is the mechanism used for token authentication when
// none is configured.
const DefaultTokenMechanism = "DIGEST-MD5"

// Session is an established mechanism negotiation session. It is created by
// a ServerFactory and owned by the transport afterwards; this package never
// drives it.
type Session interface {
	// Evaluate processes one client response and returns the next challenge.
	// A nil challenge with IsComplete() true means the exchange is finished.
	Evaluate(response []byte) (challenge []byte, err error)

	// IsComplete reports whether authentication has completed.
	IsComplete() bool

	// AuthorizationID returns the authorized identity once complete.
	AuthorizationID() string

	// Close releases mechanism resources.
	Close() error
}

// ServerFactory creates mechanism sessions. Implementations wrap a concrete
// SASL mechanism (DIGEST-MD5, GSSAPI, SCRAM, ...) and are registered
// process-wide under the mechanism name they serve.
//
// CreateSession returns (nil, nil) when the factory has no implementation
// for the requested mechanism; the Negotiator turns that into an
// AccessControlError.
type ServerFactory interface {
	CreateSession(ctx context.Context, mechanism, servicePrincipal, serverID string,
		props map[string]string, handler CallbackHandler) (Session, error)
}

// ============================================================================
// Process-wide provider registry
// ============================================================================

var (
	providersMu sync.RWMutex
	providers   = make(map[string]ServerFactory)

	initOnce    sync.Once
	initialized atomic.Bool

	// tokenMechanism holds the configured mechanism name for AuthToken.
	// Read lazily by the method table so it works before Init with the
	// default value.
	tokenMechanism atomic.Value // string

	// processExtension is the extension handler resolved from config at Init.
	processExtension atomic.Value // CustomizedCallbackHandler
)

// RegisterProvider registers a mechanism session factory under a mechanism
// name. Later registrations for the same name win; hosts register their
// providers during startup, before connections arrive.
func RegisterProvider(mechanism string, factory ServerFactory) {
	providersMu.Lock()
	defer providersMu.Unlock()
	providers[mechanism] = factory
}

// registryFactory is the aggregate ServerFactory backed by the provider
// registry. It is what negotiators use unless a factory is injected.
type registryFactory struct{}

func (registryFactory) CreateSession(ctx context.Context, mechanism, servicePrincipal, serverID string,
	props map[string]string, handler CallbackHandler) (Session, error) {
	providersMu.RLock()
	factory, ok := providers[mechanism]
	providersMu.RUnlock()
	if !ok {
		return nil, nil // no implementation for this mechanism
	}
	return factory.CreateSession(ctx, mechanism, servicePrincipal, serverID, props, handler)
}

// Init binds process-wide negotiation state from configuration: the token
// mechanism name and the extension callback handler. It is safe to call from
// concurrent first-use paths; only the first call takes effect and later
// calls are no-ops.
func Init(cfg *config.Config) {
	initOnce.Do(func() {
		mechanism := DefaultTokenMechanism
		handlerName := ""
		if cfg != nil {
			if cfg.Token.Mechanism != "" {
				mechanism = cfg.Token.Mechanism
			}
			handlerName = cfg.Callback.Handler
		}
		tokenMechanism.Store(mechanism)
		processExtension.Store(resolveExtensionHandler(handlerName))
		initialized.Store(true)

		logger.Debug("SASL negotiation initialized",
			"token_mechanism", mechanism,
			"extension_handler", handlerName,
		)
	})
}

// Initialized reports whether Init has run.
func Initialized() bool {
	return initialized.Load()
}

// tokenMechanismName resolves the mechanism for AuthToken, falling back to
// the default before Init runs.
func tokenMechanismName() string {
	if v, ok := tokenMechanism.Load().(string); ok && v != "" {
		return v
	}
	return DefaultTokenMechanism
}
