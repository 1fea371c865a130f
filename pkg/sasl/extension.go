package sasl

import "sync"

// CustomizedCallbackHandler is the process-wide extension point for callback
// kinds this core does not recognize. Implementations are registered by name
// and selected once from configuration at Init; they are shared across all
// connections and must be safe for concurrent use.
type CustomizedCallbackHandler interface {
	// HandleUnknown receives the unrecognized callbacks of one negotiation
	// round together with the name and secret already resolved in that round
	// ("" and nil when the round carried no name request). Errors propagate
	// unchanged and are fatal to the negotiation.
	HandleUnknown(callbacks []Callback, name string, secret []byte) error
}

var (
	extensionsMu sync.RWMutex
	extensions   = make(map[string]CustomizedCallbackHandler)
)

// RegisterCallbackHandler registers a named extension handler. Hosts call
// this during startup; the handler named by the callback.handler config key
// is bound at Init.
func RegisterCallbackHandler(name string, handler CustomizedCallbackHandler) {
	extensionsMu.Lock()
	defer extensionsMu.Unlock()
	extensions[name] = handler
}

// resolveExtensionHandler looks up a registered handler by name, falling
// back to the default rejecting handler for "" or unknown names.
func resolveExtensionHandler(name string) CustomizedCallbackHandler {
	if name != "" {
		extensionsMu.RLock()
		handler, ok := extensions[name]
		extensionsMu.RUnlock()
		if ok {
			return handler
		}
	}
	return defaultCallbackHandler{}
}

// extensionHandler returns the handler bound at Init, or the default
// rejecting handler when Init has not run.
func extensionHandler() CustomizedCallbackHandler {
	if h, ok := processExtension.Load().(CustomizedCallbackHandler); ok {
		return h
	}
	return defaultCallbackHandler{}
}

// defaultCallbackHandler rejects every unknown callback. It is still invoked
// so that a round with only unknown callbacks fails with a callback-specific
// error rather than being silently dropped.
type defaultCallbackHandler struct{}

func (defaultCallbackHandler) HandleUnknown(callbacks []Callback, _ string, _ []byte) error {
	if len(callbacks) == 0 {
		return nil
	}
	return &UnsupportedCallbackError{
		Callback: callbacks[0],
		Reason:   "no extension callback handler configured",
	}
}
