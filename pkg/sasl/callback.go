package sasl

// Callback is a single credential query raised by a mechanism during a
// negotiation round. Mechanisms hand the handler a batch of callbacks per
// round; the handler fills in answers by mutating them in place.
//
// The four variants defined in this package (name, password, authorize,
// realm) are the kinds this core understands. A mechanism may present other
// implementations; those are forwarded to the process-wide
// CustomizedCallbackHandler.
type Callback interface {
	// CallbackName identifies the callback kind for logging and error
	// messages (e.g. "name", "password").
	CallbackName() string
}

// CallbackHandler answers a batch of callbacks raised by a mechanism.
//
// Handle is invoked zero or more times per negotiation, once per round.
// An error from Handle is fatal to the negotiation and is surfaced
// unchanged through the mechanism session.
type CallbackHandler interface {
	Handle(callbacks []Callback) error
}

// NameCallback requests the client's claimed authentication name. For token
// authentication the default name carries the wire-encoded token identifier.
type NameCallback struct {
	Prompt      string
	defaultName string
	name        string
}

// NewNameCallback creates a name callback with the client-supplied default.
func NewNameCallback(prompt, defaultName string) *NameCallback {
	return &NameCallback{Prompt: prompt, defaultName: defaultName}
}

func (c *NameCallback) CallbackName() string { return "name" }

// DefaultName returns the name the client claimed.
func (c *NameCallback) DefaultName() string { return c.defaultName }

// SetName records the resolved name.
func (c *NameCallback) SetName(name string) { c.name = name }

// Name returns the resolved name, or the default if none was set.
func (c *NameCallback) Name() string {
	if c.name != "" {
		return c.name
	}
	return c.defaultName
}

// PasswordCallback requests the secret for the claimed name. The answer is
// held as a byte slice so the mechanism can zero it after use.
type PasswordCallback struct {
	Prompt   string
	password []byte
}

// NewPasswordCallback creates an unanswered password callback.
func NewPasswordCallback(prompt string) *PasswordCallback {
	return &PasswordCallback{Prompt: prompt}
}

func (c *PasswordCallback) CallbackName() string { return "password" }

// SetPassword answers the callback with a copy of the secret.
func (c *PasswordCallback) SetPassword(password []byte) {
	c.password = append([]byte(nil), password...)
}

// Password returns the stored secret, or nil if unanswered.
func (c *PasswordCallback) Password() []byte { return c.password }

// ClearPassword zeroes and drops the stored secret.
func (c *PasswordCallback) ClearPassword() {
	for i := range c.password {
		c.password[i] = 0
	}
	c.password = nil
}

// AuthorizeCallback asks whether the authenticated identity may act as the
// requested authorization identity. Policy here is strict equality; there is
// no wildcard or group expansion, and delegation between distinct identities
// is never granted.
type AuthorizeCallback struct {
	authenticationID string
	authorizationID  string
	authorized       bool
	authorizedID     string
}

// NewAuthorizeCallback creates an authorize callback for the given pair of
// identities.
func NewAuthorizeCallback(authenticationID, authorizationID string) *AuthorizeCallback {
	return &AuthorizeCallback{
		authenticationID: authenticationID,
		authorizationID:  authorizationID,
	}
}

func (c *AuthorizeCallback) CallbackName() string { return "authorize" }

// AuthenticationID returns the identity that authenticated.
func (c *AuthorizeCallback) AuthenticationID() string { return c.authenticationID }

// AuthorizationID returns the identity the client wants to act as.
func (c *AuthorizeCallback) AuthorizationID() string { return c.authorizationID }

// SetAuthorized records the authorization decision.
func (c *AuthorizeCallback) SetAuthorized(ok bool) { c.authorized = ok }

// Authorized reports whether authorization was granted.
func (c *AuthorizeCallback) Authorized() bool { return c.authorized }

// SetAuthorizedID records the canonicalized authorized identity. Only
// meaningful after SetAuthorized(true).
func (c *AuthorizeCallback) SetAuthorizedID(id string) { c.authorizedID = id }

// AuthorizedID returns the identity the client may act as, or "" if
// authorization was denied.
func (c *AuthorizeCallback) AuthorizedID() string {
	if !c.authorized {
		return ""
	}
	if c.authorizedID != "" {
		return c.authorizedID
	}
	return c.authorizationID
}

// RealmCallback requests the negotiation realm. The token handler ignores
// it: the realm carries no information for token authentication.
type RealmCallback struct {
	Prompt      string
	defaultText string
	text        string
}

// NewRealmCallback creates a realm callback with the mechanism's default.
func NewRealmCallback(prompt, defaultText string) *RealmCallback {
	return &RealmCallback{Prompt: prompt, defaultText: defaultText}
}

func (c *RealmCallback) CallbackName() string { return "realm" }

// DefaultText returns the mechanism's default realm text.
func (c *RealmCallback) DefaultText() string { return c.defaultText }

// SetText records the resolved realm.
func (c *RealmCallback) SetText(text string) { c.text = text }

// Text returns the resolved realm, or the default if none was set.
func (c *RealmCallback) Text() string {
	if c.text != "" {
		return c.text
	}
	return c.defaultText
}
