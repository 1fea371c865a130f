package sasl

import (
	"fmt"
	"io"
	"strings"
)

// AuthMethod is one of the closed set of authentication methods a connection
// can declare. Each method has a stable one-byte wire code and a SASL
// mechanism name.
//
// Wire codes are assigned contiguously from firstMethodCode so that decoding
// is a bounds-checked offset lookup. AuthDigest and AuthToken intentionally
// share code 82: DIGEST is the deprecated alias kept for wire compatibility,
// and a decoded 82 always yields AuthDigest (the alias is listed first at
// that offset).
type AuthMethod int

const (
	// AuthSimple is unauthenticated access. No mechanism, no negotiation;
	// callers must special-case it before constructing a Negotiator session.
	AuthSimple AuthMethod = iota

	// AuthKerberos authenticates with Kerberos tickets via GSSAPI.
	AuthKerberos

	// AuthDigest is the deprecated wire alias of AuthToken.
	//
	// Deprecated: declare AuthToken instead. Retained because the two share
	// wire code 82 and old clients still send it.
	AuthDigest

	// AuthToken authenticates with a shared-secret token. Its mechanism name
	// is resolved lazily so mechanism selection can change without changing
	// the wire code.
	AuthToken

	// AuthPlain authenticates with the SASL PLAIN mechanism.
	AuthPlain
)

// firstMethodCode is the wire code of the first method. Codes run
// contiguously from here; keep the decode table below in sync.
const firstMethodCode = 80

// methodCodes maps each method to its one-byte wire code.
var methodCodes = map[AuthMethod]byte{
	AuthSimple:   80,
	AuthKerberos: 81,
	AuthDigest:   82,
	AuthToken:    82, // shared with AuthDigest, see type doc
	AuthPlain:    83,
}

// decodeTable is indexed by (code - firstMethodCode). AuthToken does not
// appear: at the shared offset the deprecated alias wins.
var decodeTable = [...]AuthMethod{AuthSimple, AuthKerberos, AuthDigest, AuthPlain}

// methodNames gives the human-readable method names used in errors and logs.
var methodNames = map[AuthMethod]string{
	AuthSimple:   "SIMPLE",
	AuthKerberos: "KERBEROS",
	AuthDigest:   "DIGEST",
	AuthToken:    "TOKEN",
	AuthPlain:    "PLAIN",
}

// mechanismResolvers is the per-method mechanism-name function table.
// All entries are fixed except AuthToken (and its alias), whose mechanism is
// looked up from process state at call time.
var mechanismResolvers = map[AuthMethod]func() string{
	AuthSimple:   func() string { return "" },
	AuthKerberos: func() string { return "GSSAPI" },
	AuthDigest:   tokenMechanismName,
	AuthToken:    tokenMechanismName,
	AuthPlain:    func() string { return "PLAIN" },
}

// Valid reports whether m is one of the defined methods.
func (m AuthMethod) Valid() bool {
	_, ok := methodCodes[m]
	return ok
}

// Code returns the one-byte wire code for the method.
func (m AuthMethod) Code() byte {
	return methodCodes[m]
}

// MechanismName returns the SASL mechanism name for the method: "" for
// SIMPLE (no negotiation), "GSSAPI" for KERBEROS, "PLAIN" for PLAIN, and the
// process-configured token mechanism (default DIGEST-MD5) for TOKEN/DIGEST.
func (m AuthMethod) MechanismName() string {
	if resolve, ok := mechanismResolvers[m]; ok {
		return resolve()
	}
	return ""
}

func (m AuthMethod) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("AuthMethod(%d)", int(m))
}

// DecodeAuthMethod maps a wire code back to a method by offset from
// firstMethodCode. Returns false for any code outside the assigned range.
// Code 82 decodes to AuthDigest even when the peer meant AuthToken; both
// select the same mechanism.
func DecodeAuthMethod(code byte) (AuthMethod, bool) {
	i := int(code) - firstMethodCode
	if i < 0 || i >= len(decodeTable) {
		return 0, false
	}
	return decodeTable[i], true
}

// ReadAuthMethod reads the single wire byte for a method from r.
// An unassigned code is a protocol error.
func ReadAuthMethod(r io.Reader) (AuthMethod, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("read auth method: %w", err)
	}
	m, ok := DecodeAuthMethod(buf[0])
	if !ok {
		return 0, fmt.Errorf("unknown auth method code %d", buf[0])
	}
	return m, nil
}

// WriteTo writes the method's single wire byte to w.
func (m AuthMethod) WriteTo(w io.Writer) error {
	if _, err := w.Write([]byte{m.Code()}); err != nil {
		return fmt.Errorf("write auth method: %w", err)
	}
	return nil
}

// ============================================================================
// Quality of protection
// ============================================================================

// QOP is a SASL quality-of-protection level negotiated by mechanisms that
// support message protection.
type QOP int

const (
	// QOPAuthentication is authentication only ("auth").
	QOPAuthentication QOP = iota
	// QOPIntegrity adds integrity protection ("auth-int").
	QOPIntegrity
	// QOPPrivacy adds integrity and privacy protection ("auth-conf").
	QOPPrivacy
)

// PropQOP is the mechanism property key carrying the comma-separated QOP
// preference list, strongest-preferred first.
const PropQOP = "qop"

// Token returns the QOP token used on the wire and in mechanism properties.
func (q QOP) Token() string {
	switch q {
	case QOPIntegrity:
		return "auth-int"
	case QOPPrivacy:
		return "auth-conf"
	default:
		return "auth"
	}
}

func (q QOP) String() string {
	switch q {
	case QOPAuthentication:
		return "authentication"
	case QOPIntegrity:
		return "integrity"
	case QOPPrivacy:
		return "privacy"
	default:
		return fmt.Sprintf("QOP(%d)", int(q))
	}
}

// ParseQOP parses a configuration name ("authentication", "integrity",
// "privacy") into a QOP level.
func ParseQOP(s string) (QOP, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "authentication":
		return QOPAuthentication, nil
	case "integrity":
		return QOPIntegrity, nil
	case "privacy":
		return QOPPrivacy, nil
	default:
		return 0, fmt.Errorf("unknown quality of protection %q", s)
	}
}

// SecurityProps builds the mechanism property map for a QOP preference list.
// An empty list yields authentication-only.
func SecurityProps(qops ...QOP) map[string]string {
	if len(qops) == 0 {
		qops = []QOP{QOPAuthentication}
	}
	tokens := make([]string, len(qops))
	for i, q := range qops {
		tokens[i] = q.Token()
	}
	return map[string]string{PropQOP: strings.Join(tokens, ",")}
}
