package secrets

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"time"

	"golang.org/x/crypto/pbkdf2"

	"github.com/marmos91/saslgate/pkg/sasl"
)

// pbkdf2Iterations is the work factor for deriving the master key from a
// passphrase. The derived key is held in memory for the process lifetime, so
// derivation cost is paid once.
const pbkdf2Iterations = 4096

// masterKeyLen is the derived master key length in bytes.
const masterKeyLen = 32

// MemoryManager is a SecretManager that derives token secrets instead of
// storing them: each identifier's secret is an HMAC-SHA256 of its serialized
// form under a master key derived from a passphrase.
//
// Derivation makes the manager stateless, which is exactly what tooling and
// tests need, and mirrors how real deployments compute token passwords from
// a rolled master secret. It deliberately implements no storage and no key
// rotation.
//
// Thread safety: the manager is immutable after construction and safe for
// concurrent use by many negotiations.
type MemoryManager struct {
	masterKey []byte
	now       func() time.Time
}

// NewMemoryManager derives the manager's master key from a passphrase and
// salt via PBKDF2-SHA256.
func NewMemoryManager(passphrase string, salt []byte) *MemoryManager {
	return &MemoryManager{
		masterKey: pbkdf2.Key([]byte(passphrase), salt, pbkdf2Iterations, masterKeyLen, sha256.New),
		now:       time.Now,
	}
}

// CreateIdentifier returns a blank StandardIdentifier for deserialization.
func (m *MemoryManager) CreateIdentifier() sasl.TokenIdentifier {
	return &StandardIdentifier{}
}

// RetrieveSecret derives the secret for a resolved identifier. Expired
// tokens and identifiers of a foreign concrete type are invalid.
func (m *MemoryManager) RetrieveSecret(identifier sasl.TokenIdentifier) ([]byte, error) {
	id, ok := identifier.(*StandardIdentifier)
	if !ok {
		return nil, &sasl.InvalidTokenError{
			Reason: fmt.Sprintf("unexpected token identifier type %T", identifier),
		}
	}
	if id.Expired(m.now()) {
		return nil, &sasl.InvalidTokenError{Reason: "token is expired"}
	}

	raw, err := id.Serialize()
	if err != nil {
		return nil, &sasl.InvalidTokenError{Reason: "can't canonicalize token identifier", Err: err}
	}

	mac := hmac.New(sha256.New, m.masterKey)
	mac.Write(raw)
	return mac.Sum(nil), nil
}

// Compile-time check that MemoryManager implements sasl.SecretManager.
var _ sasl.SecretManager = (*MemoryManager)(nil)
