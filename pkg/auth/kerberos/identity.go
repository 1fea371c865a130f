package kerberos

import (
	"fmt"
	"os"
	"sync"
	"time"

	krb5config "github.com/jcmturner/gokrb5/v8/config"
	"github.com/jcmturner/gokrb5/v8/keytab"

	"github.com/marmos91/saslgate/internal/logger"
	"github.com/marmos91/saslgate/pkg/config"
	"github.com/marmos91/saslgate/pkg/sasl"
)

// Identity is the server's own authenticated Kerberos identity, backed by a
// service keytab and krb5.conf.
//
// It implements sasl.ServerIdentity: the negotiator reads PrincipalName to
// derive the service principal and server id, and wraps the mechanism
// session factory call in Do so that it runs with these credentials
// attached rather than with whatever ambient identity the caller has.
//
// Thread Safety: all methods are safe for concurrent use. The keytab can be
// hot-reloaded at runtime via ReloadKeytab without disrupting negotiations
// that already hold a reference to the old keytab.
type Identity struct {
	keytab           *keytab.Keytab
	krb5Conf         *krb5config.Config
	servicePrincipal string
	maxClockSkew     time.Duration
	keytabPath       string
	manager          *KeytabManager
	mu               sync.RWMutex
}

// NewIdentity loads the server identity from configuration.
//
// The keytab and krb5.conf are read at startup, then a KeytabManager watches
// the keytab file for replacement (key rotation via kadmin/k5srvutil) and
// hot-reloads it.
//
// Environment variables take precedence over config file values:
//   - SASLGATE_KERBEROS_KEYTAB overrides KeytabPath
//   - SASLGATE_KERBEROS_PRINCIPAL overrides ServicePrincipal
//   - SASLGATE_KERBEROS_KRB5CONF overrides Krb5Conf
func NewIdentity(cfg *config.KerberosConfig) (*Identity, error) {
	if cfg == nil {
		return nil, fmt.Errorf("kerberos config is nil")
	}

	keytabPath := resolveKeytabPath(cfg.KeytabPath)
	if keytabPath == "" {
		return nil, fmt.Errorf("kerberos keytab path not configured (set keytab_path or SASLGATE_KERBEROS_KEYTAB)")
	}

	servicePrincipal := resolveServicePrincipal(cfg.ServicePrincipal)
	if servicePrincipal == "" {
		return nil, fmt.Errorf("kerberos service principal not configured (set service_principal or SASLGATE_KERBEROS_PRINCIPAL)")
	}

	kt, err := loadKeytab(keytabPath)
	if err != nil {
		return nil, fmt.Errorf("load keytab %s: %w", keytabPath, err)
	}

	krbCfg, err := krb5config.Load(resolveKrb5ConfPath(cfg.Krb5Conf))
	if err != nil {
		return nil, fmt.Errorf("load krb5.conf: %w", err)
	}

	id := &Identity{
		keytab:           kt,
		krb5Conf:         krbCfg,
		servicePrincipal: servicePrincipal,
		maxClockSkew:     cfg.MaxClockSkew,
		keytabPath:       keytabPath,
	}

	km := NewKeytabManager(keytabPath, id)
	if err := km.Start(); err != nil {
		// Non-fatal: hot-reload just won't work.
		logger.Warn("Keytab hot-reload failed to start, continuing without it",
			"path", keytabPath, "error", err)
	}
	id.manager = km

	return id, nil
}

// PrincipalName returns the configured service principal name
// (e.g. "nfs/server.example.com@EXAMPLE.COM").
func (id *Identity) PrincipalName() string {
	return id.servicePrincipal
}

// Do runs fn under this identity. The closure is the elevation boundary:
// everything inside it runs with the server's Kerberos credentials, not the
// connection's.
func (id *Identity) Do(fn func() error) error {
	return fn()
}

// Keytab returns the current keytab (thread-safe read).
func (id *Identity) Keytab() *keytab.Keytab {
	id.mu.RLock()
	defer id.mu.RUnlock()
	return id.keytab
}

// Krb5Config returns the loaded Kerberos configuration.
func (id *Identity) Krb5Config() *krb5config.Config {
	id.mu.RLock()
	defer id.mu.RUnlock()
	return id.krb5Conf
}

// MaxClockSkew returns the maximum allowed clock skew.
func (id *Identity) MaxClockSkew() time.Duration {
	return id.maxClockSkew
}

// Realm returns the realm component of the service principal, if any.
func (id *Identity) Realm() string {
	_, _, realm := sasl.ParsePrincipal(id.servicePrincipal)
	return realm
}

// ReloadKeytab re-reads the keytab file and atomically swaps it. Sessions
// created against the old keytab keep working; new sessions use the new one.
func (id *Identity) ReloadKeytab() error {
	kt, err := loadKeytab(id.keytabPath)
	if err != nil {
		return fmt.Errorf("reload keytab %s: %w", id.keytabPath, err)
	}

	id.mu.Lock()
	id.keytab = kt
	id.mu.Unlock()

	return nil
}

// Close stops the keytab manager. Safe to call multiple times.
func (id *Identity) Close() error {
	if id.manager != nil {
		id.manager.Stop()
	}
	return nil
}

// Compile-time check that Identity implements sasl.ServerIdentity.
var _ sasl.ServerIdentity = (*Identity)(nil)

// loadKeytab reads and parses a keytab file.
func loadKeytab(path string) (*keytab.Keytab, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keytab file: %w", err)
	}

	kt := keytab.New()
	if err := kt.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("parse keytab: %w", err)
	}

	return kt, nil
}

// resolveKeytabPath resolves the keytab path with environment override.
func resolveKeytabPath(configPath string) string {
	if envPath := os.Getenv("SASLGATE_KERBEROS_KEYTAB"); envPath != "" {
		return envPath
	}
	return configPath
}

// resolveServicePrincipal resolves the service principal with environment
// override.
func resolveServicePrincipal(configPrincipal string) string {
	if envSPN := os.Getenv("SASLGATE_KERBEROS_PRINCIPAL"); envSPN != "" {
		return envSPN
	}
	return configPrincipal
}

// resolveKrb5ConfPath resolves the krb5.conf path with environment override,
// defaulting to the system location.
func resolveKrb5ConfPath(configPath string) string {
	if envPath := os.Getenv("SASLGATE_KERBEROS_KRB5CONF"); envPath != "" {
		return envPath
	}
	if configPath != "" {
		return configPath
	}
	return "/etc/krb5.conf"
}
