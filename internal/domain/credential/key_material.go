// Package credential models the key pair the browser print bridge uses to
// trust signed print requests.
package credential

import (
	"context"
	"strings"
	"time"
)

// KeyMaterial is the private key and publisher certificate, both PEM encoded
type KeyMaterial struct {
	PrivateKeyPEM  string
	CertificatePEM string
	GeneratedAt    time.Time
}

// HasPrivateKey reports whether a private key is present
func (k *KeyMaterial) HasPrivateKey() bool {
	return k != nil && strings.TrimSpace(k.PrivateKeyPEM) != ""
}

// HasCertificate reports whether a certificate is present
func (k *KeyMaterial) HasCertificate() bool {
	return k != nil && strings.TrimSpace(k.CertificatePEM) != ""
}

// IsComplete reports whether both halves of the pair are present
func (k *KeyMaterial) IsComplete() bool {
	return k.HasPrivateKey() && k.HasCertificate()
}

// KeyStore persists key material. Load returns an empty KeyMaterial, not an
// error, when nothing has been stored yet.
type KeyStore interface {
	Name() string
	Load(ctx context.Context) (*KeyMaterial, error)
	Save(ctx context.Context, material *KeyMaterial) error
}
