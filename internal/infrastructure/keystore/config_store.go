// Package keystore persists the print bridge key pair.
package keystore

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/nextpos/printing/internal/domain/credential"
)

// ConfigKeyStore serves key material supplied as base64-encoded PEM values
// in the application configuration. It cannot store generated keys.
type ConfigKeyStore struct {
	privateKeyB64  string
	certificateB64 string
}

var _ credential.KeyStore = (*ConfigKeyStore)(nil)

// NewConfigKeyStore creates a read-only store from base64 PEM values
func NewConfigKeyStore(privateKeyB64, certificateB64 string) *ConfigKeyStore {
	return &ConfigKeyStore{
		privateKeyB64:  strings.TrimSpace(privateKeyB64),
		certificateB64: strings.TrimSpace(certificateB64),
	}
}

// Name implements credential.KeyStore
func (s *ConfigKeyStore) Name() string { return "config" }

// Load decodes the configured values. Absent values yield empty fields.
func (s *ConfigKeyStore) Load(_ context.Context) (*credential.KeyMaterial, error) {
	key, err := decodeB64(s.privateKeyB64)
	if err != nil {
		return nil, fmt.Errorf("decode private key: %w", err)
	}
	cert, err := decodeB64(s.certificateB64)
	if err != nil {
		return nil, fmt.Errorf("decode certificate: %w", err)
	}
	return &credential.KeyMaterial{PrivateKeyPEM: key, CertificatePEM: cert}, nil
}

// Save always fails; configuration values are managed outside the service
func (s *ConfigKeyStore) Save(_ context.Context, _ *credential.KeyMaterial) error {
	return credential.ErrReadOnlyStore
}

func decodeB64(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
